package quizzes

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// SubjectScore is a per-subject average; SubjectName is nil for quizzes without a subject.
type SubjectScore struct {
	SubjectName *string `json:"subject_name"`
	AvgScore    float64 `json:"avg_score"`
}

type ScoreSummary struct {
	AvgScore    float64
	NumAttempts int64
	Subjects    []SubjectScore
}

type QuizAttemptRepo interface {
	// Create inserts the attempt and its answers.
	Create(dbc dbctx.Context, attempt *types.QuizAttempt) (*types.QuizAttempt, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuizAttempt, error)
	List(dbc dbctx.Context, studentID uuid.UUID, quizID *uuid.UUID) ([]*types.QuizAttempt, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	SummarizeScores(dbc dbctx.Context, studentID uuid.UUID) (*ScoreSummary, error)
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	repoLog := baseLog.With("repo", "QuizAttemptRepo")
	return &quizAttemptRepo{db: db, log: repoLog}
}

func (r *quizAttemptRepo) Create(dbc dbctx.Context, attempt *types.QuizAttempt) (*types.QuizAttempt, error) {
	if err := dbc.DB(r.db).Omit("Quiz").Create(attempt).Error; err != nil {
		return nil, err
	}
	return attempt, nil
}

func (r *quizAttemptRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.QuizAttempt, error) {
	var a types.QuizAttempt
	err := dbc.DB(r.db).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *quizAttemptRepo) List(dbc dbctx.Context, studentID uuid.UUID, quizID *uuid.UUID) ([]*types.QuizAttempt, error) {
	q := dbc.DB(r.db).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("student_id = ?", studentID)
	if quizID != nil {
		q = q.Where("quiz_id = ?", *quizID)
	}
	var out []*types.QuizAttempt
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizAttemptRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Transaction(r.db, func(inner dbctx.Context) error {
		tx := inner.DB(r.db)
		if err := tx.Where("attempt_id = ?", id).Delete(&types.AttemptAnswer{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.QuizAttempt{}).Error
	})
}

func (r *quizAttemptRepo) SummarizeScores(dbc dbctx.Context, studentID uuid.UUID) (*ScoreSummary, error) {
	tx := dbc.DB(r.db)

	var overall struct {
		AvgScore    float64
		NumAttempts int64
	}
	if err := tx.Model(&types.QuizAttempt{}).
		Select("COALESCE(AVG(score), 0) AS avg_score, COUNT(*) AS num_attempts").
		Where("student_id = ?", studentID).
		Scan(&overall).Error; err != nil {
		return nil, err
	}

	subjects := []SubjectScore{}
	if err := tx.Table("quiz_attempt").
		Select("subject.name AS subject_name, AVG(quiz_attempt.score) AS avg_score").
		Joins("JOIN quiz ON quiz.id = quiz_attempt.quiz_id").
		Joins("LEFT JOIN subject ON subject.id = quiz.subject_id").
		Where("quiz_attempt.student_id = ?", studentID).
		Group("subject.name").
		Order("CASE WHEN subject.name IS NULL THEN 1 ELSE 0 END, subject.name ASC").
		Scan(&subjects).Error; err != nil {
		return nil, err
	}

	return &ScoreSummary{
		AvgScore:    overall.AvgScore,
		NumAttempts: overall.NumAttempts,
		Subjects:    subjects,
	}, nil
}
