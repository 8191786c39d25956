package quizzes

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos/sqlutil"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type QuizFilter struct {
	CreatorID *uuid.UUID
	SubjectID *uuid.UUID
	TopicID   *uuid.UUID
	ChapterID *uuid.UUID
	// Query matches the quiz title or any question text.
	Query string
	Limit int
}

type QuizRepo interface {
	// Create inserts the quiz together with its nested questions and choices.
	Create(dbc dbctx.Context, quiz *types.Quiz) (*types.Quiz, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error)
	List(dbc dbctx.Context, f QuizFilter) ([]*types.Quiz, error)
	Update(dbc dbctx.Context, quiz *types.Quiz) error
	// Delete removes the quiz with its questions, choices, attempts, answers and bookmarks.
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type quizRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	repoLog := baseLog.With("repo", "QuizRepo")
	return &quizRepo{db: db, log: repoLog}
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("created_at ASC")
}

func preloadQuestions(q *gorm.DB) *gorm.DB {
	return q.Preload("Questions", orderByPosition).Preload("Questions.Choices", orderByPosition)
}

func (r *quizRepo) Create(dbc dbctx.Context, quiz *types.Quiz) (*types.Quiz, error) {
	if err := dbc.DB(r.db).Create(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

func (r *quizRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Quiz, error) {
	var quiz types.Quiz
	err := preloadQuestions(dbc.DB(r.db)).Where("id = ?", id).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepo) List(dbc dbctx.Context, f QuizFilter) ([]*types.Quiz, error) {
	q := dbc.DB(r.db).Model(&types.Quiz{})
	if f.CreatorID != nil {
		q = q.Where("creator_id = ?", *f.CreatorID)
	}
	if f.SubjectID != nil {
		q = q.Where("subject_id = ?", *f.SubjectID)
	}
	if f.TopicID != nil {
		q = q.Where("topic_id = ?", *f.TopicID)
	}
	if f.ChapterID != nil {
		q = q.Where("chapter_id = ?", *f.ChapterID)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		p := sqlutil.ContainsPattern(s)
		q = q.Where(
			"("+sqlutil.ILike("title")+" OR id IN (SELECT quiz_id FROM question WHERE "+sqlutil.ILike("text")+"))",
			p, p,
		)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []*types.Quiz
	if err := preloadQuestions(q).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizRepo) Update(dbc dbctx.Context, quiz *types.Quiz) error {
	return dbc.DB(r.db).
		Model(&types.Quiz{}).
		Where("id = ?", quiz.ID).
		Updates(map[string]any{
			"subject_id":         quiz.SubjectID,
			"topic_id":           quiz.TopicID,
			"chapter_id":         quiz.ChapterID,
			"title":              quiz.Title,
			"is_timed":           quiz.IsTimed,
			"time_limit_seconds": quiz.TimeLimitSeconds,
			"randomize_order":    quiz.RandomizeOrder,
		}).Error
}

func (r *quizRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Transaction(r.db, func(inner dbctx.Context) error {
		tx := inner.DB(r.db)
		var questionIDs []uuid.UUID
		if err := tx.Model(&types.Question{}).Where("quiz_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&types.Choice{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", questionIDs).Delete(&types.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("attempt_id IN (?)", tx.Model(&types.QuizAttempt{}).Select("id").Where("quiz_id = ?", id)).
			Delete(&types.AttemptAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&types.QuizAttempt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&types.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.Quiz{}).Error
	})
}
