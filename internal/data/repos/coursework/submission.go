package coursework

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// SubmissionFilter scopes a listing. Visible to a user are their own submissions
// plus every submission to homework they set.
type SubmissionFilter struct {
	HomeworkID *uuid.UUID
	VisibleTo  uuid.UUID
}

type SubmissionRepo interface {
	Create(dbc dbctx.Context, submissions []*types.HomeworkSubmission) ([]*types.HomeworkSubmission, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.HomeworkSubmission, error)
	List(dbc dbctx.Context, f SubmissionFilter) ([]*types.HomeworkSubmission, error)
	UpdateGrade(dbc dbctx.Context, id uuid.UUID, grade *float64, feedback string) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	repoLog := baseLog.With("repo", "SubmissionRepo")
	return &submissionRepo{db: db, log: repoLog}
}

func (r *submissionRepo) Create(dbc dbctx.Context, submissions []*types.HomeworkSubmission) ([]*types.HomeworkSubmission, error) {
	if len(submissions) == 0 {
		return []*types.HomeworkSubmission{}, nil
	}
	if err := dbc.DB(r.db).Omit("Homework").Create(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.HomeworkSubmission, error) {
	var s types.HomeworkSubmission
	err := dbc.DB(r.db).Preload("Homework").Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *submissionRepo) List(dbc dbctx.Context, f SubmissionFilter) ([]*types.HomeworkSubmission, error) {
	tx := dbc.DB(r.db)
	q := tx.Where(
		"(student_id = ? OR homework_id IN (?))",
		f.VisibleTo,
		tx.Model(&types.Homework{}).Select("id").Where("teacher_id = ?", f.VisibleTo),
	)
	if f.HomeworkID != nil {
		q = q.Where("homework_id = ?", *f.HomeworkID)
	}
	var out []*types.HomeworkSubmission
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) UpdateGrade(dbc dbctx.Context, id uuid.UUID, grade *float64, feedback string) error {
	return dbc.DB(r.db).
		Model(&types.HomeworkSubmission{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"grade":    grade,
			"feedback": feedback,
		}).Error
}

func (r *submissionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.HomeworkSubmission{}).Error
}
