package coursework

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type HomeworkRepo interface {
	Create(dbc dbctx.Context, homeworks []*types.Homework) ([]*types.Homework, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Homework, error)
	List(dbc dbctx.Context, teacherID *uuid.UUID) ([]*types.Homework, error)
	Update(dbc dbctx.Context, homework *types.Homework) error
	// Delete removes the homework and its submissions. Returns the storage keys of removed files.
	Delete(dbc dbctx.Context, id uuid.UUID) ([]string, error)
}

type homeworkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHomeworkRepo(db *gorm.DB, baseLog *logger.Logger) HomeworkRepo {
	repoLog := baseLog.With("repo", "HomeworkRepo")
	return &homeworkRepo{db: db, log: repoLog}
}

func (r *homeworkRepo) Create(dbc dbctx.Context, homeworks []*types.Homework) ([]*types.Homework, error) {
	if len(homeworks) == 0 {
		return []*types.Homework{}, nil
	}
	if err := dbc.DB(r.db).Create(&homeworks).Error; err != nil {
		return nil, err
	}
	return homeworks, nil
}

func (r *homeworkRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Homework, error) {
	var h types.Homework
	err := dbc.DB(r.db).Where("id = ?", id).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *homeworkRepo) List(dbc dbctx.Context, teacherID *uuid.UUID) ([]*types.Homework, error) {
	q := dbc.DB(r.db)
	if teacherID != nil {
		q = q.Where("teacher_id = ?", *teacherID)
	}
	var out []*types.Homework
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *homeworkRepo) Update(dbc dbctx.Context, homework *types.Homework) error {
	return dbc.DB(r.db).
		Model(&types.Homework{}).
		Where("id = ?", homework.ID).
		Updates(map[string]any{
			"title":       homework.Title,
			"description": homework.Description,
			"due_date":    homework.DueDate,
		}).Error
}

func (r *homeworkRepo) Delete(dbc dbctx.Context, id uuid.UUID) ([]string, error) {
	var keys []string
	err := dbc.Transaction(r.db, func(inner dbctx.Context) error {
		tx := inner.DB(r.db)
		if err := tx.Model(&types.HomeworkSubmission{}).
			Where("homework_id = ? AND storage_key <> ''", id).
			Pluck("storage_key", &keys).Error; err != nil {
			return err
		}
		if err := tx.Where("homework_id = ?", id).Delete(&types.HomeworkSubmission{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.Homework{}).Error
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
