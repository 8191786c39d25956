package quizzes

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type QuestionRepo interface {
	Create(dbc dbctx.Context, question *types.Question) (*types.Question, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error)
	List(dbc dbctx.Context, quizID *uuid.UUID) ([]*types.Question, error)
	NextPosition(dbc dbctx.Context, quizID uuid.UUID) (int, error)
	// Update writes scalar fields. When choices is non-nil the question's choices
	// are replaced and answers pointing at the old ones lose their selection.
	Update(dbc dbctx.Context, question *types.Question, choices []types.Choice) error
	// Delete removes the question with its choices and recorded answers.
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (r *questionRepo) Create(dbc dbctx.Context, question *types.Question) (*types.Question, error) {
	if err := dbc.DB(r.db).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (r *questionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error) {
	var q types.Question
	err := dbc.DB(r.db).Preload("Choices", orderByPosition).Where("id = ?", id).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *questionRepo) List(dbc dbctx.Context, quizID *uuid.UUID) ([]*types.Question, error) {
	q := dbc.DB(r.db).Preload("Choices", orderByPosition)
	if quizID != nil {
		q = q.Where("quiz_id = ?", *quizID)
	}
	var out []*types.Question
	if err := q.Order("quiz_id ASC").Order("position ASC").Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) NextPosition(dbc dbctx.Context, quizID uuid.UUID) (int, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Question{}).Where("quiz_id = ?", quizID).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *questionRepo) Update(dbc dbctx.Context, question *types.Question, choices []types.Choice) error {
	return dbc.Transaction(r.db, func(inner dbctx.Context) error {
		tx := inner.DB(r.db)
		if err := tx.Model(&types.Question{}).
			Where("id = ?", question.ID).
			Updates(map[string]any{
				"text":          question.Text,
				"question_type": question.QuestionType,
				"difficulty":    question.Difficulty,
				"explanation":   question.Explanation,
			}).Error; err != nil {
			return err
		}
		if choices == nil {
			return nil
		}
		var oldIDs []uuid.UUID
		if err := tx.Model(&types.Choice{}).Where("question_id = ?", question.ID).Pluck("id", &oldIDs).Error; err != nil {
			return err
		}
		if len(oldIDs) > 0 {
			if err := tx.Model(&types.AttemptAnswer{}).
				Where("selected_choice_id IN ?", oldIDs).
				Update("selected_choice_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", oldIDs).Delete(&types.Choice{}).Error; err != nil {
				return err
			}
		}
		if len(choices) == 0 {
			return nil
		}
		for i := range choices {
			choices[i].ID = uuid.Nil
			choices[i].QuestionID = question.ID
			choices[i].Position = i
		}
		return tx.Create(&choices).Error
	})
}

func (r *questionRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Transaction(r.db, func(inner dbctx.Context) error {
		tx := inner.DB(r.db)
		if err := tx.Where("question_id = ?", id).Delete(&types.AttemptAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&types.Choice{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.Question{}).Error
	})
}
