package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
)

type HomeworkInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

type SubmissionInput struct {
	HomeworkID   uuid.UUID `json:"homework" form:"homework"`
	TextResponse string    `json:"text_response" form:"text_response"`
}

type SubmissionGradeInput struct {
	Grade    *float64 `json:"grade" validate:"omitempty,min=0"`
	Feedback string   `json:"feedback"`
}

type HomeworkService interface {
	CreateHomework(dbc dbctx.Context, teacherID uuid.UUID, in HomeworkInput) (*types.Homework, error)
	GetHomework(dbc dbctx.Context, id uuid.UUID) (*types.Homework, error)
	ListHomework(dbc dbctx.Context, teacherID *uuid.UUID) ([]*types.Homework, error)
	UpdateHomework(dbc dbctx.Context, actorID, id uuid.UUID, in HomeworkInput) (*types.Homework, error)
	DeleteHomework(dbc dbctx.Context, actorID, id uuid.UUID) error

	CreateSubmission(dbc dbctx.Context, studentID uuid.UUID, in SubmissionInput, file *FileUpload) (*types.HomeworkSubmission, error)
	// ListSubmissions returns the caller's own submissions plus all submissions
	// to homework the caller set.
	ListSubmissions(dbc dbctx.Context, actorID uuid.UUID, homeworkID *uuid.UUID) ([]*types.HomeworkSubmission, error)
	GetSubmission(dbc dbctx.Context, actorID, id uuid.UUID) (*types.HomeworkSubmission, error)
	GradeSubmission(dbc dbctx.Context, actorID, id uuid.UUID, in SubmissionGradeInput) (*types.HomeworkSubmission, error)
	DeleteSubmission(dbc dbctx.Context, actorID, id uuid.UUID) error
}

type homeworkService struct {
	db            *gorm.DB
	log           *logger.Logger
	homeworks     repos.HomeworkRepo
	submissions   repos.SubmissionRepo
	files         FileService
	notifications NotificationService
}

func NewHomeworkService(
	db *gorm.DB,
	baseLog *logger.Logger,
	homeworkRepo repos.HomeworkRepo,
	submissionRepo repos.SubmissionRepo,
	files FileService,
	notifications NotificationService,
) HomeworkService {
	return &homeworkService{
		db:            db,
		log:           baseLog.With("service", "HomeworkService"),
		homeworks:     homeworkRepo,
		submissions:   submissionRepo,
		files:         files,
		notifications: notifications,
	}
}

func checkHomeworkInput(in *HomeworkInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateInput("invalid_homework", *in); err != nil {
		return err
	}
	if in.DueDate == nil || in.DueDate.IsZero() {
		return apierr.BadRequest("due_date_required", fmt.Errorf("due_date is required"))
	}
	return nil
}

func (hs *homeworkService) CreateHomework(dbc dbctx.Context, teacherID uuid.UUID, in HomeworkInput) (*types.Homework, error) {
	if err := checkHomeworkInput(&in); err != nil {
		return nil, err
	}
	h := &types.Homework{
		TeacherID:   teacherID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate.UTC(),
	}
	if _, err := hs.homeworks.Create(dbc, []*types.Homework{h}); err != nil {
		return nil, fmt.Errorf("create homework: %w", err)
	}
	return h, nil
}

func (hs *homeworkService) GetHomework(dbc dbctx.Context, id uuid.UUID) (*types.Homework, error) {
	h, err := hs.homeworks.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, apierr.NotFound("homework_not_found")
	}
	return h, nil
}

func (hs *homeworkService) ListHomework(dbc dbctx.Context, teacherID *uuid.UUID) ([]*types.Homework, error) {
	return hs.homeworks.List(dbc, teacherID)
}

func (hs *homeworkService) ownedHomework(dbc dbctx.Context, actorID, id uuid.UUID) (*types.Homework, error) {
	h, err := hs.GetHomework(dbc, id)
	if err != nil {
		return nil, err
	}
	if h.TeacherID != actorID {
		return nil, apierr.Forbidden("not_homework_teacher")
	}
	return h, nil
}

func (hs *homeworkService) UpdateHomework(dbc dbctx.Context, actorID, id uuid.UUID, in HomeworkInput) (*types.Homework, error) {
	if err := checkHomeworkInput(&in); err != nil {
		return nil, err
	}
	var out *types.Homework
	err := dbc.Transaction(hs.db, func(inner dbctx.Context) error {
		h, err := hs.ownedHomework(inner, actorID, id)
		if err != nil {
			return err
		}
		h.Title = in.Title
		h.Description = in.Description
		h.DueDate = in.DueDate.UTC()
		if err := hs.homeworks.Update(inner, h); err != nil {
			return fmt.Errorf("update homework: %w", err)
		}
		out, err = hs.GetHomework(inner, id)
		return err
	})
	return out, err
}

func (hs *homeworkService) DeleteHomework(dbc dbctx.Context, actorID, id uuid.UUID) error {
	var keys []string
	err := dbc.Transaction(hs.db, func(inner dbctx.Context) error {
		if _, err := hs.ownedHomework(inner, actorID, id); err != nil {
			return err
		}
		var err error
		keys, err = hs.homeworks.Delete(inner, id)
		return err
	})
	if err != nil {
		return err
	}
	hs.files.Delete(dbc, storage.BucketCategorySubmission, keys...)
	return nil
}

func (hs *homeworkService) CreateSubmission(dbc dbctx.Context, studentID uuid.UUID, in SubmissionInput, file *FileUpload) (*types.HomeworkSubmission, error) {
	if in.HomeworkID == uuid.Nil {
		return nil, apierr.BadRequest("homework_required", fmt.Errorf("homework is required"))
	}
	h, err := hs.homeworks.GetByID(dbc, in.HomeworkID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, apierr.BadRequest("homework_not_found", fmt.Errorf("homework %s does not exist", in.HomeworkID))
	}
	sub := &types.HomeworkSubmission{
		HomeworkID:   h.ID,
		StudentID:    studentID,
		TextResponse: strings.TrimSpace(in.TextResponse),
	}
	if file != nil && file.Reader != nil {
		stored, err := hs.files.Store(dbc, storage.BucketCategorySubmission, storage.ObjectKey("submissions", h.ID.String()), file)
		if err != nil {
			return nil, err
		}
		sub.StorageKey = stored.Key
		sub.FileURL = stored.URL
	}
	if _, err := hs.submissions.Create(dbc, []*types.HomeworkSubmission{sub}); err != nil {
		hs.files.Delete(dbc, storage.BucketCategorySubmission, sub.StorageKey)
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return sub, nil
}

func (hs *homeworkService) ListSubmissions(dbc dbctx.Context, actorID uuid.UUID, homeworkID *uuid.UUID) ([]*types.HomeworkSubmission, error) {
	return hs.submissions.List(dbc, repos.SubmissionFilter{HomeworkID: homeworkID, VisibleTo: actorID})
}

// GetSubmission reports submissions the caller may not see as missing.
func (hs *homeworkService) GetSubmission(dbc dbctx.Context, actorID, id uuid.UUID) (*types.HomeworkSubmission, error) {
	s, err := hs.submissions.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if s == nil || !(s.StudentID == actorID || (s.Homework != nil && s.Homework.TeacherID == actorID)) {
		return nil, apierr.NotFound("submission_not_found")
	}
	return s, nil
}

func (hs *homeworkService) GradeSubmission(dbc dbctx.Context, actorID, id uuid.UUID, in SubmissionGradeInput) (*types.HomeworkSubmission, error) {
	if err := validateInput("invalid_grade", in); err != nil {
		return nil, err
	}
	var out *types.HomeworkSubmission
	err := dbc.Transaction(hs.db, func(inner dbctx.Context) error {
		s, err := hs.GetSubmission(inner, actorID, id)
		if err != nil {
			return err
		}
		if s.Homework == nil || s.Homework.TeacherID != actorID {
			return apierr.Forbidden("not_homework_teacher")
		}
		if err := hs.submissions.UpdateGrade(inner, id, in.Grade, strings.TrimSpace(in.Feedback)); err != nil {
			return fmt.Errorf("grade submission: %w", err)
		}
		if hs.notifications != nil {
			if _, err := hs.notifications.Create(inner, s.StudentID, NotificationInput{
				Title: "Homework graded",
				Body:  fmt.Sprintf("Your submission for %q has been graded.", s.Homework.Title),
			}); err != nil {
				return err
			}
		}
		out, err = hs.GetSubmission(inner, actorID, id)
		return err
	})
	return out, err
}

func (hs *homeworkService) DeleteSubmission(dbc dbctx.Context, actorID, id uuid.UUID) error {
	var key string
	err := dbc.Transaction(hs.db, func(inner dbctx.Context) error {
		s, err := hs.GetSubmission(inner, actorID, id)
		if err != nil {
			return err
		}
		if s.StudentID != actorID {
			return apierr.Forbidden("not_submission_owner")
		}
		key = s.StorageKey
		return hs.submissions.Delete(inner, id)
	})
	if err != nil {
		return err
	}
	hs.files.Delete(dbc, storage.BucketCategorySubmission, key)
	return nil
}
