package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Subject {
	tb.Helper()
	s := &types.Subject{Name: name}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, subjectID uuid.UUID, name string) *types.Topic {
	tb.Helper()
	t := &types.Topic{SubjectID: subjectID, Name: name}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

func SeedChapter(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, title string) *types.Chapter {
	tb.Helper()
	c := &types.Chapter{TopicID: topicID, Title: title}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return c
}

func SeedResource(tb testing.TB, ctx context.Context, tx *gorm.DB, uploaderID uuid.UUID, title string) *types.Resource {
	tb.Helper()
	r := &types.Resource{UploaderID: uploaderID, Title: title, Difficulty: types.DifficultyMedium}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed resource: %v", err)
	}
	return r
}

func SeedResourceVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, n int, text string) *types.ResourceVersion {
	tb.Helper()
	v := &types.ResourceVersion{
		ResourceID:    resourceID,
		VersionNumber: n,
		StorageKey:    "resources/" + resourceID.String() + "/v" + time.Now().Format("150405.000000"),
		FileMime:      "application/pdf",
		ExtractedText: text,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed resource version: %v", err)
	}
	return v
}

// SeedQuiz creates a quiz with one mcq question per entry in correct; each
// question gets four choices and the given index is flagged correct.
func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, creatorID uuid.UUID, subjectID *uuid.UUID, title string, correct ...int) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{CreatorID: creatorID, SubjectID: subjectID, Title: title}
	for i, c := range correct {
		qq := types.Question{Position: i, Text: title + " question", QuestionType: types.QuestionTypeMCQ}
		for j := 0; j < 4; j++ {
			qq.Choices = append(qq.Choices, types.Choice{Position: j, Text: "choice", IsCorrect: j == c})
		}
		q.Questions = append(q.Questions, qq)
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func SeedHomework(tb testing.TB, ctx context.Context, tx *gorm.DB, teacherID uuid.UUID, title string) *types.Homework {
	tb.Helper()
	h := &types.Homework{TeacherID: teacherID, Title: title, DueDate: time.Now().Add(72 * time.Hour).UTC()}
	if err := tx.WithContext(ctx).Create(h).Error; err != nil {
		tb.Fatalf("seed homework: %v", err)
	}
	return h
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
