package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnhub-backend/internal/domain"
)

func TestNotificationsAreScopedToRecipient(t *testing.T) {
	h := newHarness(t)
	alice := testutil.SeedUser(t, h.ctx, h.db, "alice")
	bob := testutil.SeedUser(t, h.ctx, h.db, "bob")

	n, err := h.notifications.Create(h.dbc(), alice.ID, NotificationInput{UserID: &bob.ID, Title: "Hello"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.UserID != bob.ID || n.IsRead {
		t.Fatalf("notification: want unread for bob got user=%s read=%v", n.UserID, n.IsRead)
	}

	err = h.notifications.MarkRead(h.dbc(), alice.ID, n.ID)
	requireStatus(t, err, http.StatusNotFound, "notification_not_found")

	if err := h.notifications.MarkRead(h.dbc(), bob.ID, n.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	unread, err := h.notifications.List(h.dbc(), bob.ID, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("unread after mark: want=0 got=%d", len(unread))
	}
	all, err := h.notifications.List(h.dbc(), bob.ID, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 || !all[0].IsRead {
		t.Fatalf("all: want one read notification got %+v", all)
	}

	self, err := h.notifications.Create(h.dbc(), alice.ID, NotificationInput{Title: "Note to self"})
	if err != nil {
		t.Fatalf("Create self: %v", err)
	}
	if self.UserID != alice.ID {
		t.Fatalf("default recipient: want=%s got=%s", alice.ID, self.UserID)
	}

	missing := uuid.New()
	_, err = h.notifications.Create(h.dbc(), alice.ID, NotificationInput{UserID: &missing, Title: "Nobody"})
	requireStatus(t, err, http.StatusBadRequest, "user_not_found")
}

func TestBookmarks(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.ctx, h.db, "reader")
	other := testutil.SeedUser(t, h.ctx, h.db, "other")
	res := testutil.SeedResource(t, h.ctx, h.db, user.ID, "Cells")
	quiz := testutil.SeedQuiz(t, h.ctx, h.db, user.ID, nil, "Cells quiz", 0)

	_, err := h.bookmarks.Create(h.dbc(), user.ID, BookmarkInput{})
	requireStatus(t, err, http.StatusBadRequest, "bookmark_target_required")

	b, err := h.bookmarks.Create(h.dbc(), user.ID, BookmarkInput{ResourceID: &res.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = h.bookmarks.Create(h.dbc(), user.ID, BookmarkInput{ResourceID: &res.ID})
	requireStatus(t, err, http.StatusConflict, "already_bookmarked")
	if _, err := h.bookmarks.Create(h.dbc(), user.ID, BookmarkInput{QuizID: &quiz.ID}); err != nil {
		t.Fatalf("Create quiz bookmark: %v", err)
	}
	if _, err := h.bookmarks.Create(h.dbc(), other.ID, BookmarkInput{ResourceID: &res.ID}); err != nil {
		t.Fatalf("Create other user's bookmark: %v", err)
	}

	missing := uuid.New()
	_, err = h.bookmarks.Create(h.dbc(), user.ID, BookmarkInput{QuizID: &missing})
	requireStatus(t, err, http.StatusBadRequest, "quiz_not_found")

	mine, err := h.bookmarks.List(h.dbc(), user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("bookmarks: want=2 got=%d", len(mine))
	}

	err = h.bookmarks.Delete(h.dbc(), other.ID, b.ID)
	requireStatus(t, err, http.StatusNotFound, "bookmark_not_found")
	if err := h.bookmarks.Delete(h.dbc(), user.ID, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestProgressMarkCompleteIsIdempotent(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.ctx, h.db, "learner")
	subject := testutil.SeedSubject(t, h.ctx, h.db, "Math")
	topic := testutil.SeedTopic(t, h.ctx, h.db, subject.ID, "Algebra")

	first, err := h.progress.MarkComplete(h.dbc(), user.ID, &topic.ID)
	if err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}
	second, err := h.progress.MarkComplete(h.dbc(), user.ID, &topic.ID)
	if err != nil {
		t.Fatalf("MarkComplete again: %v", err)
	}
	if first.ID != second.ID || !second.IsCompleted {
		t.Fatalf("progress: want same completed row got %s/%s completed=%v", first.ID, second.ID, second.IsCompleted)
	}
	if n := h.count(t, &types.TopicProgress{}); n != 1 {
		t.Fatalf("progress rows: want=1 got=%d", n)
	}

	_, err = h.progress.MarkComplete(h.dbc(), user.ID, nil)
	requireStatus(t, err, http.StatusBadRequest, "topic_required")
	missing := uuid.New()
	_, err = h.progress.MarkComplete(h.dbc(), user.ID, &missing)
	requireStatus(t, err, http.StatusNotFound, "topic_not_found")
}

func TestHomeworkSubmissionLifecycle(t *testing.T) {
	h := newHarness(t)
	teacher := testutil.SeedUser(t, h.ctx, h.db, "teacher")
	student := testutil.SeedUser(t, h.ctx, h.db, "student")
	outsider := testutil.SeedUser(t, h.ctx, h.db, "outsider")

	_, err := h.homework.CreateHomework(h.dbc(), teacher.ID, HomeworkInput{Title: "Essay"})
	requireStatus(t, err, http.StatusBadRequest, "due_date_required")

	hw := testutil.SeedHomework(t, h.ctx, h.db, teacher.ID, "Essay")
	sub, err := h.homework.CreateSubmission(h.dbc(), student.ID, SubmissionInput{HomeworkID: hw.ID, TextResponse: "My answer"}, pdfUpload("essay.pdf"))
	if err != nil {
		t.Fatalf("CreateSubmission: %v", err)
	}
	if sub.StorageKey == "" || h.bucket.Len() != 1 {
		t.Fatalf("submission file: want stored got key=%q blobs=%d", sub.StorageKey, h.bucket.Len())
	}

	_, err = h.homework.GetSubmission(h.dbc(), outsider.ID, sub.ID)
	requireStatus(t, err, http.StatusNotFound, "submission_not_found")

	grade := 92.5
	_, err = h.homework.GradeSubmission(h.dbc(), student.ID, sub.ID, SubmissionGradeInput{Grade: &grade})
	requireStatus(t, err, http.StatusForbidden, "not_homework_teacher")

	graded, err := h.homework.GradeSubmission(h.dbc(), teacher.ID, sub.ID, SubmissionGradeInput{Grade: &grade, Feedback: "Good"})
	if err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}
	if graded.Grade == nil || *graded.Grade != grade || graded.Feedback != "Good" {
		t.Fatalf("graded submission: got grade=%v feedback=%q", graded.Grade, graded.Feedback)
	}
	notes, err := h.notifications.List(h.dbc(), student.ID, true)
	if err != nil {
		t.Fatalf("List notifications: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("grade notifications: want=1 got=%d", len(notes))
	}

	visible, err := h.homework.ListSubmissions(h.dbc(), teacher.ID, nil)
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("teacher submissions: want=1 got=%d", len(visible))
	}
	hidden, err := h.homework.ListSubmissions(h.dbc(), outsider.ID, nil)
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(hidden) != 0 {
		t.Fatalf("outsider submissions: want=0 got=%d", len(hidden))
	}

	err = h.homework.DeleteHomework(h.dbc(), student.ID, hw.ID)
	requireStatus(t, err, http.StatusForbidden, "not_homework_teacher")
	if err := h.homework.DeleteHomework(h.dbc(), teacher.ID, hw.ID); err != nil {
		t.Fatalf("DeleteHomework: %v", err)
	}
	if n := h.count(t, &types.HomeworkSubmission{}); n != 0 {
		t.Fatalf("submissions after delete: want=0 got=%d", n)
	}
	if h.bucket.Len() != 0 {
		t.Fatalf("blobs after delete: want=0 got=%d", h.bucket.Len())
	}
}
