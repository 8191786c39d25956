package taxonomy

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
)

func TestTaxonomyListing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	subjects := NewSubjectRepo(db, log)
	topics := NewTopicRepo(db, log)
	chapters := NewChapterRepo(db, log)

	physics := testutil.SeedSubject(t, ctx, tx, "Physics")
	math := testutil.SeedSubject(t, ctx, tx, "Math")
	algebra := testutil.SeedTopic(t, ctx, tx, math.ID, "Algebra")
	testutil.SeedTopic(t, ctx, tx, physics.ID, "Optics")
	testutil.SeedChapter(t, ctx, tx, algebra.ID, "Linear equations")

	all, err := subjects.List(dbc)
	if err != nil || len(all) != 2 || all[0].Name != "Math" {
		t.Fatalf("List subjects: err=%v rows=%v", err, all)
	}
	mathTopics, err := topics.List(dbc, &math.ID)
	if err != nil || len(mathTopics) != 1 || mathTopics[0].ID != algebra.ID {
		t.Fatalf("List topics by subject: err=%v rows=%v", err, mathTopics)
	}
	if got, err := topics.GetBySubjectAndName(dbc, math.ID, "Algebra"); err != nil || got == nil {
		t.Fatalf("GetBySubjectAndName: err=%v got=%v", err, got)
	}
	chs, err := chapters.List(dbc, &algebra.ID)
	if err != nil || len(chs) != 1 {
		t.Fatalf("List chapters by topic: err=%v rows=%v", err, chs)
	}
	if _, err := topics.Create(dbc, []*types.Topic{{SubjectID: math.ID, Name: "Algebra"}}); err == nil {
		t.Fatalf("expected duplicate topic in subject to fail")
	}
	if _, err := topics.Create(dbc, []*types.Topic{{SubjectID: physics.ID, Name: "Algebra"}}); err != nil {
		t.Fatalf("same topic name under another subject: %v", err)
	}
}

func TestSubjectDeleteCascades(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	u := testutil.SeedUser(t, ctx, tx, "teacher")
	math := testutil.SeedSubject(t, ctx, tx, "Math")
	algebra := testutil.SeedTopic(t, ctx, tx, math.ID, "Algebra")
	ch := testutil.SeedChapter(t, ctx, tx, algebra.ID, "Intro")

	res := &types.Resource{UploaderID: u.ID, Title: "notes", SubjectID: &math.ID, TopicID: &algebra.ID, ChapterID: &ch.ID}
	if err := tx.Create(res).Error; err != nil {
		t.Fatalf("seed resource: %v", err)
	}
	quiz := testutil.SeedQuiz(t, ctx, tx, u.ID, &math.ID, "quiz", 0)
	if err := tx.Create(&types.TopicProgress{UserID: u.ID, TopicID: algebra.ID, IsCompleted: true}).Error; err != nil {
		t.Fatalf("seed progress: %v", err)
	}

	if err := NewSubjectRepo(db, log).Delete(dbc, math.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var n int64
	tx.Model(&types.Topic{}).Where("id = ?", algebra.ID).Count(&n)
	if n != 0 {
		t.Fatalf("topic should be deleted")
	}
	tx.Model(&types.Chapter{}).Where("id = ?", ch.ID).Count(&n)
	if n != 0 {
		t.Fatalf("chapter should be deleted")
	}
	tx.Model(&types.TopicProgress{}).Count(&n)
	if n != 0 {
		t.Fatalf("progress should be deleted")
	}

	var gotRes types.Resource
	if err := tx.First(&gotRes, "id = ?", res.ID).Error; err != nil {
		t.Fatalf("resource should survive: %v", err)
	}
	if gotRes.SubjectID != nil || gotRes.TopicID != nil || gotRes.ChapterID != nil {
		t.Fatalf("resource refs should be cleared: %+v", gotRes)
	}
	var gotQuiz types.Quiz
	if err := tx.First(&gotQuiz, "id = ?", quiz.ID).Error; err != nil || gotQuiz.SubjectID != nil {
		t.Fatalf("quiz should survive with subject cleared: err=%v quiz=%+v", err, gotQuiz)
	}
	if s, err := NewSubjectRepo(db, log).GetByID(dbc, uuid.New()); err != nil || s != nil {
		t.Fatalf("GetByID(missing): err=%v got=%v", err, s)
	}
}
