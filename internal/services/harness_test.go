package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	rediscache "github.com/yungbote/learnhub-backend/internal/clients/redis"
	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/observability"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

// harness wires every service against one private SQLite database.
type harness struct {
	ctx       context.Context
	db        *gorm.DB
	bucket    *storage.MemoryBucket
	extractor *fakeExtractor
	cache     rediscache.Cache
	metrics   *observability.Metrics

	auth          AuthService
	users         UserService
	taxonomy      TaxonomyService
	resources     ResourceService
	quizzes       QuizService
	homework      HomeworkService
	notifications NotificationService
	bookmarks     BookmarkService
	progress      ProgressService
	search        SearchService
	dashboard     DashboardService
	generator     GeneratorService
	chat          ChatService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)

	userRepo := repos.NewUserRepo(db, log)
	tokenRepo := repos.NewUserTokenRepo(db, log)
	subjectRepo := repos.NewSubjectRepo(db, log)
	topicRepo := repos.NewTopicRepo(db, log)
	chapterRepo := repos.NewChapterRepo(db, log)
	resourceRepo := repos.NewResourceRepo(db, log)
	versionRepo := repos.NewResourceVersionRepo(db, log)
	quizRepo := repos.NewQuizRepo(db, log)
	questionRepo := repos.NewQuestionRepo(db, log)
	attemptRepo := repos.NewQuizAttemptRepo(db, log)
	homeworkRepo := repos.NewHomeworkRepo(db, log)
	submissionRepo := repos.NewSubmissionRepo(db, log)
	bookmarkRepo := repos.NewBookmarkRepo(db, log)
	notificationRepo := repos.NewNotificationRepo(db, log)
	progressRepo := repos.NewTopicProgressRepo(db, log)

	h := &harness{
		ctx:       context.Background(),
		db:        db,
		bucket:    storage.NewMemoryBucket(""),
		extractor: &fakeExtractor{text: "extracted"},
		cache:     rediscache.NewMemoryCache(),
		metrics:   observability.NewMetrics(),
	}
	files := NewFileService(log, h.bucket, 1<<20)
	h.dashboard = NewDashboardService(log, attemptRepo, h.cache, time.Minute, h.metrics)
	h.auth = NewAuthService(db, log, userRepo, tokenRepo, "test-secret", time.Hour, 24*time.Hour)
	h.users = NewUserService(db, log, userRepo)
	h.taxonomy = NewTaxonomyService(db, log, subjectRepo, topicRepo, chapterRepo)
	h.resources = NewResourceService(db, log, resourceRepo, versionRepo, subjectRepo, topicRepo, chapterRepo, files, h.extractor, h.metrics)
	h.quizzes = NewQuizService(db, log, quizRepo, questionRepo, attemptRepo, userRepo, subjectRepo, topicRepo, chapterRepo, h.dashboard, h.metrics)
	h.notifications = NewNotificationService(db, log, notificationRepo, userRepo)
	h.homework = NewHomeworkService(db, log, homeworkRepo, submissionRepo, files, h.notifications)
	h.bookmarks = NewBookmarkService(db, log, bookmarkRepo, resourceRepo, quizRepo)
	h.progress = NewProgressService(db, log, progressRepo, topicRepo)
	h.search = NewSearchService(log, resourceRepo, quizRepo)
	h.generator = NewGeneratorService(log, files, h.extractor)
	h.chat = NewChatService(log, resourceRepo)
	return h
}

func (h *harness) dbc() dbctx.Context {
	return dbctx.Context{Ctx: h.ctx}
}

func (h *harness) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := h.db.WithContext(h.ctx).Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func requireStatus(t *testing.T, err error, status int, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("want error status=%d code=%s, got nil", status, code)
	}
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("want api error, got %T: %v", err, err)
	}
	if ae.Status != status {
		t.Fatalf("status: want=%d got=%d (%v)", status, ae.Status, err)
	}
	if code != "" && ae.Code != code {
		t.Fatalf("code: want=%s got=%s", code, ae.Code)
	}
}

var errBoom = errors.New("boom")
