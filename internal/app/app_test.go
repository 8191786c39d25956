package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
)

func testConfig() Config {
	return Config{
		Port:              "0",
		Env:               "test",
		Storage:           storage.Config{Mode: storage.ObjectStorageModeMemory, PublicBaseURL: "https://cdn.test"},
		JWTSecretKey:      "test-secret",
		AccessTokenTTL:    time.Hour,
		RefreshTokenTTL:   24 * time.Hour,
		DashboardCacheTTL: time.Minute,
		MaxUploadBytes:    1 << 20,
		RequestTimeout:    10 * time.Second,
		ShutdownTimeout:   time.Second,
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("REDIS_ADDR", "")
	a, err := assemble(context.Background(), testutil.Logger(t), testConfig(), testutil.DB(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Clients.Close() })
	return a
}

type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

func (c *client) do(method, path string, body any) (int, map[string]any, string) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	raw := w.Body.String()
	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(raw), "{") {
		require.NoError(c.t, json.Unmarshal([]byte(raw), &out), raw)
	}
	return w.Code, out, raw
}

func TestHealthCheck(t *testing.T) {
	a := newTestApp(t)
	c := &client{t: t, h: a.Server.Engine}
	code, body, _ := c.do(http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestQuizFlowOverHTTP(t *testing.T) {
	a := newTestApp(t)
	c := &client{t: t, h: a.Server.Engine}

	code, _, _ := c.do(http.MethodPost, "/api/subjects/", map[string]any{"name": "Math"})
	require.Equal(t, http.StatusUnauthorized, code)

	code, user, raw := c.do(http.MethodPost, "/api/auth/register/", map[string]any{"username": "ada", "password": "secret"})
	require.Equal(t, http.StatusCreated, code, raw)
	assert.NotContains(t, raw, "password")
	userID := user["id"].(string)

	code, pair, raw := c.do(http.MethodPost, "/api/auth/token/", map[string]any{"username": "ada", "password": "secret"})
	require.Equal(t, http.StatusOK, code, raw)
	c.token = pair["token"].(string)

	code, body, raw := c.do(http.MethodPost, "/api/subjects/", map[string]any{"name": "Math"})
	require.Equal(t, http.StatusCreated, code, raw)
	subjectID := body["subject"].(map[string]any)["id"].(string)

	code, _, raw = c.do(http.MethodPost, "/api/subjects/", map[string]any{"name": "Math"})
	require.Equal(t, http.StatusConflict, code, raw)

	code, body, raw = c.do(http.MethodPost, "/api/quizzes/", map[string]any{
		"title":   "Fractions",
		"subject": subjectID,
		"questions": []map[string]any{
			{"text": "1/2 + 1/2?", "question_type": "mcq", "choices": []map[string]any{
				{"text": "1", "is_correct": true},
				{"text": "2"},
			}},
			{"text": "1/4 + 1/4?", "question_type": "mcq", "choices": []map[string]any{
				{"text": "1/2", "is_correct": true},
				{"text": "1/8"},
			}},
		},
	})
	require.Equal(t, http.StatusCreated, code, raw)
	assert.NotContains(t, raw, "is_correct")
	quizID := body["quiz"].(map[string]any)["id"].(string)

	code, body, raw = c.do(http.MethodGet, "/api/quizzes/"+quizID+"/take/", nil)
	require.Equal(t, http.StatusOK, code, raw)
	assert.NotContains(t, raw, "is_correct")
	questions := body["questions"].([]any)
	require.Len(t, questions, 2)

	// first question right, second wrong
	pick := map[string]string{"1/2 + 1/2?": "1", "1/4 + 1/4?": "1/8"}
	var answers []map[string]any
	for _, raw := range questions {
		q := raw.(map[string]any)
		for _, ch := range q["choices"].([]any) {
			choice := ch.(map[string]any)
			if choice["text"] == pick[q["text"].(string)] {
				answers = append(answers, map[string]any{"question": q["id"], "selected_choice": choice["id"]})
			}
		}
	}
	require.Len(t, answers, 2)

	code, body, raw = c.do(http.MethodPost, "/api/quizzes/"+quizID+"/grade/", map[string]any{
		"student": userID,
		"answers": answers,
	})
	require.Equal(t, http.StatusOK, code, raw)
	assert.InDelta(t, 50, body["attempt"].(map[string]any)["score"], 0.001)

	code, body, raw = c.do(http.MethodGet, "/api/dashboard/", nil)
	require.Equal(t, http.StatusOK, code, raw)
	assert.InDelta(t, 1, body["num_attempts"], 0)
	assert.InDelta(t, 50, body["avg_score"], 0.001)

	code, body, raw = c.do(http.MethodGet, "/api/search/?q=fraction", nil)
	require.Equal(t, http.StatusOK, code, raw)
	assert.Len(t, body["quizzes"], 1)

	code, _, _ = c.do(http.MethodPost, "/api/auth/logout/", nil)
	require.Equal(t, http.StatusOK, code)
	code, _, _ = c.do(http.MethodGet, "/api/auth/me/", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAIRouteAccess(t *testing.T) {
	a := newTestApp(t)
	c := &client{t: t, h: a.Server.Engine}

	code, body, raw := c.do(http.MethodPost, "/api/ai/chat/", map[string]any{"question": "algebra"})
	require.Equal(t, http.StatusOK, code, raw)
	assert.NotEmpty(t, body["answer"])
	assert.Nil(t, body["resource_id"])

	code, _, _ = c.do(http.MethodPost, "/api/ai/chat/", map[string]any{"question": " "})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = c.do(http.MethodPost, "/api/ai/generate-questions/", map[string]any{"text": "Cells divide."})
	require.Equal(t, http.StatusUnauthorized, code)

	code, _, raw = c.do(http.MethodPost, "/api/auth/register/", map[string]any{"username": "ada", "password": "secret"})
	require.Equal(t, http.StatusCreated, code, raw)
	code, pair, raw := c.do(http.MethodPost, "/api/auth/token/", map[string]any{"username": "ada", "password": "secret"})
	require.Equal(t, http.StatusOK, code, raw)
	c.token = pair["token"].(string)

	code, body, raw = c.do(http.MethodPost, "/api/ai/generate-questions/", map[string]any{"text": "   "})
	require.Equal(t, http.StatusOK, code, raw)
	assert.Equal(t, []any{}, body["questions"])

	code, _, _ = c.do(http.MethodPost, "/api/ai/generate-questions/", map[string]any{"text": ""})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body, raw = c.do(http.MethodPost, "/api/ai/chat/", map[string]any{"question": "algebra"})
	require.Equal(t, http.StatusOK, code, raw)
	assert.NotEmpty(t, body["answer"])
}
