package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

// tokenAuth accepts exactly one token.
type tokenAuth struct {
	services.AuthService
	valid  string
	userID uuid.UUID
}

func (a tokenAuth) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString != a.valid {
		return nil, apierr.Unauthorized("invalid_token")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: tokenString, UserID: a.userID}), nil
}

func newAuthRouter(t *testing.T, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	require.NoError(t, err)
	am := NewAuthMiddleware(log, tokenAuth{valid: "good", userID: userID})

	whoami := func(c *gin.Context) {
		response.RespondOK(c, gin.H{"user_id": ctxutil.UserID(c.Request.Context()).String()})
	}
	r := gin.New()
	r.GET("/private", am.RequireAuth(), whoami)
	r.GET("/public", am.OptionalAuth(), whoami)
	return r
}

func serve(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	userID := uuid.New()
	r := newAuthRouter(t, userID)

	cases := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing header", "", http.StatusUnauthorized, "not_authenticated"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "not_authenticated"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "invalid_token"},
		{"valid token", "Bearer good", http.StatusOK, ""},
		{"scheme is case insensitive", "bearer good", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, "/private", tc.header)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.code != "" {
				var env response.ErrorEnvelope
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
				assert.Equal(t, tc.code, env.Error.Code)
				return
			}
			assert.Contains(t, w.Body.String(), userID.String())
		})
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	userID := uuid.New()
	r := newAuthRouter(t, userID)

	w := serve(r, "/public", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), uuid.Nil.String())

	w = serve(r, "/public", "Bearer nope")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), uuid.Nil.String())

	w = serve(r, "/public", "Bearer good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}
