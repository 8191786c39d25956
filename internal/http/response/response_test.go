package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
)

func TestRespondAPIError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody APIError
	}{
		{
			name:     "bad request keeps message",
			err:      apierr.BadRequest("title_required", errors.New("title is required")),
			wantCode: http.StatusBadRequest,
			wantBody: APIError{Message: "title is required", Code: "title_required"},
		},
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("load: %w", apierr.NotFound("quiz_not_found")),
			wantCode: http.StatusNotFound,
			wantBody: APIError{Message: "quiz_not_found", Code: "quiz_not_found"},
		},
		{
			name:     "internal hides detail",
			err:      apierr.Internal("storage_upload_failed", errors.New("bucket credentials leaked")),
			wantCode: http.StatusInternalServerError,
			wantBody: APIError{Message: "Internal Server Error", Code: "storage_upload_failed"},
		},
		{
			name:     "plain error",
			err:      errors.New("sql: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: APIError{Message: "internal server error", Code: "internal_error"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondAPIError(c, tc.err)

			assert.Equal(t, tc.wantCode, rec.Code)
			var env ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tc.wantBody, env.Error)
		})
	}
}
