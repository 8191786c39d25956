package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
)

// RespondAPIError writes err as an error envelope. Errors that are not
// *apierr.Error become an opaque 500.
func RespondAPIError(c *gin.Context, err error) {
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae == nil {
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
		return
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		RespondError(c, status, ae.Code, errors.New(http.StatusText(status)))
		return
	}
	var msgErr error = ae
	if ae.Err == nil {
		msgErr = errors.New(defaultMessage(status, ae.Code))
	}
	RespondError(c, status, ae.Code, msgErr)
}

// AbortAPIError writes the envelope and stops the handler chain.
func AbortAPIError(c *gin.Context, err error) {
	RespondAPIError(c, err)
	c.Abort()
}

func defaultMessage(status int, code string) string {
	if code != "" {
		return code
	}
	if t := http.StatusText(status); t != "" {
		return t
	}
	return "error"
}
