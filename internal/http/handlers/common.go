package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/services"
)

func dbc(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

// actor returns the authenticated caller. Routes behind RequireAuth always
// have one; a missing identity still answers 401.
func actor(c *gin.Context) (uuid.UUID, bool) {
	id := ctxutil.UserID(c.Request.Context())
	if id == uuid.Nil {
		response.RespondAPIError(c, apierr.Unauthorized("not_authenticated"))
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional uuid query parameter. An empty value yields nil.
func queryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	return parseOptionalID(c, name, c.Query(name))
}

func formID(c *gin.Context, name string) (*uuid.UUID, bool) {
	return parseOptionalID(c, name, c.PostForm(name))
}

func parseOptionalID(c *gin.Context, name, raw string) (*uuid.UUID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return nil, false
	}
	return &id, true
}

// bindJSON decodes the body over dst. An empty body leaves dst untouched so
// the service reports which field is missing.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(strings.ToLower(c.ContentType()), "multipart/")
}

// formFile opens the named multipart file. A missing part yields nil; the
// caller decides whether it is required. The returned close func is never nil.
func formFile(c *gin.Context, field string) (*services.FileUpload, func(), bool) {
	noop := func() {}
	if !isMultipart(c) {
		return nil, noop, true
	}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, true
		}
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart", err)
		return nil, noop, false
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart", err)
		return nil, noop, false
	}
	return &services.FileUpload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, func() { _ = f.Close() }, true
}

func queryBool(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Query(name)))
	return err == nil && v
}

func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
