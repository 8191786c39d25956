package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func TestQueryID(t *testing.T) {
	id := uuid.New()

	c, _ := testContext(httptest.NewRequest(http.MethodGet, "/?subject="+id.String(), nil))
	got, ok := queryID(c, "subject")
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	c, _ = testContext(httptest.NewRequest(http.MethodGet, "/", nil))
	got, ok = queryID(c, "subject")
	assert.True(t, ok)
	assert.Nil(t, got)

	c, w := testContext(httptest.NewRequest(http.MethodGet, "/?subject=abc", nil))
	_, ok = queryID(c, "subject")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_subject")
}

func TestBindJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	c, _ := testContext(httptest.NewRequest(http.MethodPost, "/", http.NoBody))
	dst := body{Name: "kept"}
	require.True(t, bindJSON(c, &dst))
	assert.Equal(t, "kept", dst.Name)

	c, _ = testContext(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"new"}`)))
	require.True(t, bindJSON(c, &dst))
	assert.Equal(t, "new", dst.Name)

	c, w := testContext(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`)))
	assert.False(t, bindJSON(c, &dst))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_request")
}

func TestFormFile(t *testing.T) {
	c, _ := testContext(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	f, closeFn, ok := formFile(c, "file")
	require.True(t, ok)
	assert.Nil(t, f)
	closeFn()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Notes"))
	part, err := mw.CreateFormFile("file", "notes.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 body"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c, _ = testContext(req)
	f, closeFn, ok = formFile(c, "file")
	require.True(t, ok)
	require.NotNil(t, f)
	defer closeFn()
	assert.Equal(t, "notes.pdf", f.Filename)

	missing, closeMissing, ok := formFile(c, "other")
	assert.True(t, ok)
	assert.Nil(t, missing)
	closeMissing()
}

func TestQueryIntAndBool(t *testing.T) {
	c, _ := testContext(httptest.NewRequest(http.MethodGet, "/?limit=5&unread=true&bad=-3", nil))
	assert.Equal(t, 5, queryInt(c, "limit"))
	assert.Equal(t, 0, queryInt(c, "bad"))
	assert.Equal(t, 0, queryInt(c, "absent"))
	assert.True(t, queryBool(c, "unread"))
	assert.False(t, queryBool(c, "absent"))
}
