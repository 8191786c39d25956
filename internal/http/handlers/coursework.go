package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
	"github.com/yungbote/learnhub-backend/internal/services"
)

// CourseworkHandler serves homework and homework submissions.
type CourseworkHandler struct {
	homework services.HomeworkService
	bucket   storage.BucketService
}

func NewCourseworkHandler(homework services.HomeworkService, bucket storage.BucketService) *CourseworkHandler {
	return &CourseworkHandler{homework: homework, bucket: bucket}
}

// GET /homeworks/?teacher=
func (ch *CourseworkHandler) ListHomework(c *gin.Context) {
	teacherID, ok := queryID(c, "teacher")
	if !ok {
		return
	}
	out, err := ch.homework.ListHomework(dbc(c), teacherID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"homeworks": out})
}

// POST /homeworks/
func (ch *CourseworkHandler) CreateHomework(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req services.HomeworkInput
	if !bindJSON(c, &req) {
		return
	}
	hw, err := ch.homework.CreateHomework(dbc(c), userID, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"homework": hw})
}

// GET /homeworks/:id/
func (ch *CourseworkHandler) GetHomework(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	hw, err := ch.homework.GetHomework(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"homework": hw})
}

// PUT|PATCH /homeworks/:id/
func (ch *CourseworkHandler) UpdateHomework(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	cur, err := ch.homework.GetHomework(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	due := cur.DueDate
	req := services.HomeworkInput{Title: cur.Title, Description: cur.Description, DueDate: &due}
	if !bindJSON(c, &req) {
		return
	}
	hw, err := ch.homework.UpdateHomework(dbc(c), userID, id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"homework": hw})
}

// DELETE /homeworks/:id/
func (ch *CourseworkHandler) DeleteHomework(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := ch.homework.DeleteHomework(dbc(c), userID, id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /submissions/?homework=
func (ch *CourseworkHandler) ListSubmissions(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	homeworkID, ok := queryID(c, "homework")
	if !ok {
		return
	}
	out, err := ch.homework.ListSubmissions(dbc(c), userID, homeworkID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	for _, s := range out {
		normalizeSubmissionURL(ch.bucket, s)
	}
	response.RespondOK(c, gin.H{"submissions": out})
}

// POST /submissions/
// Accepts JSON {homework, text_response} or multipart with an optional "file".
func (ch *CourseworkHandler) CreateSubmission(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var req services.SubmissionInput
	var file *services.FileUpload
	if isMultipart(c) {
		raw := strings.TrimSpace(c.PostForm("homework"))
		if raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_homework", err)
				return
			}
			req.HomeworkID = id
		}
		req.TextResponse = c.PostForm("text_response")
		var closeFile func()
		if file, closeFile, ok = formFile(c, "file"); !ok {
			return
		}
		defer closeFile()
	} else if !bindJSON(c, &req) {
		return
	}
	sub, err := ch.homework.CreateSubmission(dbc(c), userID, req, file)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	normalizeSubmissionURL(ch.bucket, sub)
	response.RespondCreated(c, gin.H{"submission": sub})
}

// GET /submissions/:id/
func (ch *CourseworkHandler) GetSubmission(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	sub, err := ch.homework.GetSubmission(dbc(c), userID, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	normalizeSubmissionURL(ch.bucket, sub)
	response.RespondOK(c, gin.H{"submission": sub})
}

// PATCH /submissions/:id/grade/
// body: { "grade": 92.5, "feedback": "..." }
func (ch *CourseworkHandler) GradeSubmission(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req services.SubmissionGradeInput
	if !bindJSON(c, &req) {
		return
	}
	sub, err := ch.homework.GradeSubmission(dbc(c), userID, id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	normalizeSubmissionURL(ch.bucket, sub)
	response.RespondOK(c, gin.H{"submission": sub})
}

// DELETE /submissions/:id/
func (ch *CourseworkHandler) DeleteSubmission(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := ch.homework.DeleteSubmission(dbc(c), userID, id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}
