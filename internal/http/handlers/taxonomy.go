package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/services"
)

// TaxonomyHandler serves subjects, topics and chapters.
type TaxonomyHandler struct {
	taxonomy services.TaxonomyService
}

func NewTaxonomyHandler(taxonomy services.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: taxonomy}
}

// GET /subjects/
func (th *TaxonomyHandler) ListSubjects(c *gin.Context) {
	subjects, err := th.taxonomy.ListSubjects(dbc(c))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subjects": subjects})
}

// POST /subjects/
func (th *TaxonomyHandler) CreateSubject(c *gin.Context) {
	var req services.SubjectInput
	if !bindJSON(c, &req) {
		return
	}
	s, err := th.taxonomy.CreateSubject(dbc(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"subject": s})
}

// GET /subjects/:id/
func (th *TaxonomyHandler) GetSubject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s, err := th.taxonomy.GetSubject(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subject": s})
}

// PUT|PATCH /subjects/:id/
func (th *TaxonomyHandler) UpdateSubject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cur, err := th.taxonomy.GetSubject(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	req := services.SubjectInput{Name: cur.Name}
	if !bindJSON(c, &req) {
		return
	}
	s, err := th.taxonomy.UpdateSubject(dbc(c), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subject": s})
}

// DELETE /subjects/:id/
func (th *TaxonomyHandler) DeleteSubject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := th.taxonomy.DeleteSubject(dbc(c), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /topics/?subject=
func (th *TaxonomyHandler) ListTopics(c *gin.Context) {
	subjectID, ok := queryID(c, "subject")
	if !ok {
		return
	}
	topics, err := th.taxonomy.ListTopics(dbc(c), subjectID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topics": topics})
}

// POST /topics/
func (th *TaxonomyHandler) CreateTopic(c *gin.Context) {
	var req services.TopicInput
	if !bindJSON(c, &req) {
		return
	}
	t, err := th.taxonomy.CreateTopic(dbc(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"topic": t})
}

// GET /topics/:id/
func (th *TaxonomyHandler) GetTopic(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := th.taxonomy.GetTopic(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topic": t})
}

// PUT|PATCH /topics/:id/
func (th *TaxonomyHandler) UpdateTopic(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cur, err := th.taxonomy.GetTopic(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	req := services.TopicInput{SubjectID: cur.SubjectID, Name: cur.Name}
	if !bindJSON(c, &req) {
		return
	}
	t, err := th.taxonomy.UpdateTopic(dbc(c), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topic": t})
}

// DELETE /topics/:id/
func (th *TaxonomyHandler) DeleteTopic(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := th.taxonomy.DeleteTopic(dbc(c), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /chapters/?topic=
func (th *TaxonomyHandler) ListChapters(c *gin.Context) {
	topicID, ok := queryID(c, "topic")
	if !ok {
		return
	}
	chapters, err := th.taxonomy.ListChapters(dbc(c), topicID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chapters": chapters})
}

// POST /chapters/
func (th *TaxonomyHandler) CreateChapter(c *gin.Context) {
	var req services.ChapterInput
	if !bindJSON(c, &req) {
		return
	}
	ch, err := th.taxonomy.CreateChapter(dbc(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"chapter": ch})
}

// GET /chapters/:id/
func (th *TaxonomyHandler) GetChapter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ch, err := th.taxonomy.GetChapter(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chapter": ch})
}

// PUT|PATCH /chapters/:id/
func (th *TaxonomyHandler) UpdateChapter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cur, err := th.taxonomy.GetChapter(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	req := services.ChapterInput{TopicID: cur.TopicID, Title: cur.Title}
	if !bindJSON(c, &req) {
		return
	}
	ch, err := th.taxonomy.UpdateChapter(dbc(c), id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"chapter": ch})
}

// DELETE /chapters/:id/
func (th *TaxonomyHandler) DeleteChapter(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := th.taxonomy.DeleteChapter(dbc(c), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}
