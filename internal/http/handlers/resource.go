package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type ResourceHandler struct {
	resources services.ResourceService
	bucket    storage.BucketService
}

func NewResourceHandler(resources services.ResourceService, bucket storage.BucketService) *ResourceHandler {
	return &ResourceHandler{resources: resources, bucket: bucket}
}

// GET /resources/?subject=&topic=&chapter=&difficulty=&q=&filetype=
func (rh *ResourceHandler) List(c *gin.Context) {
	var f repos.ResourceFilter
	var ok bool
	if f.SubjectID, ok = queryID(c, "subject"); !ok {
		return
	}
	if f.TopicID, ok = queryID(c, "topic"); !ok {
		return
	}
	if f.ChapterID, ok = queryID(c, "chapter"); !ok {
		return
	}
	f.Difficulty = c.Query("difficulty")
	f.Query = c.Query("q")
	f.FileType = c.Query("filetype")
	f.Limit = queryInt(c, "limit")

	out, err := rh.resources.ListResources(dbc(c), f)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	for _, r := range out {
		normalizeResourceURLs(rh.bucket, r)
	}
	response.RespondOK(c, gin.H{"resources": out})
}

// POST /resources/
// Accepts JSON, or multipart with the same fields plus an optional "file"
// stored as version 1.
func (rh *ResourceHandler) Create(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	var in services.ResourceInput
	var file *services.FileUpload
	if isMultipart(c) {
		if in, ok = resourceForm(c); !ok {
			return
		}
		var closeFile func()
		if file, closeFile, ok = formFile(c, "file"); !ok {
			return
		}
		defer closeFile()
	} else if !bindJSON(c, &in) {
		return
	}
	r, err := rh.resources.CreateResource(dbc(c), userID, in, file)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	normalizeResourceURLs(rh.bucket, r)
	response.RespondCreated(c, gin.H{"resource": r})
}

func resourceForm(c *gin.Context) (services.ResourceInput, bool) {
	in := services.ResourceInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Tags:        c.PostForm("tags"),
		Difficulty:  c.PostForm("difficulty"),
	}
	var ok bool
	if in.SubjectID, ok = formID(c, "subject"); !ok {
		return in, false
	}
	if in.TopicID, ok = formID(c, "topic"); !ok {
		return in, false
	}
	if in.ChapterID, ok = formID(c, "chapter"); !ok {
		return in, false
	}
	return in, true
}

// GET /resources/:id/
func (rh *ResourceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := rh.resources.GetResource(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	normalizeResourceURLs(rh.bucket, r)
	response.RespondOK(c, gin.H{"resource": r})
}

// PUT|PATCH /resources/:id/
func (rh *ResourceHandler) Update(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	cur, err := rh.resources.GetResource(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	req := services.ResourceInput{
		SubjectID:   cur.SubjectID,
		TopicID:     cur.TopicID,
		ChapterID:   cur.ChapterID,
		Title:       cur.Title,
		Description: cur.Description,
		Tags:        cur.Tags,
		Difficulty:  cur.Difficulty,
	}
	if !bindJSON(c, &req) {
		return
	}
	r, err := rh.resources.UpdateResource(dbc(c), userID, id, req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	normalizeResourceURLs(rh.bucket, r)
	response.RespondOK(c, gin.H{"resource": r})
}

// DELETE /resources/:id/
func (rh *ResourceHandler) Delete(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := rh.resources.DeleteResource(dbc(c), userID, id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /resources/:id/upload_version/ (multipart: file, notes)
func (rh *ResourceHandler) UploadVersion(c *gin.Context) {
	if _, ok := actor(c); !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	file, closeFile, ok := formFile(c, "file")
	if !ok {
		return
	}
	defer closeFile()
	v, err := rh.resources.UploadVersion(dbc(c), id, file, c.PostForm("notes"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	normalizeVersionURL(rh.bucket, v)
	response.RespondCreated(c, gin.H{"version": v})
}

// GET /resource-versions/?resource=
func (rh *ResourceHandler) ListVersions(c *gin.Context) {
	resourceID, ok := queryID(c, "resource")
	if !ok {
		return
	}
	out, err := rh.resources.ListVersions(dbc(c), resourceID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	for _, v := range out {
		normalizeVersionURL(rh.bucket, v)
	}
	response.RespondOK(c, gin.H{"versions": out})
}

// POST /resource-versions/:id/reextract/
func (rh *ResourceHandler) ReextractVersion(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := rh.resources.ReextractVersion(dbc(c), userID, id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	normalizeVersionURL(rh.bucket, v)
	response.RespondOK(c, gin.H{"version": v})
}

// GET /resource-versions/:id/
func (rh *ResourceHandler) GetVersion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := rh.resources.GetVersion(dbc(c), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	normalizeVersionURL(rh.bucket, v)
	response.RespondOK(c, gin.H{"version": v})
}
