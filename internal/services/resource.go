package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/observability"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/platform/storage"
)

type ResourceInput struct {
	SubjectID   *uuid.UUID `json:"subject" form:"subject"`
	TopicID     *uuid.UUID `json:"topic" form:"topic"`
	ChapterID   *uuid.UUID `json:"chapter" form:"chapter"`
	Title       string     `json:"title" form:"title" validate:"required,max=255"`
	Description string     `json:"description" form:"description"`
	Tags        string     `json:"tags" form:"tags" validate:"max=255"`
	Difficulty  string     `json:"difficulty" form:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

type ResourceService interface {
	// CreateResource stores the resource and, when file is set, its first version.
	CreateResource(dbc dbctx.Context, uploaderID uuid.UUID, in ResourceInput, file *FileUpload) (*types.Resource, error)
	GetResource(dbc dbctx.Context, id uuid.UUID) (*types.Resource, error)
	ListResources(dbc dbctx.Context, f repos.ResourceFilter) ([]*types.Resource, error)
	UpdateResource(dbc dbctx.Context, actorID, id uuid.UUID, in ResourceInput) (*types.Resource, error)
	DeleteResource(dbc dbctx.Context, actorID, id uuid.UUID) error

	UploadVersion(dbc dbctx.Context, resourceID uuid.UUID, file *FileUpload, notes string) (*types.ResourceVersion, error)
	GetVersion(dbc dbctx.Context, id uuid.UUID) (*types.ResourceVersion, error)
	ListVersions(dbc dbctx.Context, resourceID *uuid.UUID) ([]*types.ResourceVersion, error)
	// ReextractVersion reruns text extraction on a stored PDF version.
	// Only the resource's uploader may do this.
	ReextractVersion(dbc dbctx.Context, actorID, id uuid.UUID) (*types.ResourceVersion, error)
}

type resourceService struct {
	db        *gorm.DB
	log       *logger.Logger
	resources repos.ResourceRepo
	versions  repos.ResourceVersionRepo
	refs      taxonomyRefs
	files     FileService
	extractor Extractor
	metrics   *observability.Metrics
}

func NewResourceService(
	db *gorm.DB,
	baseLog *logger.Logger,
	resourceRepo repos.ResourceRepo,
	versionRepo repos.ResourceVersionRepo,
	subjectRepo repos.SubjectRepo,
	topicRepo repos.TopicRepo,
	chapterRepo repos.ChapterRepo,
	files FileService,
	extractor Extractor,
	metrics *observability.Metrics,
) ResourceService {
	return &resourceService{
		db:        db,
		log:       baseLog.With("service", "ResourceService"),
		resources: resourceRepo,
		versions:  versionRepo,
		refs:      taxonomyRefs{subjects: subjectRepo, topics: topicRepo, chapters: chapterRepo},
		files:     files,
		extractor: extractor,
		metrics:   metrics,
	}
}

func normalizeResourceInput(in *ResourceInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Tags = strings.TrimSpace(in.Tags)
	in.Difficulty = strings.ToLower(strings.TrimSpace(in.Difficulty))
	if in.Difficulty == "" {
		in.Difficulty = types.DifficultyMedium
	}
}

func (rs *resourceService) CreateResource(dbc dbctx.Context, uploaderID uuid.UUID, in ResourceInput, file *FileUpload) (*types.Resource, error) {
	normalizeResourceInput(&in)
	if err := validateInput("invalid_resource", in); err != nil {
		return nil, err
	}
	res := &types.Resource{
		ID:          uuid.New(),
		UploaderID:  uploaderID,
		SubjectID:   in.SubjectID,
		TopicID:     in.TopicID,
		ChapterID:   in.ChapterID,
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		Difficulty:  in.Difficulty,
	}
	if err := rs.refs.check(dbc, in.SubjectID, in.TopicID, in.ChapterID); err != nil {
		return nil, err
	}

	var first *types.ResourceVersion
	if file != nil && file.Reader != nil {
		v, err := rs.prepareVersion(dbc, res.ID, file, "")
		if err != nil {
			return nil, err
		}
		first = v
	}

	err := dbc.Transaction(rs.db, func(inner dbctx.Context) error {
		if _, err := rs.resources.Create(inner, []*types.Resource{res}); err != nil {
			return fmt.Errorf("create resource: %w", err)
		}
		if first != nil {
			return rs.insertVersion(inner, first)
		}
		return nil
	})
	if err != nil {
		if first != nil {
			rs.files.Delete(dbc, storage.BucketCategoryResource, first.StorageKey)
		}
		rs.log.Warn("Create resource failed", "error", err)
		return nil, err
	}
	if first != nil {
		rs.metrics.IncVersionUploads()
	}
	return rs.GetResource(dbc, res.ID)
}

func (rs *resourceService) GetResource(dbc dbctx.Context, id uuid.UUID) (*types.Resource, error) {
	r, err := rs.resources.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apierr.NotFound("resource_not_found")
	}
	return r, nil
}

func (rs *resourceService) ListResources(dbc dbctx.Context, f repos.ResourceFilter) ([]*types.Resource, error) {
	f.Query = strings.TrimSpace(f.Query)
	f.FileType = strings.TrimSpace(f.FileType)
	f.Difficulty = strings.ToLower(strings.TrimSpace(f.Difficulty))
	return rs.resources.List(dbc, f)
}

func (rs *resourceService) UpdateResource(dbc dbctx.Context, actorID, id uuid.UUID, in ResourceInput) (*types.Resource, error) {
	normalizeResourceInput(&in)
	if err := validateInput("invalid_resource", in); err != nil {
		return nil, err
	}
	var out *types.Resource
	err := dbc.Transaction(rs.db, func(inner dbctx.Context) error {
		r, err := rs.GetResource(inner, id)
		if err != nil {
			return err
		}
		if r.UploaderID != actorID {
			return apierr.Forbidden("not_resource_owner")
		}
		if err := rs.refs.check(inner, in.SubjectID, in.TopicID, in.ChapterID); err != nil {
			return err
		}
		r.SubjectID, r.TopicID, r.ChapterID = in.SubjectID, in.TopicID, in.ChapterID
		r.Title = in.Title
		r.Description = in.Description
		r.Tags = in.Tags
		r.Difficulty = in.Difficulty
		if err := rs.resources.Update(inner, r); err != nil {
			return fmt.Errorf("update resource: %w", err)
		}
		out, err = rs.GetResource(inner, id)
		return err
	})
	return out, err
}

func (rs *resourceService) DeleteResource(dbc dbctx.Context, actorID, id uuid.UUID) error {
	var keys []string
	err := dbc.Transaction(rs.db, func(inner dbctx.Context) error {
		r, err := rs.GetResource(inner, id)
		if err != nil {
			return err
		}
		if r.UploaderID != actorID {
			return apierr.Forbidden("not_resource_owner")
		}
		for _, v := range r.Versions {
			keys = append(keys, v.StorageKey)
		}
		return rs.resources.Delete(inner, id)
	})
	if err != nil {
		return err
	}
	rs.files.Delete(dbc, storage.BucketCategoryResource, keys...)
	return nil
}

// UploadVersion stores the blob, extracts text for PDFs and records the next
// version number. Blob writes happen before the transaction; a failed insert
// removes the blob again.
func (rs *resourceService) UploadVersion(dbc dbctx.Context, resourceID uuid.UUID, file *FileUpload, notes string) (*types.ResourceVersion, error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "resources.upload_version", attribute.String("resource.id", resourceID.String()))
	defer span.End()
	dbc.Ctx = ctx

	if file == nil || file.Reader == nil {
		return nil, apierr.BadRequest("file_required", fmt.Errorf("file is required"))
	}
	if _, err := rs.GetResource(dbc, resourceID); err != nil {
		return nil, err
	}
	v, err := rs.prepareVersion(dbc, resourceID, file, notes)
	if err != nil {
		return nil, err
	}
	err = dbc.Transaction(rs.db, func(inner dbctx.Context) error {
		return rs.insertVersion(inner, v)
	})
	if err != nil {
		rs.files.Delete(dbc, storage.BucketCategoryResource, v.StorageKey)
		span.RecordError(err)
		rs.log.Warn("Upload version failed", "resource_id", resourceID, "error", err)
		return nil, err
	}
	rs.metrics.IncVersionUploads()
	return v, nil
}

func (rs *resourceService) prepareVersion(dbc dbctx.Context, resourceID uuid.UUID, file *FileUpload, notes string) (*types.ResourceVersion, error) {
	stored, err := rs.files.Store(dbc, storage.BucketCategoryResource, storage.ObjectKey("resources", resourceID.String()), file)
	if err != nil {
		return nil, err
	}
	v := &types.ResourceVersion{
		ResourceID:   resourceID,
		StorageKey:   stored.Key,
		FileURL:      stored.URL,
		OriginalName: stored.OriginalName,
		SizeBytes:    stored.Size,
		FileMime:     stored.Mime,
		Notes:        strings.TrimSpace(notes),
	}
	v.ExtractedText = rs.extract(dbc, stored)
	return v, nil
}

// extract never fails the upload; errors degrade to empty text.
func (rs *resourceService) extract(dbc dbctx.Context, stored *StoredFile) string {
	if rs.extractor == nil || !IsPDFMime(stored.Mime) {
		return ""
	}
	text, err := rs.extractor.Extract(dbc.Ctx, stored.Data)
	if err != nil {
		rs.metrics.ObserveExtraction("failed")
		rs.log.Warn("Text extraction failed", "key", stored.Key, "mime", stored.Mime, "error", err)
		return ""
	}
	rs.metrics.ObserveExtraction("ok")
	return text
}

func (rs *resourceService) insertVersion(dbc dbctx.Context, v *types.ResourceVersion) error {
	n, err := rs.versions.NextVersionNumber(dbc, v.ResourceID)
	if err != nil {
		return fmt.Errorf("next version number: %w", err)
	}
	v.VersionNumber = n
	if _, err := rs.versions.Create(dbc, []*types.ResourceVersion{v}); err != nil {
		return fmt.Errorf("create version: %w", err)
	}
	return nil
}

func (rs *resourceService) GetVersion(dbc dbctx.Context, id uuid.UUID) (*types.ResourceVersion, error) {
	v, err := rs.versions.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apierr.NotFound("resource_version_not_found")
	}
	return v, nil
}

func (rs *resourceService) ReextractVersion(dbc dbctx.Context, actorID, id uuid.UUID) (*types.ResourceVersion, error) {
	v, err := rs.GetVersion(dbc, id)
	if err != nil {
		return nil, err
	}
	r, err := rs.GetResource(dbc, v.ResourceID)
	if err != nil {
		return nil, err
	}
	if r.UploaderID != actorID {
		return nil, apierr.Forbidden("not_resource_owner")
	}
	if rs.extractor == nil || !IsPDFMime(v.FileMime) {
		return nil, apierr.BadRequest("not_extractable", fmt.Errorf("version %d is not a PDF", v.VersionNumber))
	}
	data, err := rs.files.Fetch(dbc, storage.BucketCategoryResource, v.StorageKey)
	if err != nil {
		return nil, err
	}
	text, err := rs.extractor.Extract(dbc.Ctx, data)
	if err != nil {
		rs.metrics.ObserveExtraction("failed")
		rs.log.Warn("Re-extraction failed", "version_id", id, "error", err)
		return nil, apierr.New(http.StatusUnprocessableEntity, "extraction_failed", err)
	}
	rs.metrics.ObserveExtraction("ok")
	if err := rs.versions.UpdateExtractedText(dbc, id, text); err != nil {
		return nil, fmt.Errorf("update extracted text: %w", err)
	}
	v.ExtractedText = text
	return v, nil
}

func (rs *resourceService) ListVersions(dbc dbctx.Context, resourceID *uuid.UUID) ([]*types.ResourceVersion, error) {
	return rs.versions.List(dbc, resourceID)
}
