package resources

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos/sqlutil"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type ResourceFilter struct {
	SubjectID  *uuid.UUID
	TopicID    *uuid.UUID
	ChapterID  *uuid.UUID
	Difficulty string
	// Query matches title, description, tags and any version's extracted text.
	Query string
	// FileType matches any version's MIME type.
	FileType string
	Limit    int
}

type ResourceRepo interface {
	Create(dbc dbctx.Context, resources []*types.Resource) ([]*types.Resource, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Resource, error)
	List(dbc dbctx.Context, f ResourceFilter) ([]*types.Resource, error)
	Update(dbc dbctx.Context, resource *types.Resource) error
	// Delete removes the resource with its versions and bookmarks.
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type resourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceRepo(db *gorm.DB, baseLog *logger.Logger) ResourceRepo {
	repoLog := baseLog.With("repo", "ResourceRepo")
	return &resourceRepo{db: db, log: repoLog}
}

func preloadVersions(db *gorm.DB) *gorm.DB {
	return db.Order("version_number DESC")
}

func (r *resourceRepo) Create(dbc dbctx.Context, resources []*types.Resource) ([]*types.Resource, error) {
	if len(resources) == 0 {
		return []*types.Resource{}, nil
	}
	if err := dbc.DB(r.db).Omit("Versions").Create(&resources).Error; err != nil {
		return nil, err
	}
	return resources, nil
}

func (r *resourceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Resource, error) {
	var res types.Resource
	err := dbc.DB(r.db).
		Preload("Versions", preloadVersions).
		Where("id = ?", id).
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *resourceRepo) List(dbc dbctx.Context, f ResourceFilter) ([]*types.Resource, error) {
	q := dbc.DB(r.db).Model(&types.Resource{})
	if f.SubjectID != nil {
		q = q.Where("subject_id = ?", *f.SubjectID)
	}
	if f.TopicID != nil {
		q = q.Where("topic_id = ?", *f.TopicID)
	}
	if f.ChapterID != nil {
		q = q.Where("chapter_id = ?", *f.ChapterID)
	}
	if d := strings.TrimSpace(f.Difficulty); d != "" {
		q = q.Where("difficulty = ?", d)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		p := sqlutil.ContainsPattern(s)
		q = q.Where(
			"("+sqlutil.ILike("title")+" OR "+sqlutil.ILike("description")+" OR "+sqlutil.ILike("tags")+
				" OR id IN (SELECT resource_id FROM resource_version WHERE "+sqlutil.ILike("extracted_text")+"))",
			p, p, p, p,
		)
	}
	if ft := strings.TrimSpace(f.FileType); ft != "" {
		q = q.Where("id IN (SELECT resource_id FROM resource_version WHERE "+sqlutil.ILike("file_mime")+")", sqlutil.ContainsPattern(ft))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []*types.Resource
	if err := q.
		Preload("Versions", preloadVersions).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *resourceRepo) Update(dbc dbctx.Context, resource *types.Resource) error {
	return dbc.DB(r.db).
		Model(&types.Resource{}).
		Where("id = ?", resource.ID).
		Updates(map[string]any{
			"subject_id":  resource.SubjectID,
			"topic_id":    resource.TopicID,
			"chapter_id":  resource.ChapterID,
			"title":       resource.Title,
			"description": resource.Description,
			"tags":        resource.Tags,
			"difficulty":  resource.Difficulty,
		}).Error
}

func (r *resourceRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Transaction(r.db, func(inner dbctx.Context) error {
		tx := inner.DB(r.db)
		if err := tx.Where("resource_id = ?", id).Delete(&types.ResourceVersion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("resource_id = ?", id).Delete(&types.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&types.Resource{}).Error
	})
}
