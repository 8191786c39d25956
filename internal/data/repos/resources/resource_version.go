package resources

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type ResourceVersionRepo interface {
	// NextVersionNumber returns max(version_number)+1 for the resource, starting at 1.
	// Call it inside the transaction that inserts the version.
	NextVersionNumber(dbc dbctx.Context, resourceID uuid.UUID) (int, error)
	Create(dbc dbctx.Context, versions []*types.ResourceVersion) ([]*types.ResourceVersion, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ResourceVersion, error)
	List(dbc dbctx.Context, resourceID *uuid.UUID) ([]*types.ResourceVersion, error)
	UpdateExtractedText(dbc dbctx.Context, id uuid.UUID, text string) error
}

type resourceVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceVersionRepo(db *gorm.DB, baseLog *logger.Logger) ResourceVersionRepo {
	repoLog := baseLog.With("repo", "ResourceVersionRepo")
	return &resourceVersionRepo{db: db, log: repoLog}
}

func (r *resourceVersionRepo) NextVersionNumber(dbc dbctx.Context, resourceID uuid.UUID) (int, error) {
	var maxVersion int
	if err := dbc.DB(r.db).
		Model(&types.ResourceVersion{}).
		Where("resource_id = ?", resourceID).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&maxVersion).Error; err != nil {
		return 0, err
	}
	return maxVersion + 1, nil
}

func (r *resourceVersionRepo) Create(dbc dbctx.Context, versions []*types.ResourceVersion) ([]*types.ResourceVersion, error) {
	if len(versions) == 0 {
		return []*types.ResourceVersion{}, nil
	}
	if err := dbc.DB(r.db).Create(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *resourceVersionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ResourceVersion, error) {
	var v types.ResourceVersion
	err := dbc.DB(r.db).Where("id = ?", id).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *resourceVersionRepo) List(dbc dbctx.Context, resourceID *uuid.UUID) ([]*types.ResourceVersion, error) {
	q := dbc.DB(r.db)
	if resourceID != nil {
		q = q.Where("resource_id = ?", *resourceID).Order("version_number DESC")
	} else {
		q = q.Order("created_at DESC").Order("version_number DESC")
	}
	var out []*types.ResourceVersion
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *resourceVersionRepo) UpdateExtractedText(dbc dbctx.Context, id uuid.UUID, text string) error {
	return dbc.DB(r.db).
		Model(&types.ResourceVersion{}).
		Where("id = ?", id).
		Update("extracted_text", text).Error
}
