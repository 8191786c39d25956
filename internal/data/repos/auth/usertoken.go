package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

// UserTokenRepo stores issued access/refresh pairs. A pair is live while its
// row exists; logout and refresh delete the row.
type UserTokenRepo interface {
	Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error)
	GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error)
	GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error)
	DeleteByTokens(dbc dbctx.Context, userTokens []*types.UserToken) error
	// DeleteExpired removes pairs whose refresh window closed before cutoff.
	DeleteExpired(dbc dbctx.Context, cutoff time.Time) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (utr *userTokenRepo) Create(dbc dbctx.Context, userTokens []*types.UserToken) ([]*types.UserToken, error) {
	if len(userTokens) == 0 {
		return []*types.UserToken{}, nil
	}
	if err := dbc.DB(utr.db).Create(&userTokens).Error; err != nil {
		return nil, err
	}
	return userTokens, nil
}

func (utr *userTokenRepo) GetByAccessTokens(dbc dbctx.Context, accessTokens []string) ([]*types.UserToken, error) {
	return utr.findIn(dbc, "access_token", accessTokens)
}

func (utr *userTokenRepo) GetByRefreshTokens(dbc dbctx.Context, refreshTokens []string) ([]*types.UserToken, error) {
	return utr.findIn(dbc, "refresh_token", refreshTokens)
}

func (utr *userTokenRepo) findIn(dbc dbctx.Context, column string, values []string) ([]*types.UserToken, error) {
	var results []*types.UserToken
	if len(values) == 0 {
		return results, nil
	}
	if err := dbc.DB(utr.db).Where(column+" IN ?", values).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (utr *userTokenRepo) DeleteByTokens(dbc dbctx.Context, userTokens []*types.UserToken) error {
	if len(userTokens) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(userTokens))
	for _, t := range userTokens {
		ids = append(ids, t.ID)
	}
	return dbc.DB(utr.db).Where("id IN ?", ids).Delete(&types.UserToken{}).Error
}

func (utr *userTokenRepo) DeleteExpired(dbc dbctx.Context, cutoff time.Time) (int64, error) {
	res := dbc.DB(utr.db).Where("expires_at < ?", cutoff).Delete(&types.UserToken{})
	return res.RowsAffected, res.Error
}
