package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	UpdateName(dbc dbctx.Context, userID uuid.UUID, firstName, lastName string) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("not_authenticated")
	}
	u, err := us.userRepo.GetByID(dbc, userID)
	if err != nil {
		us.log.Warn("GetMe failed", "error", err)
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user_not_found")
	}
	return u, nil
}

func (us *userService) UpdateName(dbc dbctx.Context, userID uuid.UUID, firstName, lastName string) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("not_authenticated")
	}
	var out *types.User
	err := dbc.Transaction(us.db, func(inner dbctx.Context) error {
		if err := us.userRepo.UpdateName(inner, userID, strings.TrimSpace(firstName), strings.TrimSpace(lastName)); err != nil {
			return fmt.Errorf("update name: %w", err)
		}
		u, err := us.userRepo.GetByID(inner, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return apierr.NotFound("user_not_found")
		}
		out = u
		return nil
	})
	return out, err
}
