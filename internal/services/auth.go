package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/learnhub-backend/internal/data/repos"
	types "github.com/yungbote/learnhub-backend/internal/domain"
	"github.com/yungbote/learnhub-backend/internal/platform/apierr"
	"github.com/yungbote/learnhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnhub-backend/internal/platform/dbctx"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=4"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type TokenPair struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthService interface {
	RegisterUser(dbc dbctx.Context, in RegisterInput) (*types.User, error)
	LoginUser(dbc dbctx.Context, username, password string) (*TokenPair, error)
	RefreshUser(dbc dbctx.Context, refreshToken string) (*TokenPair, error)
	LogoutUser(dbc dbctx.Context, accessToken string) error
	// SetContextFromToken validates the bearer token and attaches the caller's
	// identity. Revoked tokens are rejected even when the signature is valid.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
	// PurgeExpiredTokens deletes pairs whose refresh window has closed.
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput("invalid_registration", in); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.Internal("password_hash_failed", err)
	}
	user := &types.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	err = dbc.Transaction(as.db, func(inner dbctx.Context) error {
		exists, err := as.userRepo.UsernameExists(inner, user.Username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if exists {
			return apierr.Conflict("username_taken", fmt.Errorf("username %q is already taken", user.Username))
		}
		if _, err := as.userRepo.Create(inner, []*types.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		as.log.Warn("Register user failed", "error", err)
		return nil, err
	}
	return user, nil
}

func (as *authService) LoginUser(dbc dbctx.Context, username, password string) (*TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apierr.BadRequest("credentials_required", fmt.Errorf("username and password are required"))
	}
	var pair *TokenPair
	err := dbc.Transaction(as.db, func(inner dbctx.Context) error {
		user, err := as.userRepo.GetByUsername(inner, username)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
			return apierr.Unauthorized("invalid_credentials")
		}
		pair, err = as.issueTokens(inner, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) RefreshUser(dbc dbctx.Context, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apierr.BadRequest("refresh_token_required", fmt.Errorf("refresh_token is required"))
	}
	var (
		pair    *TokenPair
		expired bool
	)
	err := dbc.Transaction(as.db, func(inner dbctx.Context) error {
		found, err := as.userTokenRepo.GetByRefreshTokens(inner, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("load refresh token: %w", err)
		}
		if len(found) == 0 || found[0] == nil {
			return apierr.Unauthorized("invalid_refresh_token")
		}
		existing := found[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if err := as.userTokenRepo.DeleteByTokens(inner, []*types.UserToken{existing}); err != nil {
				return fmt.Errorf("delete expired token: %w", err)
			}
			expired = true
			return nil
		}
		pair, err = as.issueTokens(inner, existing.UserID)
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.DeleteByTokens(inner, []*types.UserToken{existing}); err != nil {
			return fmt.Errorf("remove old token: %w", err)
		}
		return nil
	})
	if err != nil {
		as.log.Warn("Refresh failed", "error", err)
		return nil, err
	}
	if expired {
		return nil, apierr.Unauthorized("refresh_token_expired")
	}
	return pair, nil
}

func (as *authService) LogoutUser(dbc dbctx.Context, accessToken string) error {
	if accessToken == "" {
		return apierr.Unauthorized("not_authenticated")
	}
	return dbc.Transaction(as.db, func(inner dbctx.Context) error {
		found, err := as.userTokenRepo.GetByAccessTokens(inner, []string{accessToken})
		if err != nil {
			return fmt.Errorf("load user token: %w", err)
		}
		if len(found) == 0 {
			return nil
		}
		if err := as.userTokenRepo.DeleteByTokens(inner, found); err != nil {
			return fmt.Errorf("delete user token: %w", err)
		}
		return nil
	})
}

func (as *authService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	n, err := as.userTokenRepo.DeleteExpired(dbctx.Context{Ctx: ctx}, time.Now())
	if err != nil {
		return 0, fmt.Errorf("purge expired tokens: %w", err)
	}
	if n > 0 {
		as.log.Info("Purged expired tokens", "count", n)
	}
	return n, nil
}

func (as *authService) issueTokens(dbc dbctx.Context, userID uuid.UUID) (*TokenPair, error) {
	now := time.Now()
	accessExp := now.Add(as.accessTTL)
	tok, err := as.generateAccessToken(userID, now, accessExp)
	if err != nil {
		return nil, apierr.Internal("token_sign_failed", err)
	}
	row := &types.UserToken{
		UserID:       userID,
		AccessToken:  tok,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{row}); err != nil {
		return nil, fmt.Errorf("create user token: %w", err)
	}
	return &TokenPair{Token: tok, RefreshToken: row.RefreshToken, ExpiresAt: accessExp}, nil
}

func (as *authService) generateAccessToken(userID uuid.UUID, now, exp time.Time) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthorized("not_authenticated")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("parse token: %w", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized("invalid_token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.New(http.StatusUnauthorized, "invalid_token", fmt.Errorf("invalid user id in token: %w", err))
	}
	found, err := as.userTokenRepo.GetByAccessTokens(dbctx.Context{Ctx: ctx}, []string{tokenString})
	if err != nil {
		as.log.Warn("Error fetching user token by access token", "error", err)
		return ctx, fmt.Errorf("fetch user token: %w", err)
	}
	if len(found) == 0 {
		return ctx, apierr.Unauthorized("token_revoked")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
