package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// POST /auth/register/
func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := ah.authService.RegisterUser(dbc(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, user)
}

// POST /auth/token/
func (ah *AuthHandler) Token(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	pair, err := ah.authService.LoginUser(dbc(c), req.Username, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

// POST /auth/refresh/
func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	pair, err := ah.authService.RefreshUser(dbc(c), req.RefreshToken)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, pair)
}

// POST /auth/logout/
func (ah *AuthHandler) Logout(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.TokenString == "" {
		response.RespondError(c, http.StatusUnauthorized, "not_authenticated", nil)
		return
	}
	if err := ah.authService.LogoutUser(dbc(c), rd.TokenString); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"status": "ok"})
}

// GET /auth/me/
func (ah *AuthHandler) Me(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	me, err := ah.userService.GetMe(dbc(c), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, me)
}

// PATCH /auth/me/
// body: { "first_name": "...", "last_name": "..." }
func (ah *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := actor(c)
	if !ok {
		return
	}
	me, err := ah.userService.GetMe(dbc(c), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	req := struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}{FirstName: me.FirstName, LastName: me.LastName}
	if !bindJSON(c, &req) {
		return
	}
	me, err = ah.userService.UpdateName(dbc(c), userID, req.FirstName, req.LastName)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, me)
}
