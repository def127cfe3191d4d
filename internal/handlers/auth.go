package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/handlers/dto"
	"github.com/thereayou/noticeboard/internal/metrics"
	"github.com/thereayou/noticeboard/internal/middleware"
	"github.com/thereayou/noticeboard/internal/services"
	"github.com/thereayou/noticeboard/pkg/auth"
)

type AuthHandler struct {
	auth       *services.AuthService
	jwtManager *auth.JWTManager
	blacklist  auth.Blacklist
}

func NewAuthHandler(svc *services.AuthService, jwtMgr *auth.JWTManager, blacklist auth.Blacklist) *AuthHandler {
	return &AuthHandler{auth: svc, jwtManager: jwtMgr, blacklist: blacklist}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Binding(err))
		return
	}

	res, err := h.auth.Register(c.Request.Context(), services.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Phone:      req.Phone,
		Location:   req.Location,
		Visibility: req.Visibility,
	})
	if err != nil {
		fail(c, err)
		return
	}

	respondCreated(c, dto.AuthResponse{User: dto.NewUserResponse(res.User), Token: res.Token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Binding(err))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	metrics.Login("password", err == nil)
	if err != nil {
		fail(c, err)
		return
	}

	respondOK(c, dto.AuthResponse{User: dto.NewUserResponse(res.User), Token: res.Token})
}

// Me возвращает профиль текущего пользователя
func (h *AuthHandler) Me(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	respondOK(c, dto.UserEnvelope{User: dto.NewUserResponse(user)})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Binding(err))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, "Password changed successfully")
}

// Logout ставит токен в черный список до истечения
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.CurrentToken(c)
	if token == "" {
		fail(c, apperr.Unauthorized("Authentication required. Please log in."))
		return
	}

	exp, err := h.jwtManager.Expiry(token)
	if err != nil {
		fail(c, apperr.Unauthorized("Invalid or expired token. Please log in again."))
		return
	}

	if err := h.blacklist.Revoke(c.Request.Context(), token, time.Until(exp)); err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, "Logged out successfully")
}
