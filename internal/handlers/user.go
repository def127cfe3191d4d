package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/database"
	"github.com/thereayou/noticeboard/internal/handlers/dto"
	"github.com/thereayou/noticeboard/internal/middleware"
	"github.com/thereayou/noticeboard/internal/models"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *database.Database
}

func NewUserHandler(db *database.Database) *UserHandler {
	return &UserHandler{db: db}
}

// GetUser возвращает публичный профиль; приватный видит только владелец
func (h *UserHandler) GetUser(c *gin.Context) {
	id, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	ctx := c.Request.Context()

	user, err := h.db.GetUserByUUID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, apperr.NotFound("User not found"))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	if user.Visibility == models.VisibilityPrivate {
		viewer := middleware.ViewerID(c)
		if viewer == nil || *viewer != user.ID {
			fail(c, apperr.Forbidden("This profile is private"))
			return
		}
	}

	prefs, err := h.db.GetUserPreferences(ctx, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, err)
		return
	}

	respondOK(c, dto.NewProfileResponse(user, prefs))
}

// UpdateProfile обновляет только переданные поля
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Binding(err))
		return
	}

	req.Apply(user)
	if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
		fail(c, err)
		return
	}

	respondOK(c, dto.UserEnvelope{User: dto.NewUserResponse(user)})
}

func (h *UserHandler) GetPreferences(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	prefs, err := h.db.GetUserPreferences(c.Request.Context(), user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, apperr.NotFound("Preferences not found"))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	respondOK(c, dto.NewPreferencesResponse(prefs))
}

func (h *UserHandler) UpdateSelectedCategories(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	var req dto.SelectedCategoriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Binding(err))
		return
	}

	prefs, err := h.db.UpdateSelectedCategories(c.Request.Context(), user.ID, req.Categories)
	if err != nil {
		fail(c, err)
		return
	}

	respondOK(c, dto.PreferencesResponse{SelectedCategories: prefs.SelectedCategories.Data()})
}

func (h *UserHandler) UpdateNotificationPreferences(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	var req dto.NotificationPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Binding(err))
		return
	}

	prefs, err := h.db.UpdateNotificationPreferences(c.Request.Context(), user.ID, req.Preferences)
	if err != nil {
		fail(c, err)
		return
	}

	respondOK(c, dto.PreferencesResponse{NotificationPreferences: prefs.NotificationPreferences.Data()})
}
