package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/noticeboard/internal/models"
)

type UpdateProfileRequest struct {
	Name         *string            `json:"name" binding:"omitempty,min=2"`
	Phone        *string            `json:"phone" binding:"omitempty,min=10"`
	Location     *models.Location   `json:"location" binding:"omitempty,location"`
	Visibility   *models.Visibility `json:"visibility" binding:"omitempty,oneof=public private"`
	ProfileImage *string            `json:"profileImage" binding:"omitempty,url"`
}

// Apply переносит заданные поля на пользователя
func (r *UpdateProfileRequest) Apply(u *models.User) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.Phone != nil {
		u.Phone = r.Phone
	}
	if r.Location != nil {
		u.Location = *r.Location
	}
	if r.Visibility != nil {
		u.Visibility = *r.Visibility
	}
	if r.ProfileImage != nil {
		u.ProfileImage = r.ProfileImage
	}
}

type SelectedCategoriesRequest struct {
	Categories []models.CategoryName `json:"categories" binding:"required,min=1,dive,category"`
}

type NotificationPreferencesRequest struct {
	Preferences models.NotificationPreferences `json:"preferences" binding:"required,min=1"`
}

type PublicProfile struct {
	ID           uint              `json:"id"`
	UUID         uuid.UUID         `json:"uuid"`
	Username     string            `json:"username"`
	Name         string            `json:"name"`
	ProfileImage *string           `json:"profileImage"`
	Location     models.Location   `json:"location"`
	Visibility   models.Visibility `json:"visibility"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type PublicCategories struct {
	SelectedCategories []models.CategoryName `json:"selectedCategories"`
}

type ProfileResponse struct {
	User        PublicProfile     `json:"user"`
	Preferences *PublicCategories `json:"preferences"`
}

func NewProfileResponse(u *models.User, prefs *models.UserPreferences) ProfileResponse {
	resp := ProfileResponse{
		User: PublicProfile{
			ID:           u.ID,
			UUID:         u.UUID,
			Username:     u.Username,
			Name:         u.Name,
			ProfileImage: u.ProfileImage,
			Location:     u.Location,
			Visibility:   u.Visibility,
			CreatedAt:    u.CreatedAt,
		},
	}
	if prefs != nil {
		resp.Preferences = &PublicCategories{SelectedCategories: prefs.SelectedCategories.Data()}
	}
	return resp
}

type PreferencesResponse struct {
	SelectedCategories      []models.CategoryName          `json:"selectedCategories,omitempty"`
	NotificationPreferences models.NotificationPreferences `json:"notificationPreferences,omitempty"`
}

func NewPreferencesResponse(p *models.UserPreferences) PreferencesResponse {
	return PreferencesResponse{
		SelectedCategories:      p.SelectedCategories.Data(),
		NotificationPreferences: p.NotificationPreferences.Data(),
	}
}
