package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/noticeboard/internal/models"
)

type RegisterRequest struct {
	Username   string            `json:"username" binding:"required,min=3,max=30"`
	Email      string            `json:"email" binding:"required,email"`
	Password   string            `json:"password" binding:"required,min=6"`
	Name       string            `json:"name" binding:"required,min=2"`
	Phone      *string           `json:"phone" binding:"omitempty,min=10"`
	Location   models.Location   `json:"location" binding:"required,location"`
	Visibility models.Visibility `json:"visibility" binding:"omitempty,oneof=public private"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,min=6"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// UserResponse: полный профиль для владельца аккаунта
type UserResponse struct {
	ID           uint              `json:"id"`
	UUID         uuid.UUID         `json:"uuid"`
	Username     string            `json:"username"`
	Email        string            `json:"email"`
	Name         string            `json:"name"`
	Phone        *string           `json:"phone"`
	ProfileImage *string           `json:"profileImage"`
	Role         models.Role       `json:"role"`
	Location     models.Location   `json:"location"`
	Visibility   models.Visibility `json:"visibility"`
	IsVerified   bool              `json:"isVerified"`
	CreatedAt    time.Time         `json:"createdAt"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		UUID:         u.UUID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		ProfileImage: u.ProfileImage,
		Role:         u.Role,
		Location:     u.Location,
		Visibility:   u.Visibility,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
	}
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}
