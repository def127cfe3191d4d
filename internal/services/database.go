package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/noticeboard/internal/models"
)

// UserStore: операции хранилища, нужные сервису авторизации
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUUID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	FindUserByAppleID(ctx context.Context, appleID string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	UpdateUserPassword(ctx context.Context, id uint, hash string) error
	LinkProvider(ctx context.Context, id uint, column, providerID string) error
}

// NotificationStore: чтения, нужные для рассылки уведомлений
type NotificationStore interface {
	GetPostFollowerIDs(ctx context.Context, postID uint) ([]uint, error)
	GetPreferencesForUsers(ctx context.Context, userIDs []uint) (map[uint]*models.UserPreferences, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
}
