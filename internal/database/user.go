package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thereayou/noticeboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateUser сохраняет пользователя и его настройки по умолчанию в одной транзакции
func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(models.DefaultPreferences(user.ID)).Error
	})
}

func (d *Database) UpdateUser(ctx context.Context, user *models.User) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

func (d *Database) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) GetUserByUUID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return d.findUser(ctx, "uuid = ?", id)
}

func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.findUser(ctx, "email = ?", email)
}

func (d *Database) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return d.findUser(ctx, "username = ?", username)
}

func (d *Database) FindUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return d.findUser(ctx, "google_id = ?", googleID)
}

func (d *Database) FindUserByAppleID(ctx context.Context, appleID string) (*models.User, error) {
	return d.findUser(ctx, "apple_id = ?", appleID)
}

// UsernameTaken проверяет занятость имени без загрузки записи
func (d *Database) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// UpdateUserPassword меняет только хеш пароля
func (d *Database) UpdateUserPassword(ctx context.Context, id uint, hash string) error {
	res := d.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LinkProvider привязывает внешний аккаунт и помечает пользователя подтверждённым
func (d *Database) LinkProvider(ctx context.Context, id uint, column, providerID string) error {
	switch column {
	case "google_id", "apple_id":
	default:
		return errors.New("unknown provider column " + column)
	}
	return d.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		column:        providerID,
		"is_verified": true,
	}).Error
}

func (d *Database) findUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
