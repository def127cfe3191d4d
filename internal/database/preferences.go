package database

import (
	"context"
	"errors"

	"github.com/thereayou/noticeboard/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (d *Database) GetUserPreferences(ctx context.Context, userID uint) (*models.UserPreferences, error) {
	prefs := models.UserPreferences{}
	if err := d.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		return nil, err
	}
	return &prefs, nil
}

// GetPreferencesForUsers загружает настройки пачкой, ключ: user_id
func (d *Database) GetPreferencesForUsers(ctx context.Context, userIDs []uint) (map[uint]*models.UserPreferences, error) {
	out := make(map[uint]*models.UserPreferences, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []models.UserPreferences
	if err := d.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].UserID] = &rows[i]
	}
	return out, nil
}

// UpdateSelectedCategories создаёт строку настроек, если её ещё нет
func (d *Database) UpdateSelectedCategories(ctx context.Context, userID uint, categories []models.CategoryName) (*models.UserPreferences, error) {
	return d.upsertPreferences(ctx, userID, func(p *models.UserPreferences) {
		p.SelectedCategories = datatypes.NewJSONType(categories)
	})
}

func (d *Database) UpdateNotificationPreferences(ctx context.Context, userID uint, notifications models.NotificationPreferences) (*models.UserPreferences, error) {
	return d.upsertPreferences(ctx, userID, func(p *models.UserPreferences) {
		p.NotificationPreferences = datatypes.NewJSONType(notifications)
	})
}

func (d *Database) upsertPreferences(ctx context.Context, userID uint, apply func(*models.UserPreferences)) (*models.UserPreferences, error) {
	var prefs *models.UserPreferences
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := models.UserPreferences{}
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		switch {
		case err == nil:
			prefs = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			prefs = models.DefaultPreferences(userID)
		default:
			return err
		}
		apply(prefs)
		return tx.Omit(clause.Associations).Save(prefs).Error
	})
	if err != nil {
		return nil, err
	}
	return prefs, nil
}
