package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationPreferences: переключатели уведомлений. Ключ "all" действует
// для всех категорий, ключ с именем категории переопределяет его.
type NotificationPreferences map[string]bool

// Allows сообщает, хочет ли пользователь получать уведомления по категории
func (p NotificationPreferences) Allows(category CategoryName) bool {
	if v, ok := p[string(category)]; ok {
		return v
	}
	return p["all"]
}

type UserPreferences struct {
	ID                      uint                                        `gorm:"primaryKey"`
	UserID                  uint                                        `gorm:"uniqueIndex;not null"`
	SelectedCategories      datatypes.JSONType[[]CategoryName]          `gorm:"not null"`
	NotificationPreferences datatypes.JSONType[NotificationPreferences] `gorm:"not null"`
	CreatedAt               time.Time
	UpdatedAt               time.Time

	// Связи
	User User `gorm:"constraint:OnDelete:CASCADE"`
}

func (UserPreferences) TableName() string {
	return "user_preferences"
}

var (
	DefaultSelectedCategories = []CategoryName{CategoryAnnouncement, CategoryEvent, CategoryNews}
	DefaultNotifications      = NotificationPreferences{"all": true}
)

// DefaultPreferences создаётся вместе с каждым новым пользователем
func DefaultPreferences(userID uint) *UserPreferences {
	categories := make([]CategoryName, len(DefaultSelectedCategories))
	copy(categories, DefaultSelectedCategories)

	notifications := make(NotificationPreferences, len(DefaultNotifications))
	for k, v := range DefaultNotifications {
		notifications[k] = v
	}

	return &UserPreferences{
		UserID:                  userID,
		SelectedCategories:      datatypes.NewJSONType(categories),
		NotificationPreferences: datatypes.NewJSONType(notifications),
	}
}
