package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Username     string    `gorm:"size:30;uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash *string   // nil у аккаунтов, созданных через OAuth
	GoogleID     *string   `gorm:"uniqueIndex"`
	AppleID      *string   `gorm:"uniqueIndex"`
	Name         string    `gorm:"not null"`
	Phone        *string
	ProfileImage *string
	Role         Role       `gorm:"size:10;not null;default:user"`
	Visibility   Visibility `gorm:"size:10;not null;default:public"`
	Location     Location   `gorm:"size:20;not null"`
	IsVerified   bool       `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BeforeCreate выдаёт внешний идентификатор, uuid после этого не меняется
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	return nil
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
