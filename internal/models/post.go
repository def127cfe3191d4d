package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Metadata: произвольные строковые поля объявления.
// Клиенты используют ключи price, date, time и model.
type Metadata map[string]string

const (
	MetadataPrice = "price"
	MetadataDate  = "date"
	MetadataTime  = "time"
	MetadataModel = "model"
)

type Post struct {
	ID              uint       `gorm:"primaryKey"`
	UUID            uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	UserID          uint       `gorm:"not null;index"`
	Title           string     `gorm:"size:100;not null"`
	Description     string     `gorm:"type:text;not null"`
	CategoryID      uint       `gorm:"not null;index"`
	SubcategoryID   *uint      `gorm:"index"`
	Location        Location   `gorm:"size:20;not null;index"`
	LocationDetails *string    `gorm:"size:100"`
	ImageURL        *string
	Visibility      Visibility                   `gorm:"size:10;not null;default:public;index"`
	Metadata        datatypes.JSONType[Metadata] `gorm:"not null"`
	ViewCount       int64                        `gorm:"not null;default:0"`
	CreatedAt       time.Time                    `gorm:"index"`
	UpdatedAt       time.Time

	// Связи
	User        User `gorm:"constraint:OnDelete:CASCADE"`
	Category    Category
	Subcategory *Subcategory
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	PostID    uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Content   string `gorm:"size:500;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Связи
	Post Post `gorm:"constraint:OnDelete:CASCADE"`
	User User `gorm:"constraint:OnDelete:CASCADE"`
}
