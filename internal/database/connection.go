package database

import (
	"context"
	"errors"
	"time"

	"github.com/thereayou/noticeboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect открывает PostgreSQL по DSN
func Connect(dsn string) (*Database, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	return Open(newPGDialector(dsn))
}

// Open подключается через любой диалект, мигрирует схему и заполняет таксономию
func Open(dialector gorm.Dialector) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	d := NewDatabase(db)
	if err := d.Migrate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := d.EnsureTaxonomy(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Database) Migrate() error {
	return d.db.AutoMigrate(
		&models.User{},
		&models.UserPreferences{},
		&models.Category{},
		&models.Subcategory{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.SavedPost{},
		&models.FollowedPost{},
	)
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
