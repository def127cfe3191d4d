package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/noticeboard/internal/database"
	"github.com/thereayou/noticeboard/internal/models"
	"github.com/thereayou/noticeboard/pkg/auth"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
)

// NewDB поднимает изолированную in-memory SQLite со схемой и таксономией
func NewDB(t testing.TB) *database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB().DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateUser создаёт пользователя с паролем "password123"
func CreateUser(t testing.TB, db *database.Database, username string, opts ...func(*models.User)) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: &hash,
		Name:         username,
		Role:         models.RoleUser,
		Visibility:   models.VisibilityPublic,
		Location:     models.LocationChandigarh,
	}
	for _, opt := range opts {
		opt(user)
	}

	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

// CreatePost создаёт публичное объявление в категории sale
func CreatePost(t testing.TB, db *database.Database, owner *models.User, opts ...func(*models.Post)) *models.Post {
	t.Helper()

	category, err := db.GetCategoryByName(context.Background(), string(models.CategorySale))
	require.NoError(t, err)

	post := &models.Post{
		UserID:      owner.ID,
		Title:       "Selling a bicycle",
		Description: "Barely used bicycle, pick up only",
		CategoryID:  category.ID,
		Location:    models.LocationChandigarh,
		Visibility:  models.VisibilityPublic,
		Metadata:    datatypes.NewJSONType(models.Metadata{}),
	}
	for _, opt := range opts {
		opt(post)
	}

	require.NoError(t, db.CreatePost(context.Background(), post))
	return post
}

// CreatedAt задаёт время создания, чтобы порядок ленты был детерминированным
func CreatedAt(ts time.Time) func(*models.Post) {
	return func(p *models.Post) { p.CreatedAt = ts }
}

func Private() func(*models.Post) {
	return func(p *models.Post) { p.Visibility = models.VisibilityPrivate }
}

func InLocation(loc models.Location) func(*models.Post) {
	return func(p *models.Post) { p.Location = loc }
}

func Titled(title string) func(*models.Post) {
	return func(p *models.Post) { p.Title = title }
}

func InCategory(db *database.Database, name models.CategoryName) func(*models.Post) {
	return func(p *models.Post) {
		category, err := db.GetCategoryByName(context.Background(), string(name))
		if err != nil {
			panic(err)
		}
		p.CategoryID = category.ID
	}
}
