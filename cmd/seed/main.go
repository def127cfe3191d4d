package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/noticeboard/internal/config"
	"github.com/thereayou/noticeboard/internal/database"
	"github.com/thereayou/noticeboard/internal/models"
	"github.com/thereayou/noticeboard/pkg/auth"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	testEmail    = "test@example.com"
	testPassword = "password123"
)

func main() {
	extra := flag.Int("posts", 30, "number of random posts to generate")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	defer db.Close()

	gofakeit.Seed(time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	user, err := ensureTestUser(ctx, db)
	if err != nil {
		log.WithError(err).Fatal("test user")
	}
	log.WithField("email", user.Email).Info("test user ready")

	list, err := db.GetCategories(ctx)
	if err != nil {
		log.WithError(err).Fatal("load categories")
	}
	categories := make([]*models.Category, 0, len(list))
	for _, c := range list {
		full, err := db.GetCategory(ctx, c.ID)
		if err != nil {
			log.WithError(err).Fatal("load subcategories")
		}
		categories = append(categories, full)
	}

	// По одному объявлению на категорию
	for _, c := range categories {
		post := samplePost(user, c, fmt.Sprintf("Sample %s post", c.DisplayName))
		if err := db.CreatePost(ctx, post); err != nil {
			log.WithError(err).WithField("category", c.Name).Fatal("create sample post")
		}
	}

	for i := 0; i < *extra; i++ {
		c := categories[gofakeit.Number(0, len(categories)-1)]
		post := samplePost(user, c, gofakeit.Sentence(gofakeit.Number(2, 8)))
		if err := db.CreatePost(ctx, post); err != nil {
			log.WithError(err).Fatal("create random post")
		}
	}

	log.WithFields(logrus.Fields{
		"categories": len(categories),
		"posts":      len(categories) + *extra,
	}).Info("seed completed")
}

func ensureTestUser(ctx context.Context, db *database.Database) (*models.User, error) {
	user, err := db.FindUserByEmail(ctx, testEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		return nil, err
	}
	phone := gofakeit.Phone()
	user = &models.User{
		Username:     "testuser",
		Email:        testEmail,
		PasswordHash: &hash,
		Name:         "Test User",
		Phone:        &phone,
		Role:         models.RoleUser,
		Visibility:   models.VisibilityPublic,
		Location:     models.LocationChandigarh,
		IsVerified:   true,
	}
	if err := db.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func samplePost(owner *models.User, c *models.Category, title string) *models.Post {
	// title: 5..100 символов
	if len(title) < 5 {
		title += " notice"
	}
	if len(title) > 100 {
		title = title[:100]
	}

	var subID *uint
	if len(c.Subcategories) > 0 {
		sub := c.Subcategories[gofakeit.Number(0, len(c.Subcategories)-1)]
		subID = &sub.ID
	}

	location := models.Locations[gofakeit.Number(0, len(models.Locations)-1)]
	details := gofakeit.Street()
	meta := models.Metadata{
		models.MetadataDate: gofakeit.DateRange(time.Now(), time.Now().AddDate(0, 3, 0)).Format("2006-01-02"),
	}
	if c.Name == models.CategorySale || c.Name == models.CategoryProperty {
		meta[models.MetadataPrice] = fmt.Sprintf("%d", gofakeit.Number(500, 500000))
	}

	return &models.Post{
		UserID:          owner.ID,
		Title:           title,
		Description:     gofakeit.Paragraph(1, 3, 12, " "),
		CategoryID:      c.ID,
		SubcategoryID:   subID,
		Location:        location,
		LocationDetails: &details,
		Visibility:      models.VisibilityPublic,
		Metadata:        datatypes.NewJSONType(meta),
	}
}
