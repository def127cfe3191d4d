package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thereayou/noticeboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PostFilter: параметры ленты. UserID ограничивает автора,
// ViewerID нужен только для флагов isLiked/isSaved/isFollowed.
type PostFilter struct {
	Page     int
	Limit    int
	Category string
	Location string
	Search   string
	UserID   *uint
	ViewerID *uint
}

func (d *Database) CreatePost(ctx context.Context, post *models.Post) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error
}

func (d *Database) UpdatePost(ctx context.Context, post *models.Post) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error
}

func (d *Database) GetPostByUUID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post := models.Post{}
	if err := d.db.WithContext(ctx).Where("uuid = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost удаляет объявление вместе с комментариями, лайками, сохранениями и подписками
func (d *Database) DeletePost(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, dep := range []interface{}{&models.Comment{}, &models.Like{}, &models.SavedPost{}, &models.FollowedPost{}} {
			if err := tx.Where("post_id = ?", id).Delete(dep).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// IncrementPostViews атомарно увеличивает счётчик просмотров на единицу
func (d *Database) IncrementPostViews(ctx context.Context, id uuid.UUID) error {
	res := d.db.WithContext(ctx).Model(&models.Post{}).
		Where("uuid = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPostDetails возвращает одно объявление с деталями относительно зрителя
func (d *Database) GetPostDetails(ctx context.Context, id uuid.UUID, viewerID *uint) (*models.PostWithDetails, error) {
	var posts []models.Post
	err := d.withRelations(d.db.WithContext(ctx)).Where("uuid = ?", id).Limit(1).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	details, err := d.enrich(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// GetPosts: лента с фильтрами и пагинацией. Неизвестное имя категории не фильтрует.
func (d *Database) GetPosts(ctx context.Context, f PostFilter) (*models.PostPage, error) {
	var categoryID *uint
	if f.Category != "" {
		category, err := d.GetCategoryByName(ctx, f.Category)
		switch {
		case err == nil:
			categoryID = &category.ID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	filter := func(db *gorm.DB) *gorm.DB {
		if categoryID != nil {
			db = db.Where("posts.category_id = ?", *categoryID)
		}
		if f.Location != "" {
			db = db.Where("posts.location = ?", f.Location)
		}
		if f.UserID != nil {
			db = db.Where("posts.user_id = ?", *f.UserID)
		} else {
			db = db.Where("posts.visibility = ?", models.VisibilityPublic)
		}
		if f.Search != "" {
			like := "%" + f.Search + "%"
			db = db.Where("(posts.title LIKE ? OR posts.description LIKE ?)", like, like)
		}
		return db
	}

	return d.paginate(ctx, filter, f.Page, f.Limit, f.ViewerID)
}

// GetUserPosts: все объявления автора, включая приватные
func (d *Database) GetUserPosts(ctx context.Context, userID uint, page, limit int) (*models.PostPage, error) {
	return d.GetPosts(ctx, PostFilter{Page: page, Limit: limit, UserID: &userID, ViewerID: &userID})
}

func (d *Database) GetSavedPosts(ctx context.Context, userID uint, page, limit int) (*models.PostPage, error) {
	return d.postsFromRelation(ctx, &models.SavedPost{}, userID, page, limit)
}

func (d *Database) GetFollowedPosts(ctx context.Context, userID uint, page, limit int) (*models.PostPage, error) {
	return d.postsFromRelation(ctx, &models.FollowedPost{}, userID, page, limit)
}

func (d *Database) postsFromRelation(ctx context.Context, relation interface{}, userID uint, page, limit int) (*models.PostPage, error) {
	var postIDs []uint
	err := d.db.WithContext(ctx).Model(relation).Where("user_id = ?", userID).Pluck("post_id", &postIDs).Error
	if err != nil {
		return nil, err
	}

	// Пустой список: пустая страница без запроса к posts
	if len(postIDs) == 0 {
		return &models.PostPage{
			Data: []models.PostWithDetails{},
			Meta: models.PageMeta{Total: 0, Page: page, Limit: limit, TotalPages: 0},
		}, nil
	}

	filter := func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.id IN ?", postIDs)
	}
	return d.paginate(ctx, filter, page, limit, &userID)
}

func (d *Database) paginate(ctx context.Context, filter func(*gorm.DB) *gorm.DB, page, limit int, viewerID *uint) (*models.PostPage, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&models.Post{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []models.Post
	err := d.withRelations(d.db.WithContext(ctx)).
		Scopes(filter).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	details, err := d.enrich(ctx, posts, viewerID)
	if err != nil {
		return nil, err
	}

	return &models.PostPage{Data: details, Meta: models.NewPageMeta(total, page, limit)}, nil
}

func (d *Database) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Category").Preload("Subcategory")
}
