package database

import (
	"context"
	"errors"

	"github.com/thereayou/noticeboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (d *Database) LikePost(ctx context.Context, userID, postID uint) (*models.Like, error) {
	like := &models.Like{UserID: userID, PostID: postID}
	return like, d.ensureRelation(ctx, like, userID, postID)
}

func (d *Database) UnlikePost(ctx context.Context, userID, postID uint) error {
	return d.removeRelation(ctx, &models.Like{}, userID, postID)
}

func (d *Database) SavePost(ctx context.Context, userID, postID uint) (*models.SavedPost, error) {
	saved := &models.SavedPost{UserID: userID, PostID: postID}
	return saved, d.ensureRelation(ctx, saved, userID, postID)
}

func (d *Database) UnsavePost(ctx context.Context, userID, postID uint) error {
	return d.removeRelation(ctx, &models.SavedPost{}, userID, postID)
}

func (d *Database) FollowPost(ctx context.Context, userID, postID uint) (*models.FollowedPost, error) {
	followed := &models.FollowedPost{UserID: userID, PostID: postID}
	return followed, d.ensureRelation(ctx, followed, userID, postID)
}

func (d *Database) UnfollowPost(ctx context.Context, userID, postID uint) error {
	return d.removeRelation(ctx, &models.FollowedPost{}, userID, postID)
}

// GetPostFollowerIDs возвращает подписчиков объявления
func (d *Database) GetPostFollowerIDs(ctx context.Context, postID uint) ([]uint, error) {
	var ids []uint
	err := d.db.WithContext(ctx).Model(&models.FollowedPost{}).Where("post_id = ?", postID).Pluck("user_id", &ids).Error
	return ids, err
}

// ensureRelation идемпотентна: существующая пара возвращается как есть,
// гонка на уникальном индексе решается повторным чтением
func (d *Database) ensureRelation(ctx context.Context, rel interface{}, userID, postID uint) error {
	db := d.db.WithContext(ctx)

	err := db.Where("user_id = ? AND post_id = ?", userID, postID).First(rel).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	err = db.Omit(clause.Associations).Create(rel).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return db.Where("user_id = ? AND post_id = ?", userID, postID).First(rel).Error
	}
	return err
}

// removeRelation не считает отсутствие связи ошибкой
func (d *Database) removeRelation(ctx context.Context, rel interface{}, userID, postID uint) error {
	return d.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(rel).Error
}
