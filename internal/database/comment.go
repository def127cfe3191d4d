package database

import (
	"context"

	"github.com/thereayou/noticeboard/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (d *Database) CreateComment(ctx context.Context, comment *models.Comment) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// GetPostComments возвращает комментарии от старых к новым вместе с авторами
func (d *Database) GetPostComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := d.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Preload("User").
		Find(&comments).Error
	return comments, err
}

// DeleteComment удаляет комментарий, только если он принадлежит автору и объявлению
func (d *Database) DeleteComment(ctx context.Context, id, postID, userID uint) error {
	res := d.db.WithContext(ctx).
		Where("id = ? AND post_id = ? AND user_id = ?", id, postID, userID).
		Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
