package models

import "time"

// Like, SavedPost и FollowedPost: связи пользователя с объявлением.
// Пара (user_id, post_id) уникальна в каждой таблице.

type Like struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_likes_user_post"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_likes_user_post;index"`
	CreatedAt time.Time

	// Связи
	User User `gorm:"constraint:OnDelete:CASCADE"`
	Post Post `gorm:"constraint:OnDelete:CASCADE"`
}

type SavedPost struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_saved_posts_user_post"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_saved_posts_user_post;index"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
	Post Post `gorm:"constraint:OnDelete:CASCADE"`
}

type FollowedPost struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_followed_posts_user_post"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_followed_posts_user_post;index"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
	Post Post `gorm:"constraint:OnDelete:CASCADE"`
}
