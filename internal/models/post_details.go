package models

import (
	"time"

	"github.com/google/uuid"
)

type PostAuthor struct {
	ID           uint      `json:"id"`
	UUID         uuid.UUID `json:"uuid"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	ProfileImage *string   `json:"profileImage"`
}

type CategoryRef struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// PostWithDetails: объявление вместе с автором, категорией и счётчиками.
// Флаги IsLiked/IsSaved/IsFollowed заполняются только при известном зрителе.
type PostWithDetails struct {
	ID              uint         `json:"id"`
	UUID            uuid.UUID    `json:"uuid"`
	UserID          uint         `json:"userId"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	CategoryID      uint         `json:"categoryId"`
	SubcategoryID   *uint        `json:"subcategoryId"`
	Location        Location     `json:"location"`
	LocationDetails *string      `json:"locationDetails"`
	ImageURL        *string      `json:"imageUrl"`
	Visibility      Visibility   `json:"visibility"`
	Metadata        Metadata     `json:"metadata"`
	ViewCount       int64        `json:"viewCount"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	User            PostAuthor   `json:"user"`
	Category        CategoryRef  `json:"category"`
	Subcategory     *CategoryRef `json:"subcategory,omitempty"`
	LikeCount       int64        `json:"likeCount"`
	CommentCount    int64        `json:"commentCount"`
	IsLiked         *bool        `json:"isLiked,omitempty"`
	IsSaved         *bool        `json:"isSaved,omitempty"`
	IsFollowed      *bool        `json:"isFollowed,omitempty"`
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type PostPage struct {
	Data []PostWithDetails `json:"data"`
	Meta PageMeta          `json:"meta"`
}

// NewPageMeta считает totalPages = ceil(total/limit); при limit <= 0 страниц нет
func NewPageMeta(total int64, page, limit int) PageMeta {
	meta := PageMeta{Total: total, Page: page, Limit: limit}
	if limit > 0 {
		meta.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return meta
}
