package dto

import (
	"time"

	"github.com/thereayou/noticeboard/internal/models"
	"gorm.io/datatypes"
)

type PageQuery struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}

type FeedQuery struct {
	PageQuery
	Category string `form:"category"`
	Location string `form:"location"`
	Search   string `form:"search"`
}

type CreatePostRequest struct {
	Title           string            `json:"title" binding:"required,min=5,max=100"`
	Description     string            `json:"description" binding:"required,min=10"`
	CategoryID      uint              `json:"categoryId" binding:"required"`
	SubcategoryID   *uint             `json:"subcategoryId"`
	Location        models.Location   `json:"location" binding:"required,location"`
	LocationDetails *string           `json:"locationDetails" binding:"omitempty,max=100"`
	ImageURL        *string           `json:"imageUrl" binding:"omitempty,url"`
	Visibility      models.Visibility `json:"visibility" binding:"omitempty,oneof=public private"`
	Metadata        models.Metadata   `json:"metadata"`
}

func (r *CreatePostRequest) Post(ownerID uint) *models.Post {
	visibility := r.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	metadata := r.Metadata
	if metadata == nil {
		metadata = models.Metadata{}
	}
	return &models.Post{
		UserID:          ownerID,
		Title:           r.Title,
		Description:     r.Description,
		CategoryID:      r.CategoryID,
		SubcategoryID:   r.SubcategoryID,
		Location:        r.Location,
		LocationDetails: r.LocationDetails,
		ImageURL:        r.ImageURL,
		Visibility:      visibility,
		Metadata:        datatypes.NewJSONType(metadata),
	}
}

// UpdatePostRequest: частичное обновление, nil значит «не менять»
type UpdatePostRequest struct {
	Title           *string            `json:"title" binding:"omitempty,min=5,max=100"`
	Description     *string            `json:"description" binding:"omitempty,min=10"`
	CategoryID      *uint              `json:"categoryId"`
	SubcategoryID   *uint              `json:"subcategoryId"`
	Location        *models.Location   `json:"location" binding:"omitempty,location"`
	LocationDetails *string            `json:"locationDetails" binding:"omitempty,max=100"`
	ImageURL        *string            `json:"imageUrl" binding:"omitempty,url"`
	Visibility      *models.Visibility `json:"visibility" binding:"omitempty,oneof=public private"`
	Metadata        models.Metadata    `json:"metadata"`
}

func (r *UpdatePostRequest) Apply(p *models.Post) {
	if r.Title != nil {
		p.Title = *r.Title
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.CategoryID != nil && *r.CategoryID != p.CategoryID {
		p.CategoryID = *r.CategoryID
		// подкатегория старой категории больше не подходит
		p.SubcategoryID = nil
	}
	if r.SubcategoryID != nil {
		p.SubcategoryID = r.SubcategoryID
	}
	if r.Location != nil {
		p.Location = *r.Location
	}
	if r.LocationDetails != nil {
		p.LocationDetails = r.LocationDetails
	}
	if r.ImageURL != nil {
		p.ImageURL = r.ImageURL
	}
	if r.Visibility != nil {
		p.Visibility = *r.Visibility
	}
	if r.Metadata != nil {
		p.Metadata = datatypes.NewJSONType(r.Metadata)
	}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=500"`
}

type CommentResponse struct {
	ID        uint              `json:"id"`
	PostID    uint              `json:"postId"`
	UserID    uint              `json:"userId"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"createdAt"`
	User      models.PostAuthor `json:"user"`
}

func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		User: models.PostAuthor{
			ID:           c.User.ID,
			UUID:         c.User.UUID,
			Name:         c.User.Name,
			Username:     c.User.Username,
			ProfileImage: c.User.ProfileImage,
		},
	}
}

func NewCommentList(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}

type UploadResponse struct {
	URL string `json:"url"`
}
