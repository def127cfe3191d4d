package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/database"
	"github.com/thereayou/noticeboard/internal/handlers/dto"
	"github.com/thereayou/noticeboard/internal/metrics"
	"github.com/thereayou/noticeboard/internal/middleware"
	"github.com/thereayou/noticeboard/internal/models"
	"github.com/thereayou/noticeboard/internal/services"
	"gorm.io/gorm"
)

type PostHandler struct {
	db     *database.Database
	notify *services.NotificationService
}

func NewPostHandler(db *database.Database, notify *services.NotificationService) *PostHandler {
	return &PostHandler{db: db, notify: notify}
}

// GetPosts: публичная лента; с токеном добавляются флаги зрителя
func (h *PostHandler) GetPosts(c *gin.Context) {
	var q dto.FeedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, apperr.Binding(err))
		return
	}

	page, err := h.db.GetPosts(c.Request.Context(), database.PostFilter{
		Page:     q.Page,
		Limit:    q.Limit,
		Category: q.Category,
		Location: q.Location,
		Search:   q.Search,
		ViewerID: middleware.ViewerID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}

	respondOK(c, page)
}

// GetPost увеличивает счётчик просмотров и возвращает объявление
func (h *PostHandler) GetPost(c *gin.Context) {
	id, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	ctx := c.Request.Context()

	if err := h.db.IncrementPostViews(ctx, id); err != nil {
		fail(c, postNotFound(err))
		return
	}

	post, err := h.db.GetPostDetails(ctx, id, middleware.ViewerID(c))
	if err != nil {
		fail(c, postNotFound(err))
		return
	}

	respondOK(c, post)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Binding(err))
		return
	}

	ctx := c.Request.Context()
	if err := h.checkTaxonomy(ctx, req.CategoryID, req.SubcategoryID); err != nil {
		fail(c, err)
		return
	}

	post := req.Post(user.ID)
	if err := h.db.CreatePost(ctx, post); err != nil {
		fail(c, err)
		return
	}
	metrics.PostCreated()

	details, err := h.db.GetPostDetails(ctx, post.UUID, &user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	respondCreated(c, details)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	post, found := h.loadPost(c)
	if !found {
		return
	}
	if post.UserID != user.ID {
		fail(c, apperr.Forbidden("You can only update your own posts"))
		return
	}

	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Binding(err))
		return
	}
	req.Apply(post)

	ctx := c.Request.Context()
	if err := h.checkTaxonomy(ctx, post.CategoryID, post.SubcategoryID); err != nil {
		fail(c, err)
		return
	}
	if err := h.db.UpdatePost(ctx, post); err != nil {
		fail(c, err)
		return
	}

	details, err := h.db.GetPostDetails(ctx, post.UUID, &user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	respondOK(c, details)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	post, found := h.loadPost(c)
	if !found {
		return
	}
	if post.UserID != user.ID {
		fail(c, apperr.Forbidden("You can only delete your own posts"))
		return
	}

	if err := h.db.DeletePost(c.Request.Context(), post.ID); err != nil {
		fail(c, postNotFound(err))
		return
	}

	respondMessage(c, "Post deleted successfully")
}

// AdminDeletePost удаляет чужое объявление (модерация)
func (h *PostHandler) AdminDeletePost(c *gin.Context) {
	post, found := h.loadPost(c)
	if !found {
		return
	}

	if err := h.db.DeletePost(c.Request.Context(), post.ID); err != nil {
		fail(c, postNotFound(err))
		return
	}

	respondMessage(c, "Post deleted successfully")
}

// GetUserPosts: свои объявления, включая приватные
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	h.listing(c, h.db.GetUserPosts)
}

func (h *PostHandler) GetSavedPosts(c *gin.Context) {
	h.listing(c, h.db.GetSavedPosts)
}

func (h *PostHandler) GetFollowedPosts(c *gin.Context) {
	h.listing(c, h.db.GetFollowedPosts)
}

type listFunc func(ctx context.Context, userID uint, page, limit int) (*models.PostPage, error)

func (h *PostHandler) listing(c *gin.Context, list listFunc) {
	user, found := currentUser(c)
	if !found {
		return
	}

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		fail(c, apperr.Binding(err))
		return
	}

	page, err := list(c.Request.Context(), user.ID, q.Page, q.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	respondOK(c, page)
}

func (h *PostHandler) loadPost(c *gin.Context) (*models.Post, bool) {
	id, valid := uuidParam(c, "id")
	if !valid {
		return nil, false
	}

	post, err := h.db.GetPostByUUID(c.Request.Context(), id)
	if err != nil {
		fail(c, postNotFound(err))
		return nil, false
	}
	return post, true
}

// checkTaxonomy: категория существует, подкатегория принадлежит ей
func (h *PostHandler) checkTaxonomy(ctx context.Context, categoryID uint, subcategoryID *uint) error {
	if _, err := h.db.GetCategory(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validation("Validation error").WithField("categoryId", "Category does not exist")
		}
		return err
	}

	if subcategoryID == nil {
		return nil
	}
	sub, err := h.db.GetSubcategory(ctx, *subcategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && sub.CategoryID != categoryID) {
		return apperr.Validation("Validation error").WithField("subcategoryId", "Subcategory does not belong to the selected category")
	}
	return err
}

func postNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("Post not found")
	}
	return err
}
