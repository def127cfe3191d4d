package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/handlers/dto"
	"github.com/thereayou/noticeboard/internal/metrics"
	"github.com/thereayou/noticeboard/internal/models"
	"gorm.io/gorm"
)

var errCommentNotFound = apperr.NotFound("Comment not found or you do not have permission to delete it")

func (h *PostHandler) GetComments(c *gin.Context) {
	post, found := h.loadPost(c)
	if !found {
		return
	}

	comments, err := h.db.GetPostComments(c.Request.Context(), post.ID)
	if err != nil {
		fail(c, err)
		return
	}

	respondOK(c, dto.NewCommentList(comments))
}

// AddComment сохраняет комментарий и уведомляет подписчиков объявления
func (h *PostHandler) AddComment(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	post, found := h.loadPost(c)
	if !found {
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Binding(err))
		return
	}

	ctx := c.Request.Context()
	comment := &models.Comment{PostID: post.ID, UserID: user.ID, Content: req.Content}
	if err := h.db.CreateComment(ctx, comment); err != nil {
		fail(c, err)
		return
	}
	comment.User = *user
	metrics.CommentCreated()

	h.notify.CommentCreated(ctx, post, comment, user)

	respondCreated(c, dto.NewCommentResponse(comment))
}

func (h *PostHandler) DeleteComment(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	post, found := h.loadPost(c)
	if !found {
		return
	}

	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 64)
	if err != nil {
		fail(c, errCommentNotFound)
		return
	}

	err = h.db.DeleteComment(c.Request.Context(), uint(commentID), post.ID, user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, errCommentNotFound)
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, "Comment deleted successfully")
}
