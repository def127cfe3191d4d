package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/noticeboard/internal/metrics"
	"github.com/thereayou/noticeboard/internal/models"
)

// toggle: общий обработчик like/save/follow: объявление должно существовать,
// повторный вызов ничего не меняет
func (h *PostHandler) toggle(kind, action, msg string, apply func(ctx context.Context, user *models.User, post *models.Post) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, found := currentUser(c)
		if !found {
			return
		}
		post, found := h.loadPost(c)
		if !found {
			return
		}

		if err := apply(c.Request.Context(), user, post); err != nil {
			fail(c, err)
			return
		}
		metrics.Engagement(kind, action)

		respondMessage(c, msg)
	}
}

func (h *PostHandler) LikePost() gin.HandlerFunc {
	return h.toggle("like", "add", "Post liked successfully", func(ctx context.Context, user *models.User, post *models.Post) error {
		if _, err := h.db.LikePost(ctx, user.ID, post.ID); err != nil {
			return err
		}
		h.notify.PostLiked(ctx, post, user)
		return nil
	})
}

func (h *PostHandler) UnlikePost() gin.HandlerFunc {
	return h.toggle("like", "remove", "Post unliked successfully", func(ctx context.Context, user *models.User, post *models.Post) error {
		return h.db.UnlikePost(ctx, user.ID, post.ID)
	})
}

func (h *PostHandler) SavePost() gin.HandlerFunc {
	return h.toggle("save", "add", "Post saved successfully", func(ctx context.Context, user *models.User, post *models.Post) error {
		_, err := h.db.SavePost(ctx, user.ID, post.ID)
		return err
	})
}

func (h *PostHandler) UnsavePost() gin.HandlerFunc {
	return h.toggle("save", "remove", "Post unsaved successfully", func(ctx context.Context, user *models.User, post *models.Post) error {
		return h.db.UnsavePost(ctx, user.ID, post.ID)
	})
}

func (h *PostHandler) FollowPost() gin.HandlerFunc {
	return h.toggle("follow", "add", "Post followed successfully", func(ctx context.Context, user *models.User, post *models.Post) error {
		_, err := h.db.FollowPost(ctx, user.ID, post.ID)
		return err
	})
}

func (h *PostHandler) UnfollowPost() gin.HandlerFunc {
	return h.toggle("follow", "remove", "Post unfollowed successfully", func(ctx context.Context, user *models.User, post *models.Post) error {
		return h.db.UnfollowPost(ctx, user.ID, post.ID)
	})
}
