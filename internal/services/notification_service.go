package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/noticeboard/internal/models"
	ws "github.com/thereayou/noticeboard/internal/websocket"
)

// Publisher доставляет событие во все соединения пользователя
type Publisher interface {
	SendEvent(userID uint, msgType ws.MessageType, data interface{}) error
}

type Actor struct {
	UUID     uuid.UUID `json:"uuid"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

type CommentEvent struct {
	PostID    uuid.UUID `json:"postId"`
	PostTitle string    `json:"postTitle"`
	CommentID uint      `json:"commentId"`
	Content   string    `json:"content"`
	Author    Actor     `json:"author"`
}

type LikeEvent struct {
	PostID    uuid.UUID `json:"postId"`
	PostTitle string    `json:"postTitle"`
	User      Actor     `json:"user"`
}

type NotificationService struct {
	store NotificationStore
	pub   Publisher
}

func NewNotificationService(store NotificationStore, pub Publisher) *NotificationService {
	return &NotificationService{store: store, pub: pub}
}

// CommentCreated уведомляет подписчиков объявления, кроме автора комментария
func (s *NotificationService) CommentCreated(ctx context.Context, post *models.Post, comment *models.Comment, author *models.User) {
	followers, err := s.store.GetPostFollowerIDs(ctx, post.ID)
	if err != nil {
		logrus.WithError(err).WithField("post_id", post.ID).Warn("load followers")
		return
	}

	recipients := make([]uint, 0, len(followers))
	for _, id := range followers {
		if id != author.ID {
			recipients = append(recipients, id)
		}
	}

	event := CommentEvent{
		PostID:    post.UUID,
		PostTitle: post.Title,
		CommentID: comment.ID,
		Content:   comment.Content,
		Author:    actor(author),
	}
	s.deliver(ctx, post, recipients, ws.TypeCommentCreated, event)
}

// PostLiked уведомляет владельца объявления; свой лайк не уведомляет
func (s *NotificationService) PostLiked(ctx context.Context, post *models.Post, liker *models.User) {
	if post.UserID == liker.ID {
		return
	}
	event := LikeEvent{PostID: post.UUID, PostTitle: post.Title, User: actor(liker)}
	s.deliver(ctx, post, []uint{post.UserID}, ws.TypePostLiked, event)
}

func (s *NotificationService) deliver(ctx context.Context, post *models.Post, recipients []uint, msgType ws.MessageType, event interface{}) {
	if len(recipients) == 0 || s.pub == nil {
		return
	}

	category, err := s.store.GetCategory(ctx, post.CategoryID)
	if err != nil {
		logrus.WithError(err).WithField("post_id", post.ID).Warn("load post category")
		return
	}
	prefs, err := s.store.GetPreferencesForUsers(ctx, recipients)
	if err != nil {
		logrus.WithError(err).WithField("post_id", post.ID).Warn("load notification preferences")
		return
	}

	for _, userID := range recipients {
		notifications := models.DefaultNotifications
		if p, ok := prefs[userID]; ok {
			notifications = p.NotificationPreferences.Data()
		}
		if !notifications.Allows(category.Name) {
			continue
		}
		if err := s.pub.SendEvent(userID, msgType, event); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Debug("notification not delivered")
		}
	}
}

func actor(u *models.User) Actor {
	return Actor{UUID: u.UUID, Username: u.Username, Name: u.Name}
}
