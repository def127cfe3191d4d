package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/models"
	"github.com/thereayou/noticeboard/pkg/auth"
	"gorm.io/gorm"
)

const (
	UserIDKey   = "userID"
	UserKey     = "user"
	IdentityKey = "identity"
	TokenKey    = "token"
)

var (
	errAuthRequired = apperr.Unauthorized("Authentication required. Please log in.")
	errBadToken     = apperr.Unauthorized("Invalid or expired token. Please log in again.")
	errNoUser       = apperr.Unauthorized("User not found. Please log in again.")
	errAdminOnly    = apperr.Forbidden("Access denied. Admin privileges required.")
)

// UserLookup: подтверждение, что владелец токена ещё существует
type UserLookup interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type Authenticator struct {
	jwtManager *auth.JWTManager
	blacklist  auth.Blacklist
	users      UserLookup
}

func NewAuthenticator(jwtManager *auth.JWTManager, blacklist auth.Blacklist, users UserLookup) *Authenticator {
	return &Authenticator{jwtManager: jwtManager, blacklist: blacklist, users: users}
}

// Auth проверяет JWT из Authorization header
func (a *Authenticator) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			abort(c, errAuthRequired)
			return
		}
		if err := a.attach(c, token); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuth прикрепляет пользователя, если токен валиден, и никогда не отказывает
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := auth.ExtractTokenFromHeader(c.Request); err == nil {
			_ = a.attach(c, token)
		}
		c.Next()
	}
}

// WSAuth для WebSocket: браузер не умеет ставить заголовки, токен может прийти в query
func (a *Authenticator) WSAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token, _ = auth.ExtractTokenFromHeader(c.Request)
		}
		if token == "" {
			abort(c, errAuthRequired)
			return
		}
		if err := a.attach(c, token); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

func (a *Authenticator) attach(c *gin.Context, token string) error {
	ctx := c.Request.Context()

	// Проверяем, не в черном списке ли токен
	revoked, err := a.blacklist.IsRevoked(ctx, token)
	if err != nil || revoked {
		return errBadToken
	}

	claims, err := a.jwtManager.Verify(token)
	if err != nil {
		return errBadToken
	}

	user, err := a.users.GetUser(ctx, claims.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errNoUser
	}
	if err != nil {
		return err
	}
	if user.UUID.String() != claims.Subject {
		return errBadToken
	}

	c.Set(TokenKey, token)
	c.Set(UserIDKey, user.ID)
	c.Set(UserKey, user)
	c.Set(IdentityKey, auth.Identity{
		ID:    user.ID,
		UUID:  user.UUID.String(),
		Email: user.Email,
		Role:  string(user.Role),
	})
	return nil
}

// AdminOnly ставится после Auth
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abort(c, errAuthRequired)
			return
		}
		if !user.IsAdmin() {
			abort(c, errAdminOnly)
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// ViewerID: id текущего пользователя или nil для анонимного запроса
func ViewerID(c *gin.Context) *uint {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

func CurrentToken(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(TokenKey))
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
