package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/models"
	"github.com/thereayou/noticeboard/internal/oauth"
	"github.com/thereayou/noticeboard/pkg/auth"
	"gorm.io/gorm"
)

const (
	maxUsernameLen       = 30
	usernameAttempts     = 5
	oauthDefaultLocation = models.LocationChandigarh
)

type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	Name       string
	Phone      *string
	Location   models.Location
	Visibility models.Visibility
}

type AuthResult struct {
	User  *models.User
	Token string
}

type AuthService struct {
	users UserStore
	jwt   *auth.JWTManager
	randN func(n int) int
}

func NewAuthService(users UserStore, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{users: users, jwt: jwtManager, randN: rand.IntN}
}

// Register создаёт аккаунт с паролем; занятые username и email дают разные 409
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if _, err := s.users.FindUserByUsername(ctx, in.Username); err == nil {
		return nil, apperr.Conflict("Username already exists").
			WithField("username", "This username is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.users.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflict("Email already exists").
			WithField("email", "This email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	visibility := in.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: &hash,
		Name:         in.Name,
		Phone:        in.Phone,
		Role:         models.RoleUser,
		Visibility:   visibility,
		Location:     in.Location,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.result(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if !user.HasPassword() {
		return nil, apperr.Unauthorized("Please use your social login method")
	}
	if !auth.CheckPassword(*user.PasswordHash, password) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	return s.result(user)
}

// ChangePassword недоступен аккаунтам без пароля
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return apperr.BadRequest("Social login users cannot change password")
	}
	if !auth.CheckPassword(*user.PasswordHash, current) {
		return apperr.BadRequest("Current password is incorrect").
			WithField("currentPassword", "Current password is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdateUserPassword(ctx, user.ID, hash)
}

// LoginWithProvider находит аккаунт по id провайдера, затем по email
// (привязывая провайдера), иначе создаёт новый подтверждённый аккаунт
func (s *AuthService) LoginWithProvider(ctx context.Context, id *oauth.Identity) (*AuthResult, error) {
	if id.Email == "" {
		return nil, oauth.ErrNoEmail
	}

	column, find, err := s.providerLookup(id.Provider)
	if err != nil {
		return nil, err
	}

	user, err := find(ctx, id.ProviderID)
	if err == nil {
		return s.result(user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err = s.users.FindUserByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if err := s.users.LinkProvider(ctx, user.ID, column, id.ProviderID); err != nil {
			return nil, err
		}
		setProviderID(user, id.Provider, id.ProviderID)
		user.IsVerified = true
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "provider": id.Provider}).Info("oauth provider linked")
		return s.result(user)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	username, err := s.generateUsername(ctx, id.Email)
	if err != nil {
		return nil, err
	}
	name := id.Name
	if name == "" {
		name = username
	}

	user = &models.User{
		Username:   username,
		Email:      id.Email,
		Name:       name,
		Role:       models.RoleUser,
		Visibility: models.VisibilityPublic,
		Location:   oauthDefaultLocation,
		IsVerified: true,
	}
	setProviderID(user, id.Provider, id.ProviderID)

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.result(user)
}

// IssueToken выдаёт токен для уже загруженного пользователя
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	return s.jwt.Generate(auth.Identity{
		ID:    user.ID,
		UUID:  user.UUID.String(),
		Email: user.Email,
		Role:  string(user.Role),
	})
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) providerLookup(provider string) (string, func(context.Context, string) (*models.User, error), error) {
	switch provider {
	case oauth.ProviderGoogle:
		return "google_id", s.users.FindUserByGoogleID, nil
	case oauth.ProviderApple:
		return "apple_id", s.users.FindUserByAppleID, nil
	}
	return "", nil, oauth.ErrUnknownProvider
}

func setProviderID(user *models.User, provider, providerID string) {
	id := providerID
	switch provider {
	case oauth.ProviderGoogle:
		user.GoogleID = &id
	case oauth.ProviderApple:
		user.AppleID = &id
	}
}

// generateUsername: локальная часть email плюс случайный суффикс 0..999.
// После нескольких коллизий суффикс берётся из uuid.
func (s *AuthService) generateUsername(ctx context.Context, email string) (string, error) {
	base := sanitizeUsername(strings.SplitN(email, "@", 2)[0])

	for i := 0; i < usernameAttempts; i++ {
		candidate := withSuffix(base, strconv.Itoa(s.randN(1000)))
		taken, err := s.users.UsernameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return withSuffix(base, "_"+strings.ReplaceAll(uuid.NewString(), "-", "")[:8]), nil
}

func sanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

func withSuffix(base, suffix string) string {
	if len(base)+len(suffix) > maxUsernameLen {
		base = base[:maxUsernameLen-len(suffix)]
	}
	return base + suffix
}
