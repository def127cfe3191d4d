package services

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/database"
	"github.com/thereayou/noticeboard/internal/models"
	"github.com/thereayou/noticeboard/internal/oauth"
	"github.com/thereayou/noticeboard/internal/testutil"
	"github.com/thereayou/noticeboard/pkg/auth"
)

func newAuthService(t *testing.T) (*AuthService, *database.Database, *auth.JWTManager) {
	t.Helper()
	db := testutil.NewDB(t)
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(db, jwtMgr), db, jwtMgr
}

func registerAlice(t *testing.T, s *AuthService) *AuthResult {
	t.Helper()
	res, err := s.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "secret12",
		Name:     "Alice",
		Location: models.LocationChandigarh,
	})
	require.NoError(t, err)
	return res
}

func TestRegisterIssuesTokenForPersistedUser(t *testing.T) {
	s, db, jwtMgr := newAuthService(t)
	res := registerAlice(t, s)

	claims, err := jwtMgr.Verify(res.Token)
	require.NoError(t, err)

	stored, err := db.FindUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.ID)
	assert.Equal(t, stored.UUID.String(), claims.UUID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, models.VisibilityPublic, stored.Visibility)
	assert.NotEqual(t, "secret12", *stored.PasswordHash)

	_, err = db.GetUserPreferences(context.Background(), stored.ID)
	assert.NoError(t, err)
}

func TestRegisterConflicts(t *testing.T) {
	s, db, _ := newAuthService(t)
	registerAlice(t, s)

	_, err := s.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "other@x.com", Password: "secret12", Name: "Alice", Location: models.LocationAmritsar,
	})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, e.Status)
	assert.Equal(t, "Username already exists", e.Message)
	assert.Contains(t, e.Fields, "username")

	_, err = s.Register(context.Background(), RegisterInput{
		Username: "alice2", Email: "a@x.com", Password: "secret12", Name: "Alice", Location: models.LocationAmritsar,
	})
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, e.Status)
	assert.Equal(t, "Email already exists", e.Message)
	assert.Contains(t, e.Fields, "email")

	var count int64
	require.NoError(t, db.DB().Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	s, db, _ := newAuthService(t)
	registerAlice(t, s)
	ctx := context.Background()

	res, err := s.Login(ctx, "a@x.com", "secret12")
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)

	tests := []struct {
		name     string
		email    string
		password string
		message  string
	}{
		{"wrong password", "a@x.com", "wrong-pass", "Invalid email or password"},
		{"unknown email", "nobody@x.com", "secret12", "Invalid email or password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(ctx, tt.email, tt.password)
			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, e.Status)
			assert.Equal(t, tt.message, e.Message)
		})
	}

	social := &models.User{
		Username: "social", Email: "s@x.com", Name: "Social",
		Role: models.RoleUser, Visibility: models.VisibilityPublic, Location: models.LocationGurugram,
	}
	require.NoError(t, db.CreateUser(ctx, social))
	_, err = s.Login(ctx, "s@x.com", "whatever")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "Please use your social login method", e.Message)
}

func TestChangePassword(t *testing.T) {
	s, _, _ := newAuthService(t)
	res := registerAlice(t, s)
	ctx := context.Background()

	err := s.ChangePassword(ctx, res.User.ID, "bad-current", "newsecret")
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Contains(t, e.Fields, "currentPassword")

	require.NoError(t, s.ChangePassword(ctx, res.User.ID, "secret12", "newsecret"))

	_, err = s.Login(ctx, "a@x.com", "secret12")
	assert.Error(t, err)
	_, err = s.Login(ctx, "a@x.com", "newsecret")
	assert.NoError(t, err)
}

func TestLoginWithProviderLinksExistingAccount(t *testing.T) {
	s, db, _ := newAuthService(t)
	alice := registerAlice(t, s)
	ctx := context.Background()

	res, err := s.LoginWithProvider(ctx, &oauth.Identity{
		Provider: oauth.ProviderGoogle, ProviderID: "g-1", Email: "a@x.com", Name: "Alice G",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.User.ID, res.User.ID)
	assert.True(t, res.User.IsVerified)

	var count int64
	require.NoError(t, db.DB().Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	linked, err := db.FindUserByGoogleID(ctx, "g-1")
	require.NoError(t, err)
	assert.Equal(t, alice.User.ID, linked.ID)
	assert.True(t, linked.IsVerified)

	// повторный вход находит аккаунт по id провайдера
	again, err := s.LoginWithProvider(ctx, &oauth.Identity{
		Provider: oauth.ProviderGoogle, ProviderID: "g-1", Email: "changed@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, alice.User.ID, again.User.ID)
}

func TestLoginWithProviderCreatesAccount(t *testing.T) {
	s, db, _ := newAuthService(t)
	ctx := context.Background()

	res, err := s.LoginWithProvider(ctx, &oauth.Identity{
		Provider: oauth.ProviderApple, ProviderID: "apple-1", Email: "new.person@icloud.com",
	})
	require.NoError(t, err)

	u := res.User
	assert.Regexp(t, regexp.MustCompile(`^new\.person\d{1,3}$`), u.Username)
	assert.Equal(t, u.Username, u.Name)
	assert.Equal(t, models.LocationChandigarh, u.Location)
	assert.Equal(t, models.VisibilityPublic, u.Visibility)
	assert.True(t, u.IsVerified)
	assert.False(t, u.HasPassword())
	require.NotNil(t, u.AppleID)

	prefs, err := db.GetUserPreferences(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSelectedCategories, prefs.SelectedCategories.Data())
}

func TestLoginWithProviderRequiresEmail(t *testing.T) {
	s, _, _ := newAuthService(t)

	_, err := s.LoginWithProvider(context.Background(), &oauth.Identity{Provider: oauth.ProviderGoogle, ProviderID: "g"})
	assert.ErrorIs(t, err, oauth.ErrNoEmail)

	_, err = s.LoginWithProvider(context.Background(), &oauth.Identity{Provider: "github", ProviderID: "g", Email: "a@b.c"})
	assert.ErrorIs(t, err, oauth.ErrUnknownProvider)
}

func TestGenerateUsernameCollisions(t *testing.T) {
	s, db, _ := newAuthService(t)
	ctx := context.Background()
	s.randN = func(int) int { return 7 }

	testutil.CreateUser(t, db, "bob7")

	name, err := s.generateUsername(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Regexp(t, `^bob_[0-9a-f]{8}$`, name)

	long, err := s.generateUsername(ctx, "averyveryveryverylonglocalpartname@example.com")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(long), maxUsernameLen)

	assert.Equal(t, "user", sanitizeUsername("+++"))
}
