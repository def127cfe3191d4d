package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/noticeboard/internal/models"
	"github.com/thereayou/noticeboard/internal/testutil"
	"gorm.io/gorm"
)

func TestCreateUserAddsDefaultPreferences(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")

	assert.NotZero(t, alice.ID)
	assert.NotEqual(t, [16]byte{}, [16]byte(alice.UUID))

	prefs, err := db.GetUserPreferences(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSelectedCategories, prefs.SelectedCategories.Data())
	assert.Equal(t, models.NotificationPreferences{"all": true}, prefs.NotificationPreferences.Data())

	byUUID, err := db.GetUserByUUID(ctx, alice.UUID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byUUID.ID)
}

func TestCreateUserDuplicates(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	testutil.CreateUser(t, db, "alice")

	dup := &models.User{
		Username:   "alice",
		Email:      "other@example.com",
		Name:       "Alice Again",
		Role:       models.RoleUser,
		Visibility: models.VisibilityPublic,
		Location:   models.LocationChandigarh,
	}
	err := db.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	require.NoError(t, db.DB().Model(&models.User{}).Where("username = ?", "alice").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	taken, err := db.UsernameTaken(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestLinkProvider(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")

	require.NoError(t, db.LinkProvider(ctx, alice.ID, "google_id", "g-123"))

	linked, err := db.FindUserByGoogleID(ctx, "g-123")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, linked.ID)
	assert.True(t, linked.IsVerified)

	assert.Error(t, db.LinkProvider(ctx, alice.ID, "password_hash", "x"))
}

func TestUpdateUserPassword(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")

	require.NoError(t, db.UpdateUserPassword(ctx, alice.ID, "new-hash"))
	reloaded, err := db.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", *reloaded.PasswordHash)

	assert.ErrorIs(t, db.UpdateUserPassword(ctx, 9999, "x"), gorm.ErrRecordNotFound)
}

func TestPreferencesUpsert(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")

	// строка настроек могла пропасть: обновление должно её создать
	require.NoError(t, db.DB().Where("user_id = ?", alice.ID).Delete(&models.UserPreferences{}).Error)

	prefs, err := db.UpdateNotificationPreferences(ctx, alice.ID, models.NotificationPreferences{"jobs": true})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSelectedCategories, prefs.SelectedCategories.Data())

	prefs, err = db.UpdateSelectedCategories(ctx, alice.ID, []models.CategoryName{models.CategoryJobs})
	require.NoError(t, err)

	stored, err := db.GetUserPreferences(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, prefs.ID, stored.ID)
	assert.Equal(t, []models.CategoryName{models.CategoryJobs}, stored.SelectedCategories.Data())
	assert.Equal(t, models.NotificationPreferences{"jobs": true}, stored.NotificationPreferences.Data())

	batch, err := db.GetPreferencesForUsers(ctx, []uint{alice.ID, 9999})
	require.NoError(t, err)
	assert.Len(t, batch, 1)
}

func TestEnsureTaxonomyIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)

	require.NoError(t, db.EnsureTaxonomy(ctx))

	categories, err := db.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(models.Taxonomy))
	assert.Equal(t, "Announcement", categories[0].DisplayName)

	event, err := db.GetCategoryByName(ctx, "event")
	require.NoError(t, err)
	full, err := db.GetCategory(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, full.Subcategories, 17)

	subs, err := db.GetSubcategories(ctx, &event.ID)
	require.NoError(t, err)
	assert.Len(t, subs, 17)
	for _, s := range subs {
		assert.Equal(t, event.ID, s.CategoryID)
	}

	_, err = db.GetSubcategory(ctx, 999999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
