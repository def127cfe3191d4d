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

func TestLikeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, alice)

	first, err := db.LikePost(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	second, err := db.LikePost(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.DB().Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, db.UnlikePost(ctx, bob.ID, post.ID))
	require.NoError(t, db.UnlikePost(ctx, bob.ID, post.ID), "unlike of a missing like succeeds")

	details, err := db.GetPostDetails(ctx, post.UUID, &bob.ID)
	require.NoError(t, err)
	assert.Zero(t, details.LikeCount)
	assert.False(t, *details.IsLiked)
}

func TestSaveAndFollowToggles(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, alice)

	_, err := db.SavePost(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	_, err = db.SavePost(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	_, err = db.FollowPost(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	_, err = db.FollowPost(ctx, alice.ID, post.ID)
	require.NoError(t, err)

	followers, err := db.GetPostFollowerIDs(ctx, post.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{alice.ID, bob.ID}, followers)

	require.NoError(t, db.UnsavePost(ctx, bob.ID, post.ID))
	require.NoError(t, db.UnfollowPost(ctx, bob.ID, post.ID))
	require.NoError(t, db.UnfollowPost(ctx, bob.ID, post.ID))

	saved, err := db.GetSavedPosts(ctx, bob.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, saved.Data)
}

func TestCommentsOrderAndDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	post := testutil.CreatePost(t, db, alice)
	other := testutil.CreatePost(t, db, alice)

	for _, content := range []string{"first", "second", "third"} {
		require.NoError(t, db.CreateComment(ctx, &models.Comment{PostID: post.ID, UserID: bob.ID, Content: content}))
	}

	comments, err := db.GetPostComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "third", comments[2].Content)
	assert.Equal(t, "bob", comments[0].User.Username)

	target := comments[0].ID
	assert.ErrorIs(t, db.DeleteComment(ctx, target, post.ID, alice.ID), gorm.ErrRecordNotFound, "only the author may delete")
	assert.ErrorIs(t, db.DeleteComment(ctx, target, other.ID, bob.ID), gorm.ErrRecordNotFound, "comment must belong to the post")
	require.NoError(t, db.DeleteComment(ctx, target, post.ID, bob.ID))

	comments, err = db.GetPostComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}
