package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
)

func likeFixture(t *testing.T) (*LikeHandler, *fakeProfileRepo, *fakePostRepo, *fakeLikeRepo, *fakeNotificationRepo) {
	t.Helper()
	profiles := newFakeProfileRepo()
	posts := newFakePostRepo()
	likes := newFakeLikeRepo()
	notifications := &fakeNotificationRepo{}
	h := NewLikeHandler(likes, posts, profiles, notifications, realtime.NewHub())
	return h, profiles, posts, likes, notifications
}

func TestLikePostNotifiesAuthor(t *testing.T) {
	h, profiles, posts, _, notifications := likeFixture(t)

	author := profiles.add(&models.Profile{Name: "Chidi", Email: "chidi@uni.edu", FirebaseUID: "uid-author", AccountType: models.AccountTypeStudent})
	actor := profiles.add(&models.Profile{Name: "Amaka", Email: "amaka@uni.edu", FirebaseUID: "uid-actor", AccountType: models.AccountTypeStudent})
	post := &models.Post{ProfileID: author.ID, Content: "hello"}
	require.NoError(t, posts.CreatePost(post))

	c, rec := newTestContext(t, http.MethodPost, "/posts/"+post.ID+"/likes", "", "uid-actor")
	c.SetParamNames("post_id")
	c.SetParamValues(post.ID)

	require.NoError(t, h.LikePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, post.LikesCount)

	require.Len(t, notifications.created, 1)
	n := notifications.created[0]
	assert.Equal(t, author.ID, n.RecipientID)
	assert.Equal(t, actor.ID, n.ActorID)
	assert.Equal(t, models.NotificationTypeLike, n.Type)
	assert.Equal(t, "Amaka", n.ActorData.Name)
}

func TestLikeOwnPostSkipsNotification(t *testing.T) {
	h, profiles, posts, _, notifications := likeFixture(t)

	author := profiles.add(&models.Profile{Name: "Chidi", Email: "chidi@uni.edu", FirebaseUID: "uid-author", AccountType: models.AccountTypeStudent})
	post := &models.Post{ProfileID: author.ID, Content: "self five"}
	require.NoError(t, posts.CreatePost(post))

	c, rec := newTestContext(t, http.MethodPost, "/posts/"+post.ID+"/likes", "", "uid-author")
	c.SetParamNames("post_id")
	c.SetParamValues(post.ID)

	require.NoError(t, h.LikePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, post.LikesCount)
	assert.Empty(t, notifications.created)
}

func TestSecondLikeConflictsAndKeepsCounter(t *testing.T) {
	h, profiles, posts, _, _ := likeFixture(t)

	author := profiles.add(&models.Profile{Name: "Chidi", Email: "chidi@uni.edu", FirebaseUID: "uid-author", AccountType: models.AccountTypeStudent})
	profiles.add(&models.Profile{Name: "Amaka", Email: "amaka@uni.edu", FirebaseUID: "uid-actor", AccountType: models.AccountTypeStudent})
	post := &models.Post{ProfileID: author.ID, Content: "hello"}
	require.NoError(t, posts.CreatePost(post))

	c, _ := newTestContext(t, http.MethodPost, "/posts/"+post.ID+"/likes", "", "uid-actor")
	c.SetParamNames("post_id")
	c.SetParamValues(post.ID)
	require.NoError(t, h.LikePost(c))

	c2, _ := newTestContext(t, http.MethodPost, "/posts/"+post.ID+"/likes", "", "uid-actor")
	c2.SetParamNames("post_id")
	c2.SetParamValues(post.ID)
	err := h.LikePost(c2)

	assert.Equal(t, http.StatusConflict, httpStatus(t, err))
	assert.Equal(t, 1, post.LikesCount)
}

func TestUnlikeDecrementsCounter(t *testing.T) {
	h, profiles, posts, likes, _ := likeFixture(t)

	author := profiles.add(&models.Profile{Name: "Chidi", Email: "chidi@uni.edu", FirebaseUID: "uid-author", AccountType: models.AccountTypeStudent})
	actor := profiles.add(&models.Profile{Name: "Amaka", Email: "amaka@uni.edu", FirebaseUID: "uid-actor", AccountType: models.AccountTypeStudent})
	post := &models.Post{ProfileID: author.ID, Content: "hello", LikesCount: 1}
	require.NoError(t, posts.CreatePost(post))
	require.NoError(t, likes.CreateLike(&models.PostLike{PostID: post.ID, ProfileID: actor.ID}))

	c, rec := newTestContext(t, http.MethodDelete, "/posts/"+post.ID+"/likes", "", "uid-actor")
	c.SetParamNames("post_id")
	c.SetParamValues(post.ID)

	require.NoError(t, h.UnlikePost(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, post.LikesCount)
}

func TestUnlikeWithoutLikeIsNotFound(t *testing.T) {
	h, profiles, posts, _, _ := likeFixture(t)

	author := profiles.add(&models.Profile{Name: "Chidi", Email: "chidi@uni.edu", FirebaseUID: "uid-author", AccountType: models.AccountTypeStudent})
	profiles.add(&models.Profile{Name: "Amaka", Email: "amaka@uni.edu", FirebaseUID: "uid-actor", AccountType: models.AccountTypeStudent})
	post := &models.Post{ProfileID: author.ID, Content: "hello"}
	require.NoError(t, posts.CreatePost(post))

	c, _ := newTestContext(t, http.MethodDelete, "/posts/"+post.ID+"/likes", "", "uid-actor")
	c.SetParamNames("post_id")
	c.SetParamValues(post.ID)

	err := h.UnlikePost(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestLikeRequiresAuthentication(t *testing.T) {
	h, _, _, _, _ := likeFixture(t)

	c, _ := newTestContext(t, http.MethodPost, "/posts/p-1/likes", "", "")
	c.SetParamNames("post_id")
	c.SetParamValues("p-1")

	err := h.LikePost(c)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}
