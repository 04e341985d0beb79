package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
)

func TestCampusFeedFiltersInTheQuery(t *testing.T) {
	profiles := newFakeProfileRepo()
	viewer := profiles.add(&models.Profile{
		Name:        "Ada",
		Email:       "ada@unilag.test",
		FirebaseUID: "uid-ada",
		AccountType: models.AccountTypeStudent,
		Student:     &models.StudentProfile{University: "Unilag"},
	})
	other := profiles.add(&models.Profile{
		Name:        "Bola",
		Email:       "bola@ui.test",
		FirebaseUID: "uid-bola",
		AccountType: models.AccountTypeStudent,
		Student:     &models.StudentProfile{University: "UI"},
	})

	posts := newFakePostRepo()
	require.NoError(t, posts.CreatePost(&models.Post{ProfileID: viewer.ID, Content: "campus news"}))
	require.NoError(t, posts.CreatePost(&models.Post{ProfileID: other.ID, Content: "elsewhere"}))
	posts.authorCampus[viewer.ID] = "Unilag"
	posts.authorCampus[other.ID] = "UI"

	h := NewPostHandler(posts, profiles, newFakeLikeRepo(), realtime.NewHub())

	c, rec := newTestContext(t, http.MethodGet, "/feed?feed=campus", "", "uid-ada")
	require.NoError(t, h.GetFeed(c))

	// The constraint reaches the repository so it applies before
	// pagination, not to an already-fetched page
	require.Equal(t, []string{"Unilag"}, posts.campusQueries)

	var enriched []EnrichedPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enriched))
	require.Len(t, enriched, 1)
	assert.Equal(t, "campus news", enriched[0].Content)
	assert.Equal(t, "Ada", enriched[0].Author.Name)
}

func TestGlobalFeedSkipsCampusQuery(t *testing.T) {
	profiles := newFakeProfileRepo()
	viewer := profiles.add(&models.Profile{
		Name:        "Ada",
		Email:       "ada@unilag.test",
		FirebaseUID: "uid-ada",
		AccountType: models.AccountTypeStudent,
		Student:     &models.StudentProfile{University: "Unilag"},
	})

	posts := newFakePostRepo()
	require.NoError(t, posts.CreatePost(&models.Post{ProfileID: viewer.ID, Content: "hello"}))

	h := NewPostHandler(posts, profiles, newFakeLikeRepo(), realtime.NewHub())

	c, rec := newTestContext(t, http.MethodGet, "/feed", "", "uid-ada")
	require.NoError(t, h.GetFeed(c))

	assert.Empty(t, posts.campusQueries)

	var enriched []EnrichedPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enriched))
	assert.Len(t, enriched, 1)
}
