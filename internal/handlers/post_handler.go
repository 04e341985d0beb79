package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
	"github.com/unilinkng/backend/internal/repositories"
)

// PostHandler handles feed and post-creation HTTP requests
type PostHandler struct {
	postRepository    repositories.PostRepository
	profileRepository repositories.ProfileRepository
	likeRepository    repositories.LikeRepository
	hub               *realtime.Hub
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	profileRepo repositories.ProfileRepository,
	likeRepo repositories.LikeRepository,
	hub *realtime.Hub,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		profileRepository: profileRepo,
		likeRepository:    likeRepo,
		hub:               hub,
	}
}

// RegisterPostRoutes registers feed and post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.POST("/posts", h.CreatePost)
}

// EnrichedPost is a post with its author and the viewer-specific like
// flag, computed once per fetch over the full dataset
type EnrichedPost struct {
	models.Post
	Author       models.ProfileCompact `json:"author"`
	UserHasLiked bool                  `json:"user_has_liked"`
}

// GetFeed returns enriched posts newest-first. Students can narrow to
// their campus with ?feed=campus.
func (h *PostHandler) GetFeed(c echo.Context) error {
	viewer, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	// The campus constraint is pushed into the query so pagination
	// applies after filtering and campus pages come back full
	var posts []models.Post
	if c.QueryParam("feed") == "campus" && viewer.Student != nil {
		posts, err = h.postRepository.GetPostsByUniversity(viewer.Student.University, offset, limit)
	} else {
		posts, err = h.postRepository.GetAllPosts(offset, limit)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The viewer's like set is fetched once and intersected with the
	// full page, never re-queried per post
	likedSet, err := h.likeRepository.GetLikedPostIDs(viewer.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	authorCache := make(map[string]models.ProfileCompact)
	enriched := make([]EnrichedPost, 0, len(posts))
	for _, p := range posts {
		author, ok := authorCache[p.ProfileID]
		if !ok {
			profile, err := h.profileRepository.GetProfileByID(p.ProfileID)
			if err != nil {
				continue // Orphaned post; skip rather than fail the feed
			}
			author = profile.ToCompact()
			authorCache[p.ProfileID] = author
		}

		enriched = append(enriched, EnrichedPost{
			Post:         p,
			Author:       author,
			UserHasLiked: likedSet[p.ID],
		})
	}

	return c.JSON(http.StatusOK, enriched)
}

// CreatePost creates a post. A post with neither text nor an image is
// rejected before any write.
func (h *PostHandler) CreatePost(c echo.Context) error {
	author, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Content) == "" && req.ImageURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Post needs text or an image")
	}

	tag := req.Tag
	if tag == "" {
		tag = "General"
		if author.AccountType == models.AccountTypeOrganization {
			tag = "Company Update"
		}
	}

	post := &models.Post{
		ProfileID: author.ID,
		Content:   strings.TrimSpace(req.Content),
		ImageURL:  req.ImageURL,
		Tag:       tag,
	}
	if err := h.postRepository.CreatePost(post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.hub.Publish("posts", realtime.EventInsert, recordOf(post))

	return c.JSON(http.StatusCreated, EnrichedPost{
		Post:   *post,
		Author: author.ToCompact(),
	})
}
