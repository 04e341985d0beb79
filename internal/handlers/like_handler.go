package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
	"github.com/unilinkng/backend/internal/repositories"
)

// LikeHandler handles HTTP requests related to post likes
type LikeHandler struct {
	likeRepository         repositories.LikeRepository
	postRepository         repositories.PostRepository
	profileRepository      repositories.ProfileRepository
	notificationRepository repositories.NotificationRepository
	hub                    *realtime.Hub
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	profileRepo repositories.ProfileRepository,
	notifRepo repositories.NotificationRepository,
	hub *realtime.Hub,
) *LikeHandler {
	return &LikeHandler{
		likeRepository:         likeRepo,
		postRepository:         postRepo,
		profileRepository:      profileRepo,
		notificationRepository: notifRepo,
		hub:                    hub,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes", h.LikePost)
	g.DELETE("/posts/:post_id/likes", h.UnlikePost)
}

// LikePost inserts the like row, updates the denormalized counter, and
// notifies the post author unless they liked their own post
func (h *LikeHandler) LikePost(c echo.Context) error {
	actor, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	like := &models.PostLike{PostID: postID, ProfileID: actor.ID}
	if err := h.likeRepository.CreateLike(like); err != nil {
		if isDuplicateKey(err) {
			return echo.NewHTTPError(http.StatusConflict, "Post already liked by this user")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.AdjustLikesCount(postID, 1); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// No self-notifications
	if post.ProfileID != actor.ID {
		notification := &models.Notification{
			RecipientID: post.ProfileID,
			ActorID:     actor.ID,
			Type:        models.NotificationTypeLike,
			Content:     "liked your post",
			RelatedID:   postID,
			ActorData:   models.ActorSnapshot{Name: actor.Name, AvatarURL: actor.AvatarURL},
		}
		if err := h.notificationRepository.CreateNotification(notification); err == nil {
			h.hub.Publish("notifications", realtime.EventInsert, recordOf(notification))
		}
	}

	count, _ := h.likeRepository.GetLikesCountByPostID(postID)
	return c.JSON(http.StatusCreated, echo.Map{
		"post_id":     postID,
		"likes_count": count,
	})
}

// UnlikePost removes the like row and decrements the counter
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	actor, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	if err := h.likeRepository.DeleteLike(postID, actor.ID); err != nil {
		if err.Error() == "like not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Like not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.AdjustLikesCount(postID, -1); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
