package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
	"github.com/unilinkng/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	postRepository         repositories.PostRepository
	profileRepository      repositories.ProfileRepository
	notificationRepository repositories.NotificationRepository
	hub                    *realtime.Hub
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	profileRepo repositories.ProfileRepository,
	notifRepo repositories.NotificationRepository,
	hub *realtime.Hub,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		postRepository:         postRepo,
		profileRepository:      profileRepo,
		notificationRepository: notifRepo,
		hub:                    hub,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/posts/:post_id/comments", h.GetComments)
	g.POST("/posts/:post_id/comments", h.CreateComment)
}

// EnrichedComment is a comment with its author attached
type EnrichedComment struct {
	models.Comment
	Author models.ProfileCompact `json:"author"`
}

// GetComments returns a post's comments oldest-first with authors joined
func (h *CommentHandler) GetComments(c echo.Context) error {
	if _, err := currentProfile(c, h.profileRepository); err != nil {
		return err
	}
	postID := c.Param("post_id")

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	authorCache := make(map[string]models.ProfileCompact)
	enriched := make([]EnrichedComment, 0, len(comments))
	for _, comment := range comments {
		author, ok := authorCache[comment.ProfileID]
		if !ok {
			profile, err := h.profileRepository.GetProfileByID(comment.ProfileID)
			if err == nil {
				author = profile.ToCompact()
				authorCache[comment.ProfileID] = author
			}
		}
		enriched = append(enriched, EnrichedComment{Comment: comment, Author: author})
	}
	return c.JSON(http.StatusOK, enriched)
}

// CreateComment creates an immutable comment, bumps the parent's
// comment counter, and notifies the post author unless they commented on
// their own post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	actor, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		PostID:    postID,
		ProfileID: actor.ID,
		Content:   req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.AdjustCommentsCount(postID, 1); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.hub.Publish("comments", realtime.EventInsert, recordOf(comment))

	// No self-notifications
	if post.ProfileID != actor.ID {
		notification := &models.Notification{
			RecipientID: post.ProfileID,
			ActorID:     actor.ID,
			Type:        models.NotificationTypeComment,
			Content:     "commented on your post",
			RelatedID:   postID,
			ActorData:   models.ActorSnapshot{Name: actor.Name, AvatarURL: actor.AvatarURL},
		}
		if err := h.notificationRepository.CreateNotification(notification); err == nil {
			h.hub.Publish("notifications", realtime.EventInsert, recordOf(notification))
		}
	}

	return c.JSON(http.StatusCreated, EnrichedComment{Comment: *comment, Author: actor.ToCompact()})
}
