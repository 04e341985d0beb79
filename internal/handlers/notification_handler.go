package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
	"github.com/unilinkng/backend/internal/repositories"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	profileRepository      repositories.ProfileRepository
	hub                    *realtime.Hub
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	notifRepo repositories.NotificationRepository,
	profileRepo repositories.ProfileRepository,
	hub *realtime.Hub,
) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		profileRepository:      profileRepo,
		hub:                    hub,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.POST("/mentorship/sessions", h.RequestMentorshipSession)
}

// GetNotifications returns the caller's notifications newest-first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	viewer, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	notifications, err := h.notificationRepository.GetByRecipientID(viewer.ID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notifications)
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	viewer, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	count, err := h.notificationRepository.GetUnreadCount(viewer.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead flips one notification's read flag
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	viewer, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	if err := h.notificationRepository.MarkAsRead(c.Param("id"), viewer.ID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllAsRead flips every unread notification for the caller
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	viewer, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	if err := h.notificationRepository.MarkAllAsRead(viewer.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// MentorshipSessionRequest defines the body for booking a mentorship
// session
type MentorshipSessionRequest struct {
	MentorName string `json:"mentor_name" validate:"required,max=100"`
}

// RequestMentorshipSession records a mentorship booking as a system
// notification to the requester. This is the one place a self-addressed
// notification is legitimate: it is a confirmation, not an actor event.
func (h *NotificationHandler) RequestMentorshipSession(c echo.Context) error {
	requester, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	var req MentorshipSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	notification := &models.Notification{
		RecipientID: requester.ID,
		ActorID:     requester.ID,
		Type:        models.NotificationTypeSystem,
		Content:     fmt.Sprintf("You requested a mentorship session with %s. Waiting for confirmation.", req.MentorName),
		ActorData:   models.ActorSnapshot{Name: requester.Name, AvatarURL: requester.AvatarURL},
	}
	if err := h.notificationRepository.CreateNotification(notification); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.hub.Publish("notifications", realtime.EventInsert, recordOf(notification))
	return c.JSON(http.StatusCreated, notification)
}
