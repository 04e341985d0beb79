package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
	"github.com/unilinkng/backend/internal/repositories"
)

// MessageHandler handles conversation and message HTTP requests
type MessageHandler struct {
	messageRepository      repositories.MessageRepository
	connectionRepository   repositories.ConnectionRepository
	profileRepository      repositories.ProfileRepository
	notificationRepository repositories.NotificationRepository
	hub                    *realtime.Hub
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(
	messageRepo repositories.MessageRepository,
	connectionRepo repositories.ConnectionRepository,
	profileRepo repositories.ProfileRepository,
	notifRepo repositories.NotificationRepository,
	hub *realtime.Hub,
) *MessageHandler {
	return &MessageHandler{
		messageRepository:      messageRepo,
		connectionRepository:   connectionRepo,
		profileRepository:      profileRepo,
		notificationRepository: notifRepo,
		hub:                    hub,
	}
}

// RegisterMessageRoutes registers messaging routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.GET("/conversations", h.GetConversations)
	g.GET("/conversations/:partner_id/messages", h.GetMessages)
	g.POST("/messages", h.SendMessage)
}

// GetConversations lists the profiles the caller can chat with: the
// other party of every accepted connection
func (h *MessageHandler) GetConversations(c echo.Context) error {
	viewer, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	connections, err := h.connectionRepository.GetConnectionsForProfile(viewer.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	partners := make([]models.ProfileCompact, 0, len(connections))
	for _, conn := range connections {
		if conn.Status != models.ConnectionStatusAccepted {
			continue
		}
		profile, err := h.profileRepository.GetProfileByID(conn.OtherParty(viewer.ID))
		if err != nil {
			continue
		}
		partners = append(partners, profile.ToCompact())
	}
	return c.JSON(http.StatusOK, partners)
}

// GetMessages returns the thread with one partner, oldest-first. Both
// participants derive the same conversation key, so both read the same
// history in the same order.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	viewer, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	partnerID := c.Param("partner_id")

	conversationID, err := models.ConversationKey(viewer.ID, partnerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	messages, err := h.messageRepository.GetMessagesByConversationID(conversationID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"conversation_id": conversationID,
		"messages":        messages,
	})
}

// SendMessage appends a message to the conversation with the recipient.
// Messaging requires an accepted connection; self-messaging resolves to
// an invalid conversation key and is rejected.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	sender, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	conversationID, err := models.ConversationKey(sender.ID, req.RecipientID)
	if err != nil {
		if errors.Is(err, models.ErrSelfConversation) {
			return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	connection, err := h.connectionRepository.GetConnectionBetween(sender.ID, req.RecipientID)
	if err != nil || connection.Status != models.ConnectionStatusAccepted {
		return echo.NewHTTPError(http.StatusForbidden, "You can only message accepted connections")
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       sender.ID,
		Content:        req.Content,
	}
	if err := h.messageRepository.CreateMessage(message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Subscribers on this conversation key get the message pushed; their
	// merge replaces the sender's optimistic placeholder
	h.hub.Publish("messages", realtime.EventInsert, recordOf(message))

	notification := &models.Notification{
		RecipientID: req.RecipientID,
		ActorID:     sender.ID,
		Type:        models.NotificationTypeMessage,
		Content:     "sent you a message",
		RelatedID:   conversationID,
		ActorData:   models.ActorSnapshot{Name: sender.Name, AvatarURL: sender.AvatarURL},
	}
	if err := h.notificationRepository.CreateNotification(notification); err == nil {
		h.hub.Publish("notifications", realtime.EventInsert, recordOf(notification))
	}

	return c.JSON(http.StatusCreated, message)
}
