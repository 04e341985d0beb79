package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/unilinkng/backend/internal/models"
	"github.com/unilinkng/backend/internal/realtime"
	"github.com/unilinkng/backend/internal/repositories"
)

// ConnectionHandler handles network and connection HTTP requests
type ConnectionHandler struct {
	connectionRepository   repositories.ConnectionRepository
	profileRepository      repositories.ProfileRepository
	notificationRepository repositories.NotificationRepository
	hub                    *realtime.Hub
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(
	connectionRepo repositories.ConnectionRepository,
	profileRepo repositories.ProfileRepository,
	notifRepo repositories.NotificationRepository,
	hub *realtime.Hub,
) *ConnectionHandler {
	return &ConnectionHandler{
		connectionRepository:   connectionRepo,
		profileRepository:      profileRepo,
		notificationRepository: notifRepo,
		hub:                    hub,
	}
}

// RegisterConnectionRoutes registers network routes
func (h *ConnectionHandler) RegisterConnectionRoutes(g *echo.Group) {
	g.GET("/network", h.GetNetwork)
	g.POST("/connections", h.SendConnectionRequest)
	g.PUT("/connections/:id/accept", h.AcceptConnection)
	g.GET("/connections", h.GetConnections)
}

// NetworkEntry is a directory profile with the viewer's connection
// status toward it ("" when not connected)
type NetworkEntry struct {
	Profile models.ProfileCompact   `json:"profile"`
	Status  models.ConnectionStatus `json:"status,omitempty"`
}

// GetNetwork returns the member directory with the viewer's connection
// status map computed once per fetch
func (h *ConnectionHandler) GetNetwork(c echo.Context) error {
	viewer, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	profiles, err := h.profileRepository.ListProfiles(50)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	connections, err := h.connectionRepository.GetConnectionsForProfile(viewer.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Keyed by the other party, whichever side initiated
	statusByOther := make(map[string]models.ConnectionStatus, len(connections))
	for _, conn := range connections {
		statusByOther[conn.OtherParty(viewer.ID)] = conn.Status
	}

	entries := make([]NetworkEntry, 0, len(profiles))
	for _, profile := range profiles {
		if profile.ID == viewer.ID {
			continue
		}
		entries = append(entries, NetworkEntry{
			Profile: profile.ToCompact(),
			Status:  statusByOther[profile.ID],
		})
	}
	return c.JSON(http.StatusOK, entries)
}

// SendConnectionRequest creates a pending connection and notifies the
// recipient. Self-connections are rejected; a pair may hold at most one
// connection record regardless of direction.
func (h *ConnectionHandler) SendConnectionRequest(c echo.Context) error {
	requester, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	var req models.CreateConnectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.RecipientID == requester.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a connection request to yourself")
	}
	if _, err := h.profileRepository.GetProfileByID(req.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The unique index only covers one orientation, so the reverse
	// orientation is checked explicitly
	if _, err := h.connectionRepository.GetConnectionBetween(requester.ID, req.RecipientID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "A connection already exists between these users")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	connection := &models.Connection{
		RequesterID: requester.ID,
		RecipientID: req.RecipientID,
		Status:      models.ConnectionStatusPending,
	}
	if err := h.connectionRepository.CreateConnection(connection); err != nil {
		if isDuplicateKey(err) {
			return echo.NewHTTPError(http.StatusConflict, "A connection already exists between these users")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notification := &models.Notification{
		RecipientID: req.RecipientID,
		ActorID:     requester.ID,
		Type:        models.NotificationTypeConnect,
		Content:     "sent you a connection request",
		RelatedID:   connection.ID,
		ActorData:   models.ActorSnapshot{Name: requester.Name, AvatarURL: requester.AvatarURL},
	}
	if err := h.notificationRepository.CreateNotification(notification); err == nil {
		h.hub.Publish("notifications", realtime.EventInsert, recordOf(notification))
	}

	h.hub.Publish("connections", realtime.EventInsert, recordOf(connection))
	return c.JSON(http.StatusCreated, connection)
}

// AcceptConnection transitions a pending request to accepted; only the
// recipient may
func (h *ConnectionHandler) AcceptConnection(c echo.Context) error {
	recipient, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}
	connectionID := c.Param("id")

	connection, err := h.connectionRepository.GetConnectionByID(connectionID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Connection not found")
	}
	if connection.RecipientID != recipient.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not the recipient of this request")
	}
	if connection.Status == models.ConnectionStatusAccepted {
		return c.JSON(http.StatusOK, connection)
	}

	if err := h.connectionRepository.UpdateStatus(connectionID, models.ConnectionStatusAccepted); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	connection.Status = models.ConnectionStatusAccepted
	h.hub.Publish("connections", realtime.EventUpdate, recordOf(connection))
	return c.JSON(http.StatusOK, connection)
}

// GetConnections returns the caller's connections in either role
func (h *ConnectionHandler) GetConnections(c echo.Context) error {
	viewer, err := currentProfile(c, h.profileRepository)
	if err != nil {
		return err
	}

	connections, err := h.connectionRepository.GetConnectionsForProfile(viewer.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, connections)
}
