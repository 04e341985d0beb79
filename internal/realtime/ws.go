package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true }, // CORS is handled at the edge
}

// WSHandler streams a hub subscription over a websocket. The query
// string selects the scope: table (required), events (csv of
// insert/update/delete), filter (column=eq.value).
type WSHandler struct {
	hub *Hub
}

// NewWSHandler creates a WSHandler on the given hub
func NewWSHandler(hub *Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// RegisterRealtimeRoutes registers the websocket endpoint
func (h *WSHandler) RegisterRealtimeRoutes(g *echo.Group) {
	g.GET("/realtime", h.Stream)
}

// Stream upgrades the request and pumps matching events until the peer
// disconnects. The subscription is released on every exit path so a
// closed screen never leaks callbacks.
func (h *WSHandler) Stream(c echo.Context) error {
	table := c.QueryParam("table")
	if table == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "table query parameter is required")
	}

	var types []EventType
	if raw := c.QueryParam("events"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			switch EventType(t) {
			case EventInsert, EventUpdate, EventDelete:
				types = append(types, EventType(t))
			default:
				return echo.NewHTTPError(http.StatusBadRequest, "unknown event type: "+t)
			}
		}
	}

	pred, err := ParsePredicate(c.QueryParam("filter"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sub := h.hub.Subscribe(table, types, pred)
	defer sub.Cancel()

	// Reader only consumes control frames; any read error ends the stream
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case ev, ok := <-sub.Events():
			if !ok {
				// Dropped as a lagging subscriber
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "subscriber lagging"))
				return nil
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				return nil
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-done:
			return nil
		}
	}
}

// ParsePredicate parses the "column=eq.value" filter shape. An empty
// input yields a nil predicate (all rows).
func ParsePredicate(raw string) (*Predicate, error) {
	if raw == "" {
		return nil, nil
	}
	column, rest, ok := strings.Cut(raw, "=")
	if !ok || column == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "filter must look like column=eq.value")
	}
	value, ok := strings.CutPrefix(rest, "eq.")
	if !ok {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "only eq. filters are supported")
	}
	return &Predicate{Column: column, Value: value}, nil
}
