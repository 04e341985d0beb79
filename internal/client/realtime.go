package client

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/unilinkng/backend/internal/datasync"
	"github.com/unilinkng/backend/internal/realtime"
)

// WSChannel implements datasync.Channel over the server's websocket
// realtime endpoint. Each subscription holds one connection; Cancel
// closes it, which also stops the read pump.
type WSChannel struct {
	wsURL string // e.g. "wss://api.unilink.ng/api/v1/realtime"
	token string
}

// NewWSChannel creates a channel client
func NewWSChannel(wsURL, token string) *WSChannel {
	return &WSChannel{wsURL: wsURL, token: token}
}

// Subscribe dials the realtime endpoint with the subscription scope and
// pumps decoded events into onEvent until cancelled
func (c *WSChannel) Subscribe(table string, types []realtime.EventType, pred *realtime.Predicate, onEvent func(realtime.Event)) (datasync.Subscription, error) {
	q := url.Values{}
	q.Set("table", table)
	if len(types) > 0 {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = string(t)
		}
		q.Set("events", strings.Join(names, ","))
	}
	if pred != nil {
		q.Set("filter", fmt.Sprintf("%s=eq.%s", pred.Column, pred.Value))
	}

	header := map[string][]string{}
	if c.token != "" {
		header["Authorization"] = []string{"Bearer " + c.token}
	}

	conn, _, err := websocket.DefaultDialer.Dial(c.wsURL+"?"+q.Encode(), header)
	if err != nil {
		return nil, fmt.Errorf("realtime dial failed: %w", err)
	}

	sub := &wsSubscription{conn: conn, done: make(chan struct{})}
	go sub.readPump(pred, onEvent)
	return sub, nil
}

type wsSubscription struct {
	conn *websocket.Conn
	once sync.Once
	done chan struct{}
}

func (s *wsSubscription) readPump(pred *realtime.Predicate, onEvent func(realtime.Event)) {
	defer close(s.done)
	for {
		var ev realtime.Event
		if err := s.conn.ReadJSON(&ev); err != nil {
			return
		}
		// The server already scopes delivery; re-check defensively in
		// case the transport over-delivers.
		if !pred.Matches(ev) {
			continue
		}
		onEvent(ev)
	}
}

// Cancel closes the connection and waits for the read pump to stop, so
// no event callback fires after Cancel returns
func (s *wsSubscription) Cancel() {
	s.once.Do(func() {
		s.conn.Close()
	})
	<-s.done
}
