package websocket

import (
	"context"
	"sync"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// Client represents a single WebSocket connection tied to an authenticated
// user. It only receives messages for groups the user was a member of when
// the connection was opened.
type Client struct {
	hub    *Hub
	conn   *ws.Conn
	send   chan []byte
	userID int64

	mu     sync.RWMutex
	groups map[int64]struct{}
}

// NewClient creates a Client subscribed to the given group ids.
func NewClient(hub *Hub, conn *ws.Conn, userID int64, groupIDs []int64) *Client {
	groups := make(map[int64]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		groups[id] = struct{}{}
	}
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: userID,
		groups: groups,
	}
}

func (c *Client) subscribed(groupID int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.groups[groupID]
	return ok
}

// Subscribe adds a group to the client's subscription set.
func (c *Client) Subscribe(groupID int64) {
	c.mu.Lock()
	c.groups[groupID] = struct{}{}
	c.mu.Unlock()
}

// Unsubscribe drops a group from the client's subscription set.
func (c *Client) Unsubscribe(groupID int64) {
	c.mu.Lock()
	delete(c.groups, groupID)
	c.mu.Unlock()
}

// Run registers the client, starts the write pump, and runs the read pump.
// It blocks until the connection is closed, then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump reads and discards all incoming messages. It returns on error
// (connection close), which triggers cleanup.
func (c *Client) readPump(ctx context.Context) {
	for {
		_, _, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
	}
}

// writePump drains the send channel and writes messages to the WebSocket.
// It also sends periodic pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Hub closed the channel; connection is done.
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
