// Package wstransport implements the game-server transport client over a
// gorilla/websocket connection. Keepalive constants are grounded in the
// teacher's internal/server/client.go, which defines the same three
// constants for its own (server-side) connections.
package wstransport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kees-jan/swoq-bot/internal/wire"
	"github.com/kees-jan/swoq-bot/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

// Transport decouples the core from the wire: Start begins a game, Act
// advances it by one tick.
type Transport interface {
	Start(ctx context.Context) (wire.StartResponse, error)
	Act(ctx context.Context, action0 wire.DirectedAction, action1 *wire.DirectedAction) (wire.ActResponse, error)
	Close() error
}

// Client dials a single game-server connection; each Start or Act call is
// one blocking request/response round trip on it. Client takes no lock of
// its own, so concurrent calls are not serialized by it; the tick loop
// makes one call at a time.
type Client struct {
	conn      *websocket.Conn
	userID    string
	userName  string
	level     *int
	seed      *int64
	gameID    string
	stopPings chan struct{}
}

// Option configures optional Start parameters.
type Option func(*Client)

// WithLevel overrides the starting level (test/debug servers only).
func WithLevel(level int) Option { return func(c *Client) { c.level = &level } }

// WithSeed overrides the map seed (test/debug servers only).
func WithSeed(seed int64) Option { return func(c *Client) { c.seed = &seed } }

// Dial connects to ws://host/ws with the given credentials as query
// parameters.
func Dial(ctx context.Context, host, userID, userName string, opts ...Option) (*Client, error) {
	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}
	q := u.Query()
	q.Set("user", userID)
	q.Set("name", userName)
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: writeWait}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("wstransport: dial %s: %w", u.Redacted(), err)
	}
	conn.SetReadLimit(maxMessageSize)

	c := &Client{conn: conn, userID: userID, userName: userName, stopPings: make(chan struct{})}
	for _, opt := range opts {
		opt(c)
	}

	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("wstransport: set read deadline: %w", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.pingLoop()

	return c, nil
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopPings:
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("wstransport: set ping write deadline")
				continue
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("wstransport: ping failed")
				return
			}
		}
	}
}

// Start begins a new game and returns its fixed parameters plus initial
// state.
func (c *Client) Start(ctx context.Context) (wire.StartResponse, error) {
	req := wire.StartRequest{UserID: c.userID, UserName: c.userName, Level: c.level, Seed: c.seed}
	var resp wire.StartResponse
	if err := c.roundTrip(ctx, req, &resp); err != nil {
		return wire.StartResponse{}, fmt.Errorf("wstransport: start: %w", err)
	}
	c.gameID = resp.GameID
	return resp, nil
}

// Act advances the game by one tick. action1 is nil for single-player
// games.
func (c *Client) Act(ctx context.Context, action0 wire.DirectedAction, action1 *wire.DirectedAction) (wire.ActResponse, error) {
	req := wire.ActRequest{GameID: c.gameID, Action: action0, Action2: action1}
	var resp wire.ActResponse
	if err := c.roundTrip(ctx, req, &resp); err != nil {
		return wire.ActResponse{}, fmt.Errorf("wstransport: act: %w", err)
	}
	if resp.Result != wire.ResultOK && resp.State.Status == wire.StatusActive {
		return resp, fmt.Errorf("wstransport: act rejected: %s", resp.Result)
	}
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, req, resp interface{}) error {
	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
	} else if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, body); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if err := json.Unmarshal(data, resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Close stops the keepalive loop and closes the underlying connection.
func (c *Client) Close() error {
	close(c.stopPings)
	return c.conn.Close()
}
