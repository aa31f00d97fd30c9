package channel

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Errors
var (
	ErrNotConnected = errors.New("channel not connected")
	ErrClosed       = errors.New("channel closed")
)

// State is the lifecycle state of a channel
type State string

const (
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosed     State = "closed"
)

// Conn is the subset of a websocket connection the channel uses.
// *websocket.Conn satisfies it; tests substitute fakes.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Dialer opens a websocket connection to the given URL.
type Dialer func(ctx context.Context, url string, header http.Header) (Conn, error)

// DefaultDialer dials with gorilla/websocket.
func DefaultDialer(handshakeTimeout time.Duration) Dialer {
	return func(ctx context.Context, url string, header http.Header) (Conn, error) {
		d := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
		conn, _, err := d.DialContext(ctx, url, header)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
}

// Config holds configuration for a single event channel
type Config struct {
	URL               string
	Token             string
	HandshakeTimeout  time.Duration
	WriteTimeout      time.Duration
	ReconnectBaseWait time.Duration
	ReconnectMaxWait  time.Duration
	BufferSize        int
	Dial              Dialer
	Clock             clockwork.Clock
}

// DefaultConfig returns sensible channel defaults.
func DefaultConfig(url, token string) Config {
	return Config{
		URL:               url,
		Token:             token,
		HandshakeTimeout:  10 * time.Second,
		WriteTimeout:      5 * time.Second,
		ReconnectBaseWait: 1 * time.Second,
		ReconnectMaxWait:  30 * time.Second,
		BufferSize:        256,
	}
}

// Channel is one long-lived event channel. It owns its connect/teardown
// lifecycle: on every successful (re)connect it re-runs the announce
// callback, so subscription and presence state survive transport-level
// reconnection. A channel error is logged and triggers a redial; it never
// terminates the owning session.
type Channel struct {
	name     string
	cfg      Config
	announce func() error

	events chan []byte

	mu    sync.RWMutex
	state State
	conn  Conn

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a channel. The announce callback runs after every
// successful (re)connect; it is never run only once.
func New(name string, cfg Config, announce func() error) *Channel {
	if cfg.Dial == nil {
		cfg.Dial = DefaultDialer(cfg.HandshakeTimeout)
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Channel{
		name:     name,
		cfg:      cfg,
		announce: announce,
		events:   make(chan []byte, cfg.BufferSize),
		state:    StateConnecting,
		done:     make(chan struct{}),
	}
}

// Open starts the connect/read/reconnect loop.
func (c *Channel) Open(ctx context.Context) {
	go c.run(ctx)
}

// State returns the channel lifecycle state.
func (c *Channel) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Events returns the channel's incoming frame stream. The channel stays
// stable across reconnects.
func (c *Channel) Events() <-chan []byte {
	return c.events
}

// Send writes a message over the current connection.
func (c *Channel) Send(v interface{}) error {
	c.mu.RLock()
	conn := c.conn
	state := c.state
	c.mu.RUnlock()

	if state == StateClosed {
		return ErrClosed
	}
	if conn == nil || state != StateOpen {
		return ErrNotConnected
	}

	conn.SetWriteDeadline(c.cfg.Clock.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteJSON(v)
}

// Reconnect tears down the current connection; the run loop redials and
// re-announces. Used when the channel's scope changes.
func (c *Channel) Reconnect() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	if c.state == StateOpen {
		c.state = StateConnecting
	}
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// Close shuts the channel down for good.
func (c *Channel) Close() error {
	c.stopOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		conn := c.conn
		c.conn = nil
		c.state = StateClosed
		c.mu.Unlock()

		if conn != nil {
			conn.Close()
		}
	})
	return nil
}

func (c *Channel) run(ctx context.Context) {
	wait := c.cfg.ReconnectBaseWait

	for {
		select {
		case <-ctx.Done():
			c.Close()
			return
		case <-c.done:
			return
		default:
		}

		c.mu.Lock()
		if c.state == StateClosed {
			c.mu.Unlock()
			return
		}
		c.state = StateConnecting
		c.mu.Unlock()

		header := http.Header{}
		if c.cfg.Token != "" {
			header.Set("Authorization", "Bearer "+c.cfg.Token)
		}

		conn, err := c.cfg.Dial(ctx, c.cfg.URL, header)
		if err != nil {
			log.Warn().
				Err(err).
				Str("channel", c.name).
				Dur("retry_in", wait).
				Msg("channel dial failed")

			select {
			case <-ctx.Done():
				c.Close()
				return
			case <-c.done:
				return
			case <-c.cfg.Clock.After(wait):
			}
			wait *= 2
			if wait > c.cfg.ReconnectMaxWait {
				wait = c.cfg.ReconnectMaxWait
			}
			continue
		}

		c.mu.Lock()
		if c.state == StateClosed {
			c.mu.Unlock()
			conn.Close()
			return
		}
		c.conn = conn
		c.state = StateOpen
		c.mu.Unlock()

		wait = c.cfg.ReconnectBaseWait
		log.Info().Str("channel", c.name).Msg("channel connected")

		// Announce runs on every successful connect so nothing can be
		// missed between open and subscribe.
		if c.announce != nil {
			if err := c.announce(); err != nil {
				log.Warn().
					Err(err).
					Str("channel", c.name).
					Msg("channel announce failed")
			}
		}

		c.readLoop(conn)
	}
}

// readLoop reads frames until the connection drops, then returns so the
// run loop can redial.
func (c *Channel) readLoop(conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				log.Warn().
					Err(err).
					Str("channel", c.name).
					Msg("channel read error, reconnecting")
			}
			conn.Close()
			return
		}

		select {
		case c.events <- data:
		case <-c.done:
			return
		default:
			log.Warn().Str("channel", c.name).Msg("event buffer full, dropping frame")
		}
	}
}
