package mediaquery

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Report is sent by the browser whenever a subscribed query changes,
// and once right after it starts watching a query.
type Report struct {
	Query   string `json:"query"`
	Matches bool   `json:"matches"`
}

// Command is sent to the browser to start or stop watching a query.
type Command struct {
	Subscribe   string `json:"subscribe,omitempty"`
	Unsubscribe string `json:"unsubscribe,omitempty"`
}

// BridgeConfig configures a Bridge.
type BridgeConfig struct {
	// ReadTimeout bounds the wait for the next client message (default: 60s).
	ReadTimeout time.Duration

	// WriteTimeout bounds each command write (default: 10s).
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between pings (default: ReadTimeout/2).
	// It is kept below ReadTimeout so an idle browser stays connected.
	HeartbeatInterval time.Duration

	// Logger receives connection errors (default: slog.Default()).
	Logger *slog.Logger
}

func (c BridgeConfig) withDefaults() BridgeConfig {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.HeartbeatInterval <= 0 || c.HeartbeatInterval >= c.ReadTimeout {
		c.HeartbeatInterval = c.ReadTimeout / 2
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Bridge is a Platform backed by a browser's matchMedia, reached over a
// WebSocket connection. The last reported state of each query is cached so
// Subscribe can answer synchronously; a query the browser has not reported
// yet starts out as not matching.
type Bridge struct {
	conn   *websocket.Conn
	config BridgeConfig

	mu     sync.Mutex
	state  map[string]bool
	subs   map[string]map[uint64]func(bool)
	nextID uint64

	writeMu sync.Mutex

	closeOnce sync.Once
	done      chan struct{}
}

// NewBridge wraps an upgraded connection. Call Run to start reading reports.
func NewBridge(conn *websocket.Conn, config BridgeConfig) *Bridge {
	return &Bridge{
		conn:   conn,
		config: config.withDefaults(),
		state:  make(map[string]bool),
		subs:   make(map[string]map[uint64]func(bool)),
		done:   make(chan struct{}),
	}
}

// Subscribe implements Platform. The first listener for a query asks the
// browser to start watching it; the last one to leave asks it to stop.
func (b *Bridge) Subscribe(query string, onChange func(bool)) (bool, func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	first := len(b.subs[query]) == 0
	if b.subs[query] == nil {
		b.subs[query] = make(map[uint64]func(bool))
	}
	b.subs[query][id] = onChange
	initial := b.state[query]
	b.mu.Unlock()

	if first {
		b.send(Command{Subscribe: query})
	}

	var once sync.Once
	return initial, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[query], id)
			last := len(b.subs[query]) == 0
			if last {
				delete(b.subs, query)
			}
			b.mu.Unlock()

			if last {
				b.send(Command{Unsubscribe: query})
			}
		})
	}
}

// Known returns the last reported state for query and whether the browser
// has reported it at all.
func (b *Bridge) Known(query string) (matches, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	matches, ok = b.state[query]
	return matches, ok
}

// Run reads reports until the connection closes or ctx is done. While it
// runs the bridge pings the browser every HeartbeatInterval; any frame from
// the browser, a pong or an empty "{}" keepalive included, extends the read
// deadline.
func (b *Bridge) Run(ctx context.Context) error {
	defer b.Close()

	go func() {
		select {
		case <-ctx.Done():
			b.Close()
		case <-b.done:
		}
	}()
	go b.heartbeat()

	b.conn.SetPongHandler(func(string) error {
		return b.conn.SetReadDeadline(time.Now().Add(b.config.ReadTimeout))
	})

	for {
		b.conn.SetReadDeadline(time.Now().Add(b.config.ReadTimeout))

		_, msg, err := b.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				b.config.Logger.Debug("media bridge idle timeout", "timeout", b.config.ReadTimeout)
				return err
			}
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				b.config.Logger.Error("media bridge read error", "error", err)
				return err
			}
			return nil
		}

		var r Report
		if err := json.Unmarshal(msg, &r); err != nil {
			b.config.Logger.Warn("media bridge: malformed report", "error", err)
			continue
		}
		if r.Query == "" {
			// keepalive
			continue
		}
		b.deliver(r)
	}
}

// heartbeat pings the browser until the bridge closes.
func (b *Bridge) heartbeat() {
	ticker := time.NewTicker(b.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(b.config.WriteTimeout)
			if err := b.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				b.config.Logger.Debug("media bridge ping failed", "error", err)
				return
			}
		case <-b.done:
			return
		}
	}
}

// Done is closed when the bridge shuts down.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Close closes the connection. Pending listeners receive no further events.
func (b *Bridge) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.done)
		err = b.conn.Close()
	})
	return err
}

func (b *Bridge) deliver(r Report) {
	b.mu.Lock()
	prev, known := b.state[r.Query]
	b.state[r.Query] = r.Matches
	fns := make([]func(bool), 0, len(b.subs[r.Query]))
	if !known || prev != r.Matches {
		for _, fn := range b.subs[r.Query] {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(r.Matches)
	}
}

func (b *Bridge) send(cmd Command) {
	select {
	case <-b.done:
		return
	default:
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	b.conn.SetWriteDeadline(time.Now().Add(b.config.WriteTimeout))
	if err := b.conn.WriteJSON(cmd); err != nil {
		b.config.Logger.Warn("media bridge write failed", "error", err)
	}
}
