package mediaquery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startBridge(t *testing.T) (*Bridge, *websocket.Conn) {
	t.Helper()
	return startBridgeWith(t, BridgeConfig{})
}

func startBridgeWith(t *testing.T, config BridgeConfig) (*Bridge, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	bridges := make(chan *Bridge, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		b := NewBridge(conn, config)
		bridges <- b
		_ = b.Run(context.Background())
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case b := <-bridges:
		t.Cleanup(func() { b.Close() })
		return b, client
	case <-time.After(2 * time.Second):
		t.Fatal("bridge not created")
		return nil, nil
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestBridge_SubscribeReportClose(t *testing.T) {
	b, client := startBridge(t)

	obs := IsMobile(b)
	if obs.Matches() {
		t.Error("unreported query should start as not matching")
	}

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var cmd Command
	if err := client.ReadJSON(&cmd); err != nil {
		t.Fatalf("read command: %v", err)
	}
	if cmd.Subscribe != MobileQuery {
		t.Fatalf("command = %+v, want subscribe %q", cmd, MobileQuery)
	}

	if err := client.WriteJSON(Report{Query: MobileQuery, Matches: true}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	waitFor(t, obs.Matches)

	if m, ok := b.Known(MobileQuery); !ok || !m {
		t.Errorf("Known = %v, %v", m, ok)
	}

	obs.Close()
	if err := client.ReadJSON(&cmd); err != nil {
		t.Fatalf("read command: %v", err)
	}
	if cmd.Unsubscribe != MobileQuery {
		t.Errorf("command = %+v, want unsubscribe", cmd)
	}

	// A late subscriber sees the cached state immediately.
	late := IsMobile(b)
	defer late.Close()
	if !late.Matches() {
		t.Error("late subscriber should read the cached state")
	}
}

func TestBridge_MalformedReportIgnored(t *testing.T) {
	b, client := startBridge(t)

	client.WriteMessage(websocket.TextMessage, []byte("not json"))
	client.WriteJSON(Report{Query: "(orientation: portrait)", Matches: true})

	waitFor(t, func() bool {
		m, ok := b.Known("(orientation: portrait)")
		return ok && m
	})
}

func TestBridge_RunStopsOnContextCancel(t *testing.T) {
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		result <- NewBridge(conn, BridgeConfig{}).Run(ctx)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	cancel()
	select {
	case err := <-result:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBridgeConfig_HeartbeatBelowReadTimeout(t *testing.T) {
	tests := []struct {
		name   string
		config BridgeConfig
		want   time.Duration
	}{
		{"defaults", BridgeConfig{}, 30 * time.Second},
		{"derived", BridgeConfig{ReadTimeout: time.Second}, 500 * time.Millisecond},
		{"explicit", BridgeConfig{ReadTimeout: time.Second, HeartbeatInterval: 200 * time.Millisecond}, 200 * time.Millisecond},
		{"too long", BridgeConfig{ReadTimeout: time.Second, HeartbeatInterval: 2 * time.Second}, 500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.config.withDefaults()
			if got.HeartbeatInterval != tt.want {
				t.Errorf("HeartbeatInterval = %v, want %v", got.HeartbeatInterval, tt.want)
			}
			if got.HeartbeatInterval >= got.ReadTimeout {
				t.Errorf("HeartbeatInterval %v should be below ReadTimeout %v", got.HeartbeatInterval, got.ReadTimeout)
			}
		})
	}
}

func TestBridge_HeartbeatKeepsIdleBridgeOpen(t *testing.T) {
	b, client := startBridgeWith(t, BridgeConfig{ReadTimeout: 200 * time.Millisecond})

	var pings atomic.Int32
	client.SetPingHandler(func(data string) error {
		pings.Add(1)
		return client.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})
	commands := make(chan Command, 8)
	go func() {
		for {
			var cmd Command
			if err := client.ReadJSON(&cmd); err != nil {
				return
			}
			commands <- cmd
		}
	}()

	obs := IsMobile(b)
	defer obs.Close()
	select {
	case cmd := <-commands:
		if cmd.Subscribe != MobileQuery {
			t.Fatalf("command = %+v, want subscribe %q", cmd, MobileQuery)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no subscribe command")
	}

	if err := client.WriteJSON(Report{Query: MobileQuery, Matches: true}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	waitFor(t, obs.Matches)

	// Idle for three read timeouts. Only pongs reach the bridge.
	time.Sleep(600 * time.Millisecond)

	select {
	case <-b.Done():
		t.Fatal("idle bridge closed despite answered pings")
	default:
	}
	if pings.Load() == 0 {
		t.Error("bridge sent no pings while idle")
	}
	if !obs.Matches() {
		t.Error("viewport state lost while idle")
	}

	if err := client.WriteJSON(Report{Query: MobileQuery, Matches: false}); err != nil {
		t.Fatalf("write report: %v", err)
	}
	waitFor(t, func() bool { return !obs.Matches() })
}

func TestBridge_KeepaliveFramesExtendDeadline(t *testing.T) {
	b, client := startBridgeWith(t, BridgeConfig{ReadTimeout: 200 * time.Millisecond})

	// The client never reads, so pings go unanswered; "{}" frames alone
	// keep the bridge alive.
	stop := time.After(600 * time.Millisecond)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ticker.C:
			if err := client.WriteMessage(websocket.TextMessage, []byte("{}")); err != nil {
				t.Fatalf("write keepalive: %v", err)
			}
		case <-stop:
			break loop
		}
	}

	select {
	case <-b.Done():
		t.Fatal("bridge closed despite keepalive frames")
	default:
	}
	if _, ok := b.Known(""); ok {
		t.Error("keepalive frames should not be recorded as reports")
	}
}

func TestBridge_SilentClientTimesOut(t *testing.T) {
	b, _ := startBridgeWith(t, BridgeConfig{ReadTimeout: 100 * time.Millisecond})

	select {
	case <-b.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("bridge to a silent client did not time out")
	}
}
