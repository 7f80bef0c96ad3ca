package terminal

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cafepos/pos-app/realtime"
	"github.com/cafepos/pos-app/utils"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Listener keeps one websocket subscription to the server alive for the
// session. Connection drops trigger reconnection with exponential backoff;
// the terminal keeps working on local state in the meantime. Missed events
// are not replayed, so OnReconnect should re-fetch authoritative state.
type Listener struct {
	URL   string // ws endpoint, e.g. ws://host:8080/ws
	Token string

	// OnReconnect fires after every successful (re)connect except the first.
	OnReconnect func()

	mu       sync.Mutex
	handlers map[string]func(json.RawMessage)
}

func NewListener(url, token string) *Listener {
	return &Listener{
		URL:      url,
		Token:    token,
		handlers: make(map[string]func(json.RawMessage)),
	}
}

// Handle registers the callback for one event type. Events without a handler
// are dropped.
func (l *Listener) Handle(event string, fn func(json.RawMessage)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[event] = fn
}

// Run dials and reads until ctx is cancelled. It never returns a connection
// error; failures are logged and retried with doubling backoff capped at 30s.
func (l *Listener) Run(ctx context.Context) {
	backoff := initialBackoff
	connected := false

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.URL+"?token="+l.Token, nil)
		if err != nil {
			utils.ErrorLogger.Errorf("Realtime connect failed: %v (retrying in %v)", err, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		backoff = initialBackoff
		if connected && l.OnReconnect != nil {
			l.OnReconnect()
		}
		connected = true

		l.readLoop(ctx, conn)
		conn.Close()
	}
}

func (l *Listener) readLoop(ctx context.Context, conn *websocket.Conn) {
	// Unblock the read when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				utils.ErrorLogger.Errorf("Realtime connection lost: %v", err)
			}
			return
		}

		var msg realtime.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			utils.ErrorLogger.Errorf("Ignoring malformed realtime message: %v", err)
			continue
		}

		raw, err := json.Marshal(msg.Data)
		if err != nil {
			continue
		}
		l.dispatch(msg.Event, raw)
	}
}

func (l *Listener) dispatch(event string, data json.RawMessage) {
	l.mu.Lock()
	fn := l.handlers[event]
	l.mu.Unlock()

	if fn != nil {
		fn(data)
	}
}
