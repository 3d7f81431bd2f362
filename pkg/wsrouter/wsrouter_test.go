package wsrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedSender mirrors the production sender: one writer per conn at a time,
// and it counts how many replies were routed through it.
type lockedSender struct {
	mu    sync.Mutex
	sends int
}

func (s *lockedSender) Send(conn *websocket.Conn, msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sends++
	return conn.WriteJSON(msg)
}

func (s *lockedSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sends
}

func dial(t *testing.T, r *WSRouter) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		require.NoError(t, err)
		defer conn.Close()
		r.ServeConn(req.Context(), conn)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestServeConnRoutesMessage(t *testing.T) {
	type echoInput struct {
		Text string `json:"text"`
	}

	r := New(&lockedSender{})
	got := make(chan echoInput, 1)
	types := make(chan string, 1)
	Handle(r, "echo", func(ctx context.Context, conn *websocket.Conn, payload echoInput) error {
		got <- payload
		types <- GetMessageTypeFromCtx(ctx)
		return nil
	})

	conn := dial(t, r)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "echo", "payload": map[string]string{"text": "hi"}}))

	select {
	case payload := <-got:
		assert.Equal(t, "hi", payload.Text)
		assert.Equal(t, "echo", <-types)
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestServeConnUnknownType(t *testing.T) {
	sender := &lockedSender{}
	conn := dial(t, New(sender))
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "nope"}))

	var resp map[string]string
	conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "unknown message type", resp["error"])

	// the reply went through the sender, not around its write lock
	assert.Equal(t, 1, sender.count())
}

func TestServeConnHandlerErrorReply(t *testing.T) {
	sender := &lockedSender{}
	r := New(sender)
	Handle(r, "boom", func(ctx context.Context, conn *websocket.Conn, payload struct{}) error {
		return assert.AnError
	})

	conn := dial(t, r)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "boom"}))

	var resp map[string]string
	conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, assert.AnError.Error(), resp["error"])
	assert.Equal(t, 1, sender.count())
}

func TestMiddlewareOrder(t *testing.T) {
	r := New(&lockedSender{})

	var calls []string
	mw := func(name string) Middleware {
		return func(next HandlerFunc[any]) HandlerFunc[any] {
			return func(ctx context.Context, conn *websocket.Conn, payload any) error {
				calls = append(calls, name)
				return next(ctx, conn, payload)
			}
		}
	}
	r.Use(mw("first"), mw("second"))

	done := make(chan struct{}, 1)
	Handle(r, "noop", func(ctx context.Context, conn *websocket.Conn, payload struct{}) error {
		calls = append(calls, "handler")
		done <- struct{}{}
		return nil
	})

	conn := dial(t, r)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "noop"}))

	select {
	case <-done:
		assert.Equal(t, []string{"first", "second", "handler"}, calls)
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}
