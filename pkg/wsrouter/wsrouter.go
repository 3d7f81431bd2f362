// Package wsrouter dispatches typed JSON messages read from a websocket
// connection to handlers registered per message type.
package wsrouter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc[T any] func(ctx context.Context, conn *websocket.Conn, payload T) error

type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

// Sender serializes writes to a connection. Replies from the read loop go
// through it so they take the same write lock as broadcasts; gorilla conns
// allow only one concurrent writer.
type Sender interface {
	Send(conn *websocket.Conn, msg any) error
}

type WSRouter struct {
	routes      map[string]HandlerFunc[json.RawMessage]
	middlewares []Middleware
	sender      Sender
}

func New(sender Sender) *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc[json.RawMessage]), sender: sender}
}

// Use appends middlewares applied to every handler. Must be called before
// Handle, handlers registered earlier keep the chain they were built with.
func (r *WSRouter) Use(middlewares ...Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

// Handle registers a handler for the given message type. The payload is
// unmarshalled into T before the handler runs.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	wrapped := HandlerFunc[any](func(ctx context.Context, conn *websocket.Conn, payload any) error {
		return handler(ctx, conn, payload.(T))
	})
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	r.routes[messageType] = func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		return wrapped(ctx, conn, input)
	}
}

// ServeConn reads messages from the connection until a read error occurs and
// routes each one to its handler. Handler errors do not stop the loop, they
// are reported to the peer as an error message.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			r.sender.Send(conn, map[string]string{"error": "unknown message type"})
			continue
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if err := handler(msgCtx, conn, msg.Payload); err != nil {
			r.sender.Send(conn, map[string]string{"error": err.Error()})
		}
	}
}
