package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/watchparty/server/internal/repository"
)

// Connect registers a fresh connection and assigns it a connection id. The
// connection belongs to no room until its first join intent.
func (s *service) Connect(ctx context.Context, conn *websocket.Conn) (string, error) {
	connectionId := uuid.NewString()
	if err := s.connRepo.Add(conn, connectionId); err != nil {
		return "", fmt.Errorf("failed to register connection: %w", err)
	}

	return connectionId, nil
}

type JoinRoomParams struct {
	SenderId string
	RoomId   string
	AsHost   bool
}

type JoinRoomResponse struct {
	RoomId string
	State  State
}

// JoinRoom puts the connection into the room, creating the room state on
// first join, and unicasts the full snapshot to the joiner. Nothing is
// broadcast: a late joiner converges from the snapshot alone.
func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomId := params.RoomId
	if roomId == "" {
		roomId = s.defaultRoomId
	}

	if err := s.connRepo.Join(params.SenderId, roomId); err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to join room: %w", err)
	}

	if params.AsHost && s.policy.mode == ModeHostArbitrated {
		if err := s.connRepo.SetHost(roomId, params.SenderId); err != nil {
			// current host is retained, the claim is dropped silently
			s.logger.DebugContext(ctx, "host claim rejected", "room_id", roomId, "sender_id", params.SenderId)
		}
	}

	state := stateFromRepo(s.roomRepo.GetOrCreate(roomId))

	conn, err := s.connRepo.GetConn(params.SenderId)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get sender conn: %w", err)
	}
	if err := s.sender.Send(conn, &Message{Type: "init", Payload: state}); err != nil {
		s.logger.WarnContext(ctx, "failed to send init snapshot", "error", err)
	}

	return JoinRoomResponse{RoomId: roomId, State: state}, nil
}

// Disconnect removes the connection from the registry and clears the host
// role if it held one. Idempotent: disconnecting an unknown connection is a
// no-op, and nothing is broadcast. Room state is untouched, a room keeps
// its playlist for the process lifetime even with no one in it.
func (s *service) Disconnect(ctx context.Context, conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	connectionId, err := s.connRepo.GetConnectionId(conn)
	if err != nil {
		return nil
	}

	if err := s.connRepo.Remove(connectionId); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to remove connection: %w", err)
	}
	s.sender.Forget(conn)

	s.logger.DebugContext(ctx, "connection removed", "connection_id", connectionId)
	return nil
}
