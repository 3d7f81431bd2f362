package room

import (
	"context"

	"github.com/gorilla/websocket"
)

// resolveRoomId picks the room a mutation applies to: the sender's current
// membership wins, an unjoined sender falls back to the requested room id
// and finally to the configured default room.
func (s *service) resolveRoomId(senderId, requested string) string {
	if roomId, err := s.connRepo.RoomOf(senderId); err == nil {
		return roomId
	}
	if requested != "" {
		return requested
	}
	return s.defaultRoomId
}

// broadcast must be called with s.mu held so messages leave in intent
// application order. A nil exclude sends to the whole room.
func (s *service) broadcast(ctx context.Context, roomId string, exclude *websocket.Conn, msg *Message) {
	for _, conn := range s.connRepo.ConnsByRoom(roomId) {
		if conn == exclude {
			continue
		}
		if err := s.sender.Send(conn, msg); err != nil {
			s.logger.WarnContext(ctx, "failed to send message", "room_id", roomId, "type", msg.Type, "error", err)
		}
	}
}
