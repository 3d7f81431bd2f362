package room

import (
	"context"

	"github.com/watchparty/server/internal/repository"
)

type PlayVideoParams struct {
	SenderId  string
	RoomId    string
	Index     int
	IsPlaying bool
}

type PlayVideoResponse struct {
	CurrentIndex int  `json:"current_index"`
	IsPlaying    bool `json:"is_playing"`
}

// PlayVideo selects the playlist entry and play state and broadcasts the
// delta to the whole room, sender included: the sender's own player must
// reflect the same canonical state as everyone else's.
func (s *service) PlayVideo(ctx context.Context, params *PlayVideoParams) (PlayVideoResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomId := s.resolveRoomId(params.SenderId, params.RoomId)
	if !s.policy.MayMutatePlayback(params.SenderId, roomId) {
		return PlayVideoResponse{}, ErrPermissionDenied
	}

	s.roomRepo.SetPlayback(&repository.SetPlaybackParams{
		RoomId:    roomId,
		Index:     params.Index,
		IsPlaying: params.IsPlaying,
	})

	resp := PlayVideoResponse{CurrentIndex: params.Index, IsPlaying: params.IsPlaying}
	s.broadcast(ctx, roomId, nil, &Message{Type: "play-video", Payload: resp})

	return resp, nil
}

type PauseVideoParams struct {
	SenderId string
	RoomId   string
}

// PauseVideo clears the play flag, leaving the current index untouched, and
// broadcasts the pause signal to the whole room.
func (s *service) PauseVideo(ctx context.Context, params *PauseVideoParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomId := s.resolveRoomId(params.SenderId, params.RoomId)
	if !s.policy.MayMutatePlayback(params.SenderId, roomId) {
		return ErrPermissionDenied
	}

	s.roomRepo.SetPaused(roomId)
	s.broadcast(ctx, roomId, nil, &Message{Type: "pause-video", Payload: nil})

	return nil
}

type UpdatePlaybackTimeParams struct {
	SenderId string
	RoomId   string
	Time     float64
}

// UpdatePlaybackTime records the last known playback position and broadcasts
// it to everyone except the sender. The sender already knows its own
// position, echoing it back would cause redundant re-seeks on the
// originating player.
func (s *service) UpdatePlaybackTime(ctx context.Context, params *UpdatePlaybackTimeParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomId := s.resolveRoomId(params.SenderId, params.RoomId)
	if !s.policy.MayMutatePlayback(params.SenderId, roomId) {
		return ErrPermissionDenied
	}

	s.roomRepo.SetTime(&repository.SetTimeParams{RoomId: roomId, Time: params.Time})

	senderConn, err := s.connRepo.GetConn(params.SenderId)
	if err != nil {
		senderConn = nil
	}
	s.broadcast(ctx, roomId, senderConn, &Message{Type: "playback-time-update", Payload: params.Time})

	return nil
}
