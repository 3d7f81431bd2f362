package room

import (
	"context"

	"github.com/watchparty/server/internal/repository"
)

type AddVideoParams struct {
	SenderId string
	RoomId   string
	Video    Video
}

type AddVideoResponse struct {
	AddedVideo Video
	Playlist   []Video
}

// AddVideo appends the video to the room's playlist and broadcasts the
// updated playlist to the whole room, sender included.
func (s *service) AddVideo(ctx context.Context, params *AddVideoParams) (AddVideoResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomId := s.resolveRoomId(params.SenderId, params.RoomId)
	if !s.policy.MayMutatePlaylist(params.SenderId, roomId) {
		return AddVideoResponse{}, ErrPermissionDenied
	}

	if s.playlistLimit > 0 && s.roomRepo.PlaylistLength(roomId) >= s.playlistLimit {
		return AddVideoResponse{}, ErrPlaylistLimitReached
	}

	playlist := s.roomRepo.AppendVideo(&repository.AppendVideoParams{
		RoomId: roomId,
		Video:  videoToRepo(params.Video),
	})

	resp := AddVideoResponse{
		AddedVideo: params.Video,
		Playlist:   playlistFromRepo(playlist),
	}
	s.broadcast(ctx, roomId, nil, &Message{Type: "playlist-updated", Payload: resp.Playlist})

	return resp, nil
}

type SetPlaylistParams struct {
	SenderId string
	RoomId   string
	Playlist []Video
}

type SetPlaylistResponse struct {
	Playlist []Video
}

// SetPlaylist replaces the room's playlist wholesale and broadcasts the new
// playlist to the whole room.
func (s *service) SetPlaylist(ctx context.Context, params *SetPlaylistParams) (SetPlaylistResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomId := s.resolveRoomId(params.SenderId, params.RoomId)
	if !s.policy.MayMutatePlaylist(params.SenderId, roomId) {
		return SetPlaylistResponse{}, ErrPermissionDenied
	}

	playlist := s.roomRepo.SetPlaylist(&repository.SetPlaylistParams{
		RoomId:   roomId,
		Playlist: playlistToRepo(params.Playlist),
	})

	resp := SetPlaylistResponse{Playlist: playlistFromRepo(playlist)}
	s.broadcast(ctx, roomId, nil, &Message{Type: "playlist-updated", Payload: resp.Playlist})

	return resp, nil
}
