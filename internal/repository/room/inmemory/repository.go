// Package inmemory holds one RoomState per room id for the lifetime of the
// process. Rooms are created lazily on first access and only removed through
// RemoveRoom, which the synchronization core itself never calls.
package inmemory

import (
	"sync"

	"github.com/watchparty/server/internal/repository"
)

type repo struct {
	rooms map[string]*repository.RoomState
	mu    sync.RWMutex
}

func NewRepo() *repo {
	return &repo{rooms: make(map[string]*repository.RoomState)}
}

// getOrCreate must be called with the lock held.
func (r *repo) getOrCreate(roomId string) *repository.RoomState {
	state, ok := r.rooms[roomId]
	if !ok {
		state = &repository.RoomState{Playlist: make([]repository.Video, 0)}
		r.rooms[roomId] = state
	}

	return state
}

func snapshot(state *repository.RoomState) repository.RoomState {
	copied := *state
	copied.Playlist = make([]repository.Video, len(state.Playlist))
	copy(copied.Playlist, state.Playlist)
	return copied
}

func (r *repo) GetOrCreate(roomId string) repository.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return snapshot(r.getOrCreate(roomId))
}

func (r *repo) GetState(roomId string) (repository.RoomState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return repository.RoomState{}, repository.ErrNotFound
	}

	return snapshot(state), nil
}

func (r *repo) PlaylistLength(roomId string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.rooms[roomId]
	if !ok {
		return 0
	}

	return len(state.Playlist)
}

func (r *repo) AppendVideo(params *repository.AppendVideoParams) []repository.Video {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.getOrCreate(params.RoomId)
	state.Playlist = append(state.Playlist, params.Video)

	return snapshot(state).Playlist
}

func (r *repo) SetPlaylist(params *repository.SetPlaylistParams) []repository.Video {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.getOrCreate(params.RoomId)
	state.Playlist = make([]repository.Video, len(params.Playlist))
	copy(state.Playlist, params.Playlist)

	return snapshot(state).Playlist
}

func (r *repo) SetPlayback(params *repository.SetPlaybackParams) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.getOrCreate(params.RoomId)
	state.CurrentIndex = params.Index
	state.IsPlaying = params.IsPlaying
}

func (r *repo) SetPaused(roomId string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.getOrCreate(roomId).IsPlaying = false
}

func (r *repo) SetTime(params *repository.SetTimeParams) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.getOrCreate(params.RoomId).CurrentTime = params.Time
}

func (r *repo) RemoveRoom(roomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomId]; !ok {
		return repository.ErrNotFound
	}

	delete(r.rooms, roomId)
	return nil
}
