// Package room is the session synchronization core: it applies mutating
// intents to the authoritative room state under the authority policy and
// broadcasts the resulting deltas to every connection in the room.
package room

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/watchparty/server/internal/repository"
)

var (
	ErrPermissionDenied     = errors.New("permission denied")
	ErrPlaylistLimitReached = errors.New("playlist limit reached")
)

type iRoomRepo interface {
	GetOrCreate(roomId string) repository.RoomState
	GetState(roomId string) (repository.RoomState, error)
	PlaylistLength(roomId string) int
	AppendVideo(*repository.AppendVideoParams) []repository.Video
	SetPlaylist(*repository.SetPlaylistParams) []repository.Video
	SetPlayback(*repository.SetPlaybackParams)
	SetPaused(roomId string)
	SetTime(*repository.SetTimeParams)
	RemoveRoom(roomId string) error
}

type iConnRepo interface {
	Add(conn *websocket.Conn, connectionId string) error
	Join(connectionId, roomId string) error
	Remove(connectionId string) error
	SetHost(roomId, connectionId string) error
	HostOf(roomId string) (string, error)
	RoomOf(connectionId string) (string, error)
	GetConnectionId(conn *websocket.Conn) (string, error)
	GetConn(connectionId string) (*websocket.Conn, error)
	ConnsByRoom(roomId string) []*websocket.Conn
}

type iSender interface {
	Send(conn *websocket.Conn, msg any) error
	Forget(conn *websocket.Conn)
}

type Config struct {
	AuthorityMode Mode
	DefaultRoomId string
	PlaylistLimit int
}

type service struct {
	roomRepo iRoomRepo
	connRepo iConnRepo
	sender   iSender
	policy   policy
	logger   *slog.Logger

	defaultRoomId string
	playlistLimit int

	// mu serializes intents: every mutation and its broadcasts run to
	// completion before the next intent is applied, so all participants
	// observe broadcasts in application order.
	mu sync.Mutex
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, sender iSender, cfg *Config, logger *slog.Logger) *service {
	return &service{
		roomRepo:      roomRepo,
		connRepo:      connRepo,
		sender:        sender,
		policy:        policy{mode: cfg.AuthorityMode, connRepo: connRepo},
		logger:        logger,
		defaultRoomId: cfg.DefaultRoomId,
		playlistLimit: cfg.PlaylistLimit,
	}
}
