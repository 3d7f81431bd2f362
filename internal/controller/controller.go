package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/internal/service/video"
	"github.com/watchparty/server/pkg/validator"
	"github.com/watchparty/server/pkg/wsrouter"
)

type iRoomService interface {
	Connect(ctx context.Context, conn *websocket.Conn) (string, error)
	JoinRoom(ctx context.Context, params *room.JoinRoomParams) (room.JoinRoomResponse, error)
	AddVideo(ctx context.Context, params *room.AddVideoParams) (room.AddVideoResponse, error)
	SetPlaylist(ctx context.Context, params *room.SetPlaylistParams) (room.SetPlaylistResponse, error)
	PlayVideo(ctx context.Context, params *room.PlayVideoParams) (room.PlayVideoResponse, error)
	PauseVideo(ctx context.Context, params *room.PauseVideoParams) error
	UpdatePlaybackTime(ctx context.Context, params *room.UpdatePlaybackTimeParams) error
	Disconnect(ctx context.Context, conn *websocket.Conn) error
}

type iVideoService interface {
	GetVideoInfo(ctx context.Context, params *video.GetVideoInfoParams) (video.GetVideoInfoResponse, error)
}

type controller struct {
	roomService  iRoomService
	videoService iVideoService
	sender       wsrouter.Sender
	upgrader     websocket.Upgrader
	validate     *validator.Validator
	logger       *slog.Logger
	wsMux        *wsrouter.WSRouter
}

func NewController(roomService iRoomService, videoService iVideoService, sender wsrouter.Sender, logger *slog.Logger) *controller {
	c := &controller{
		roomService:  roomService,
		videoService: videoService,
		sender:       sender,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
	c.wsMux = c.wsRouter()

	return c
}
