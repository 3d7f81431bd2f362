package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/pkg/ctxlogger"
)

func (c *controller) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	connectionId, err := c.roomService.Connect(r.Context(), conn)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to register connection", "error", err)
		conn.Close()
		return
	}

	ctx := context.WithValue(r.Context(), connectionIdCtxKey, connectionId)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("connection_id", connectionId))
	c.logger.InfoContext(ctx, "connection established")

	if err := c.wsMux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "connection closed", "error", err)
	}

	// the read loop ended, treat it as a disconnect intent
	if err := c.roomService.Disconnect(context.WithoutCancel(ctx), conn); err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect", "error", err)
	}
	conn.Close()
}

type JoinRoomInput struct {
	RoomId string `json:"room_id"`
	AsHost bool   `json:"as_host"`
}

func (c *controller) handleJoinRoom(ctx context.Context, conn *websocket.Conn, input JoinRoomInput) error {
	resp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
		RoomId:   input.RoomId,
		AsHost:   input.AsHost,
	})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	c.logger.InfoContext(ctx, "joined room", "room_id", resp.RoomId, "as_host", input.AsHost)
	return nil
}

type AddVideoInput struct {
	RoomId string     `json:"room_id"`
	Video  room.Video `json:"video"`
}

func (c *controller) handleAddVideo(ctx context.Context, conn *websocket.Conn, input AddVideoInput) error {
	if validationErrors, ok := c.validate.Validate(input.Video); !ok {
		c.logger.InfoContext(ctx, "invalid add-video payload", "errors", validationErrors)
		return nil
	}

	_, err := c.roomService.AddVideo(ctx, &room.AddVideoParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
		RoomId:   input.RoomId,
		Video:    input.Video,
	})
	if err != nil {
		if errors.Is(err, room.ErrPlaylistLimitReached) {
			c.logger.InfoContext(ctx, "playlist limit reached", "room_id", input.RoomId)
			return nil
		}
		return fmt.Errorf("failed to add video: %w", err)
	}

	return nil
}

type UpdatePlaylistInput struct {
	RoomId   string       `json:"room_id"`
	Playlist []room.Video `json:"playlist"`
}

func (c *controller) handleUpdatePlaylist(ctx context.Context, conn *websocket.Conn, input UpdatePlaylistInput) error {
	_, err := c.roomService.SetPlaylist(ctx, &room.SetPlaylistParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
		RoomId:   input.RoomId,
		Playlist: input.Playlist,
	})
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	return nil
}

type PlayVideoInput struct {
	RoomId    string `json:"room_id"`
	Index     int    `json:"index" validate:"min=0"`
	IsPlaying bool   `json:"is_playing"`
}

func (c *controller) handlePlayVideo(ctx context.Context, conn *websocket.Conn, input PlayVideoInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.logger.InfoContext(ctx, "invalid play-video payload", "errors", validationErrors)
		return nil
	}

	_, err := c.roomService.PlayVideo(ctx, &room.PlayVideoParams{
		SenderId:  c.getConnectionIdFromCtx(ctx),
		RoomId:    input.RoomId,
		Index:     input.Index,
		IsPlaying: input.IsPlaying,
	})
	if err != nil {
		return c.dropUnauthorized(ctx, err, "failed to play video")
	}

	return nil
}

type PauseVideoInput struct {
	RoomId string `json:"room_id"`
}

func (c *controller) handlePauseVideo(ctx context.Context, conn *websocket.Conn, input PauseVideoInput) error {
	err := c.roomService.PauseVideo(ctx, &room.PauseVideoParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
		RoomId:   input.RoomId,
	})
	if err != nil {
		return c.dropUnauthorized(ctx, err, "failed to pause video")
	}

	return nil
}

type PlaybackTimeUpdateInput struct {
	RoomId string  `json:"room_id"`
	Time   float64 `json:"time" validate:"min=0"`
}

func (c *controller) handlePlaybackTimeUpdate(ctx context.Context, conn *websocket.Conn, input PlaybackTimeUpdateInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.logger.InfoContext(ctx, "invalid playback-time-update payload", "errors", validationErrors)
		return nil
	}

	err := c.roomService.UpdatePlaybackTime(ctx, &room.UpdatePlaybackTimeParams{
		SenderId: c.getConnectionIdFromCtx(ctx),
		RoomId:   input.RoomId,
		Time:     input.Time,
	})
	if err != nil {
		return c.dropUnauthorized(ctx, err, "failed to update playback time")
	}

	return nil
}

// dropUnauthorized swallows permission errors: an unauthorized playback
// mutation is dropped without a response on the wire.
func (c *controller) dropUnauthorized(ctx context.Context, err error, msg string) error {
	if errors.Is(err, room.ErrPermissionDenied) {
		c.logger.DebugContext(ctx, "unauthorized mutation dropped")
		return nil
	}

	return fmt.Errorf("%s: %w", msg, err)
}
