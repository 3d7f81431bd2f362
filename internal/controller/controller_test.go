package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conninmemory "github.com/watchparty/server/internal/repository/connection/inmemory"
	roominmemory "github.com/watchparty/server/internal/repository/room/inmemory"
	"github.com/watchparty/server/internal/repository/wssender"
	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/internal/service/video"
)

type fakeVideoService struct {
	resp video.GetVideoInfoResponse
	err  error
}

func (f *fakeVideoService) GetVideoInfo(ctx context.Context, params *video.GetVideoInfoParams) (video.GetVideoInfoResponse, error) {
	return f.resp, f.err
}

func newTestServer(t *testing.T, videoService iVideoService) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sender := wssender.NewRepo()
	roomService := room.NewService(
		roominmemory.NewRepo(),
		conninmemory.NewRepo(),
		sender,
		&room.Config{
			AuthorityMode: room.ModeOpen,
			DefaultRoomId: "default-room",
			PlaylistLimit: 25,
		},
		logger,
	)

	server := httptest.NewServer(NewController(roomService, videoService, sender, logger).GetMux())
	t.Cleanup(server.Close)

	return server
}

func TestGetVideoInfo(t *testing.T) {
	t.Run("missing url param", func(t *testing.T) {
		server := newTestServer(t, &fakeVideoService{})

		resp, err := http.Get(server.URL + "/video-info")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("resolution failure", func(t *testing.T) {
		server := newTestServer(t, &fakeVideoService{err: errors.New("oembed unreachable")})

		resp, err := http.Get(server.URL + "/video-info?url=https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("success", func(t *testing.T) {
		fake := &fakeVideoService{}
		fake.resp.Video.Id = "dQw4w9WgXcQ"
		fake.resp.Video.Title = "some title"
		fake.resp.Video.Author = "some author"
		server := newTestServer(t, fake)

		resp, err := http.Get(server.URL + "/video-info?url=https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Id     string `json:"id"`
			Title  string `json:"title"`
			Author string `json:"author"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "dQw4w9WgXcQ", body.Id)
		assert.Equal(t, "some title", body.Title)
		assert.Equal(t, "some author", body.Author)
	})
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, &fakeVideoService{})

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	wsUrl := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsUrl, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))

	return msg
}

func sendMessage(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()

	rawPayload, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(wsMessage{Type: msgType, Payload: rawPayload}))
}

func TestWS(t *testing.T) {
	server := newTestServer(t, &fakeVideoService{})

	viewer1 := dialWS(t, server)
	viewer2 := dialWS(t, server)

	// both join the same room and get the snapshot before anything else
	sendMessage(t, viewer1, "join-room", map[string]any{"room_id": "movie-night"})
	init1 := readMessage(t, viewer1)
	require.Equal(t, "init", init1.Type)

	var state room.State
	require.NoError(t, json.Unmarshal(init1.Payload, &state))
	assert.Empty(t, state.Playlist)
	assert.False(t, state.IsPlaying)

	sendMessage(t, viewer2, "join-room", map[string]any{"room_id": "movie-night"})
	init2 := readMessage(t, viewer2)
	require.Equal(t, "init", init2.Type)

	// adding a video reaches the whole room, the sender included
	sendMessage(t, viewer1, "add-video", map[string]any{
		"room_id": "movie-night",
		"video": map[string]any{
			"id":    "dQw4w9WgXcQ",
			"title": "some title",
		},
	})

	for _, conn := range []*websocket.Conn{viewer1, viewer2} {
		msg := readMessage(t, conn)
		require.Equal(t, "playlist-updated", msg.Type)

		var playlist []room.Video
		require.NoError(t, json.Unmarshal(msg.Payload, &playlist))
		require.Len(t, playlist, 1)
		assert.Equal(t, "dQw4w9WgXcQ", playlist[0].Id)
	}

	// a time update goes to everyone but its sender: viewer1 must see the
	// pause that follows it as its very next frame
	sendMessage(t, viewer1, "playback-time-update", map[string]any{"room_id": "movie-night", "time": 42.5})

	timeMsg := readMessage(t, viewer2)
	require.Equal(t, "playback-time-update", timeMsg.Type)

	var playbackTime float64
	require.NoError(t, json.Unmarshal(timeMsg.Payload, &playbackTime))
	assert.Equal(t, 42.5, playbackTime)

	sendMessage(t, viewer1, "pause-video", map[string]any{"room_id": "movie-night"})
	assert.Equal(t, "pause-video", readMessage(t, viewer1).Type)
	assert.Equal(t, "pause-video", readMessage(t, viewer2).Type)
}

func TestWSPlayVideo(t *testing.T) {
	server := newTestServer(t, &fakeVideoService{})

	viewer := dialWS(t, server)
	sendMessage(t, viewer, "join-room", map[string]any{})
	require.Equal(t, "init", readMessage(t, viewer).Type)

	sendMessage(t, viewer, "play-video", map[string]any{"index": 2, "is_playing": true})

	msg := readMessage(t, viewer)
	require.Equal(t, "play-video", msg.Type)

	var resp room.PlayVideoResponse
	require.NoError(t, json.Unmarshal(msg.Payload, &resp))
	assert.Equal(t, 2, resp.CurrentIndex)
	assert.True(t, resp.IsPlaying)
}

func TestWSUnknownMessageType(t *testing.T) {
	server := newTestServer(t, &fakeVideoService{})

	viewer := dialWS(t, server)
	sendMessage(t, viewer, "no-such-intent", map[string]any{})

	viewer.SetReadDeadline(time.Now().Add(2 * time.Second))
	var errFrame map[string]string
	require.NoError(t, viewer.ReadJSON(&errFrame))
	assert.Contains(t, fmt.Sprint(errFrame), "unknown message type")
}
