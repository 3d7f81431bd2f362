package controller

import (
	"github.com/watchparty/server/pkg/wsrouter"
)

func (c *controller) wsRouter() *wsrouter.WSRouter {
	mux := wsrouter.New(c.sender)

	mux.Use(c.wsRequestIdMw(), c.wsLoggingMw())

	// room
	wsrouter.Handle(mux, "join-room", c.handleJoinRoom)

	// playlist
	wsrouter.Handle(mux, "add-video", c.handleAddVideo)
	wsrouter.Handle(mux, "update-playlist", c.handleUpdatePlaylist)

	// player
	wsrouter.Handle(mux, "play-video", c.handlePlayVideo)
	wsrouter.Handle(mux, "pause-video", c.handlePauseVideo)
	wsrouter.Handle(mux, "playback-time-update", c.handlePlaybackTimeUpdate)

	return mux
}
