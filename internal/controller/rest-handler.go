package controller

import (
	"net/http"

	"github.com/watchparty/server/internal/service/video"
	"github.com/watchparty/server/pkg/rest"
)

func (c *controller) getVideoInfo(w http.ResponseWriter, r *http.Request) {
	videoUrl := r.URL.Query().Get("url")
	if videoUrl == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "missing url param"})
		return
	}

	resp, err := c.videoService.GetVideoInfo(r.Context(), &video.GetVideoInfoParams{VideoUrl: videoUrl})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to get video info", "url", videoUrl, "error", err)
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "video not found"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, resp.Video)
}
