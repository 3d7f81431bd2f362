// Package ytmeta resolves a YouTube video url to its id, title, author and
// thumbnail. The primary source is the public oEmbed endpoint; videos that
// are not embeddable fall back to scraping the watch page.
package ytmeta

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoNotEmbeddable = errors.New("video is not embeddable")
)

type VideoData struct {
	Id           string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	ThumbnailUrl string `json:"thumbnail_url"`
}

type Config struct {
	// OembedUrl overrides the oEmbed endpoint, tests point it at a local server.
	OembedUrl string
	// WatchUrl is the base url the fallback page scrape fetches from.
	WatchUrl string
	Client   *http.Client
}

type Resolver struct {
	oembedUrl string
	watchUrl  string
	client    *http.Client
}

func NewResolver(cfg *Config) *Resolver {
	r := Resolver{
		oembedUrl: "https://www.youtube.com/oembed",
		watchUrl:  "https://youtu.be",
		client:    &http.Client{Timeout: 10 * time.Second},
	}
	if cfg != nil {
		if cfg.OembedUrl != "" {
			r.oembedUrl = cfg.OembedUrl
		}
		if cfg.WatchUrl != "" {
			r.watchUrl = cfg.WatchUrl
		}
		if cfg.Client != nil {
			r.client = cfg.Client
		}
	}

	return &r
}

// Resolve performs a single lookup attempt, retrying is left to the caller.
func (r Resolver) Resolve(ctx context.Context, videoUrl string) (VideoData, error) {
	videoId, err := ExtractVideoId(videoUrl)
	if err != nil {
		return VideoData{}, err
	}

	videoData, err := r.getVideoWithEmbed(ctx, videoId)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return VideoData{}, fmt.Errorf("failed to get video data with embed: %w", err)
		}

		videoData, err = r.getFromPage(ctx, videoId)
		if err != nil {
			return VideoData{}, fmt.Errorf("failed to get video data from page: %w", err)
		}
	}

	videoData.Id = videoId
	return videoData, nil
}
