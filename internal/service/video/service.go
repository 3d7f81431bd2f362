// Package video resolves video urls to display metadata, consulting the
// cache by extracted video id before going to the upstream oEmbed endpoint.
// Resolution never touches room state, it runs outside the mutation path.
package video

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/watchparty/server/internal/repository"
	"github.com/watchparty/server/pkg/ytmeta"
)

type iResolver interface {
	Resolve(ctx context.Context, videoUrl string) (ytmeta.VideoData, error)
}

type iVideoCache interface {
	GetVideo(ctx context.Context, videoId string) (repository.Video, error)
	SetVideo(ctx context.Context, params *repository.SetVideoParams) error
}

type service struct {
	resolver iResolver
	cache    iVideoCache
	logger   *slog.Logger
}

// NewService wires the resolver with an optional cache, a nil cache
// disables caching entirely.
func NewService(resolver iResolver, cache iVideoCache, logger *slog.Logger) *service {
	return &service{resolver: resolver, cache: cache, logger: logger}
}

type GetVideoInfoParams struct {
	VideoUrl string
}

type GetVideoInfoResponse struct {
	Video repository.Video
}

func (s *service) GetVideoInfo(ctx context.Context, params *GetVideoInfoParams) (GetVideoInfoResponse, error) {
	videoId, err := ytmeta.ExtractVideoId(params.VideoUrl)
	if err != nil {
		return GetVideoInfoResponse{}, err
	}

	if s.cache != nil {
		cached, err := s.cache.GetVideo(ctx, videoId)
		if err == nil {
			return GetVideoInfoResponse{Video: cached}, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to read video cache", "video_id", videoId, "error", err)
		}
	}

	videoData, err := s.resolver.Resolve(ctx, params.VideoUrl)
	if err != nil {
		return GetVideoInfoResponse{}, fmt.Errorf("failed to resolve video: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetVideo(ctx, &repository.SetVideoParams{
			VideoId:      videoData.Id,
			Title:        videoData.Title,
			Author:       videoData.Author,
			ThumbnailUrl: videoData.ThumbnailUrl,
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to write video cache", "video_id", videoData.Id, "error", err)
		}
	}

	return GetVideoInfoResponse{Video: repository.Video{
		Id:           videoData.Id,
		Title:        videoData.Title,
		Author:       videoData.Author,
		ThumbnailUrl: videoData.ThumbnailUrl,
	}}, nil
}
