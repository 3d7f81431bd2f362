// Package redis caches resolved video metadata by video id so repeated
// lookups of the same video skip the outbound oEmbed call. Entries expire
// after the configured duration and the TTL is refreshed on every hit.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/watchparty/server/internal/repository"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{rc: rc, expireDuration: expireDuration}
}

func (r repo) getVideoKey(videoId string) string {
	return "video:" + videoId
}

func (r repo) SetVideo(ctx context.Context, params *repository.SetVideoParams) error {
	video := repository.Video{
		Id:           params.VideoId,
		Title:        params.Title,
		Author:       params.Author,
		ThumbnailUrl: params.ThumbnailUrl,
	}

	videoKey := r.getVideoKey(params.VideoId)
	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, videoKey, video)
	pipe.Expire(ctx, videoKey, r.expireDuration)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set video: %w", err)
	}

	return nil
}

func (r repo) GetVideo(ctx context.Context, videoId string) (repository.Video, error) {
	videoKey := r.getVideoKey(videoId)
	cmd := r.rc.HGetAll(ctx, videoKey)
	if err := cmd.Err(); err != nil {
		return repository.Video{}, fmt.Errorf("failed to get video: %w", err)
	}

	if len(cmd.Val()) == 0 {
		return repository.Video{}, repository.ErrNotFound
	}

	var video repository.Video
	if err := cmd.Scan(&video); err != nil {
		return repository.Video{}, fmt.Errorf("failed to scan video: %w", err)
	}

	r.rc.Expire(ctx, videoKey, r.expireDuration)

	return video, nil
}
