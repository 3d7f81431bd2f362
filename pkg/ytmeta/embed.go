package ytmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func (r Resolver) getVideoWithEmbed(ctx context.Context, videoId string) (VideoData, error) {
	url := fmt.Sprintf("%s?url=https://www.youtube.com/watch?v=%s&format=json", r.oembedUrl, videoId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return VideoData{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return VideoData{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusNotFound:
			return VideoData{}, ErrVideoNotFound
		case http.StatusUnauthorized:
			return VideoData{}, ErrVideoNotEmbeddable
		default:
			return VideoData{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}

	var result struct {
		Title        string `json:"title"`
		AuthorName   string `json:"author_name"`
		ThumbnailUrl string `json:"thumbnail_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return VideoData{}, fmt.Errorf("failed to decode oembed response: %w", err)
	}

	return VideoData{
		Title:        result.Title,
		Author:       result.AuthorName,
		ThumbnailUrl: result.ThumbnailUrl,
	}, nil
}
