package ytmeta

import (
	"errors"
	"regexp"
)

var ErrInvalidVideoUrl = errors.New("invalid video url")

// Matches the canonical watch url, youtu.be short links, /v/, /embed/ and
// /shorts/ paths. A video id is always exactly 11 characters.
var videoIdRe = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|embed|shorts)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

func ExtractVideoId(videoUrl string) (string, error) {
	match := videoIdRe.FindStringSubmatch(videoUrl)
	if match == nil {
		return "", ErrInvalidVideoUrl
	}

	return match[1], nil
}
