package repository

// Video is one playlist entry, immutable once constructed. The redis tags
// are used by the metadata cache, the json tags by every broadcast payload.
type Video struct {
	Id           string `json:"id" redis:"id"`
	Title        string `json:"title" redis:"title"`
	Author       string `json:"author" redis:"author"`
	ThumbnailUrl string `json:"thumbnail_url" redis:"thumbnail_url"`
}

// RoomState is the authoritative playback state of one room. CurrentIndex
// is deliberately not validated against the playlist length: a wholesale
// playlist replacement may leave it pointing past the end, and clients
// treat it as advisory until the next play intent.
type RoomState struct {
	Playlist     []Video `json:"playlist"`
	CurrentIndex int     `json:"current_index"`
	IsPlaying    bool    `json:"is_playing"`
	CurrentTime  float64 `json:"current_time"`
}
