package room

import "github.com/watchparty/server/internal/repository"

type Video struct {
	Id           string `json:"id" validate:"required,len=11"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	ThumbnailUrl string `json:"thumbnail_url"`
}

type State struct {
	Playlist     []Video `json:"playlist"`
	CurrentIndex int     `json:"current_index"`
	IsPlaying    bool    `json:"is_playing"`
	CurrentTime  float64 `json:"current_time"`
}

// Message is one outbound event on the realtime channel.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func videoToRepo(v Video) repository.Video {
	return repository.Video{
		Id:           v.Id,
		Title:        v.Title,
		Author:       v.Author,
		ThumbnailUrl: v.ThumbnailUrl,
	}
}

func videoFromRepo(v repository.Video) Video {
	return Video{
		Id:           v.Id,
		Title:        v.Title,
		Author:       v.Author,
		ThumbnailUrl: v.ThumbnailUrl,
	}
}

func playlistToRepo(playlist []Video) []repository.Video {
	out := make([]repository.Video, len(playlist))
	for i, v := range playlist {
		out[i] = videoToRepo(v)
	}
	return out
}

func playlistFromRepo(playlist []repository.Video) []Video {
	out := make([]Video, len(playlist))
	for i, v := range playlist {
		out[i] = videoFromRepo(v)
	}
	return out
}

func stateFromRepo(s repository.RoomState) State {
	return State{
		Playlist:     playlistFromRepo(s.Playlist),
		CurrentIndex: s.CurrentIndex,
		IsPlaying:    s.IsPlaying,
		CurrentTime:  s.CurrentTime,
	}
}
