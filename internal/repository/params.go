package repository

type AppendVideoParams struct {
	RoomId string
	Video  Video
}

type SetPlaylistParams struct {
	RoomId   string
	Playlist []Video
}

type SetPlaybackParams struct {
	RoomId    string
	Index     int
	IsPlaying bool
}

type SetTimeParams struct {
	RoomId string
	Time   float64
}

type SetVideoParams struct {
	VideoId      string
	Title        string
	Author       string
	ThumbnailUrl string
}
