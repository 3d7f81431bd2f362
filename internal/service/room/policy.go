package room

import "fmt"

// Mode selects who may mutate shared room state: open rooms let anyone
// mutate everything, host-arbitrated rooms reserve playback mutations for
// the designated host while the playlist stays open to all.
type Mode string

const (
	ModeOpen           Mode = "open"
	ModeHostArbitrated Mode = "host-arbitrated"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOpen, ModeHostArbitrated:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown authority mode: %q", s)
	}
}

// policy is a pure function of the sender identity, the registry's host
// record and the configured mode. It is evaluated before a mutation is
// applied, never after.
type policy struct {
	mode     Mode
	connRepo iConnRepo
}

func (p policy) MayMutatePlaylist(connectionId, roomId string) bool {
	return true
}

func (p policy) MayMutatePlayback(connectionId, roomId string) bool {
	if p.mode == ModeOpen {
		return true
	}

	hostId, err := p.connRepo.HostOf(roomId)
	if err != nil {
		return false
	}

	return hostId == connectionId
}
