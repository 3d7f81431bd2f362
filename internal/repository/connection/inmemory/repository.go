// Package inmemory tracks live websocket connections: which connection id
// belongs to which conn, which room each connection joined and which
// connection, if any, holds the host role for a room.
package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/watchparty/server/internal/repository"
)

type repo struct {
	conns   map[*websocket.Conn]string
	ids     map[string]*websocket.Conn
	rooms   map[string]string
	members map[string]map[string]struct{}
	hosts   map[string]string
	mu      sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		conns:   make(map[*websocket.Conn]string),
		ids:     make(map[string]*websocket.Conn),
		rooms:   make(map[string]string),
		members: make(map[string]map[string]struct{}),
		hosts:   make(map[string]string),
	}
}

func (r *repo) Add(conn *websocket.Conn, connectionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conns[conn] != "" || r.ids[connectionId] != nil {
		return repository.ErrAlreadyExists
	}

	r.conns[conn] = connectionId
	r.ids[connectionId] = conn
	return nil
}

// Join puts the connection into the room. A connection belongs to at most
// one room, joining another room moves it.
func (r *repo) Join(connectionId, roomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.ids[connectionId]; !ok {
		return repository.ErrNotFound
	}

	r.leave(connectionId)

	r.rooms[connectionId] = roomId
	if r.members[roomId] == nil {
		r.members[roomId] = make(map[string]struct{})
	}
	r.members[roomId][connectionId] = struct{}{}
	return nil
}

// leave must be called with the lock held. Clears room membership and the
// host role when the connection held it.
func (r *repo) leave(connectionId string) {
	roomId, ok := r.rooms[connectionId]
	if !ok {
		return
	}

	delete(r.rooms, connectionId)
	delete(r.members[roomId], connectionId)
	if len(r.members[roomId]) == 0 {
		delete(r.members, roomId)
	}
	if r.hosts[roomId] == connectionId {
		delete(r.hosts, roomId)
	}
}

func (r *repo) Remove(connectionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.ids[connectionId]
	if !ok {
		return repository.ErrNotFound
	}

	r.leave(connectionId)
	delete(r.ids, connectionId)
	delete(r.conns, conn)
	return nil
}

// SetHost designates the connection as the room's host, but only when the
// room has no host. An existing host is retained. The host must be a
// member of the room it claims.
func (r *repo) SetHost(roomId, connectionId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[roomId][connectionId]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.hosts[roomId]; ok {
		return repository.ErrAlreadyExists
	}

	r.hosts[roomId] = connectionId
	return nil
}

func (r *repo) HostOf(roomId string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hostId, ok := r.hosts[roomId]
	if !ok {
		return "", repository.ErrNotFound
	}

	return hostId, nil
}

func (r *repo) RoomOf(connectionId string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomId, ok := r.rooms[connectionId]
	if !ok {
		return "", repository.ErrNotFound
	}

	return roomId, nil
}

func (r *repo) GetConnectionId(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connectionId, ok := r.conns[conn]
	if !ok {
		return "", repository.ErrNotFound
	}

	return connectionId, nil
}

func (r *repo) GetConn(connectionId string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.ids[connectionId]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return conn, nil
}

func (r *repo) ConnsByRoom(roomId string) []*websocket.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*websocket.Conn, 0, len(r.members[roomId]))
	for connectionId := range r.members[roomId] {
		if conn, ok := r.ids[connectionId]; ok {
			conns = append(conns, conn)
		}
	}

	return conns
}
