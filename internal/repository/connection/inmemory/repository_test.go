package inmemory

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchparty/server/internal/repository"
)

func TestAddAndLookup(t *testing.T) {
	r := NewRepo()
	conn := &websocket.Conn{}

	require.NoError(t, r.Add(conn, "c1"))
	assert.ErrorIs(t, r.Add(conn, "c2"), repository.ErrAlreadyExists)

	connectionId, err := r.GetConnectionId(conn)
	require.NoError(t, err)
	assert.Equal(t, "c1", connectionId)

	got, err := r.GetConn("c1")
	require.NoError(t, err)
	assert.Same(t, conn, got)
}

func TestJoinAndConnsByRoom(t *testing.T) {
	r := NewRepo()
	conn1, conn2 := &websocket.Conn{}, &websocket.Conn{}
	require.NoError(t, r.Add(conn1, "c1"))
	require.NoError(t, r.Add(conn2, "c2"))

	assert.ErrorIs(t, r.Join("ghost", "r1"), repository.ErrNotFound)

	require.NoError(t, r.Join("c1", "r1"))
	require.NoError(t, r.Join("c2", "r1"))
	assert.Len(t, r.ConnsByRoom("r1"), 2)

	roomId, err := r.RoomOf("c1")
	require.NoError(t, err)
	assert.Equal(t, "r1", roomId)

	// joining another room moves the connection
	require.NoError(t, r.Join("c2", "r2"))
	assert.Len(t, r.ConnsByRoom("r1"), 1)
	assert.Len(t, r.ConnsByRoom("r2"), 1)
}

func TestHostClaim(t *testing.T) {
	r := NewRepo()
	conn1, conn2 := &websocket.Conn{}, &websocket.Conn{}
	require.NoError(t, r.Add(conn1, "c1"))
	require.NoError(t, r.Add(conn2, "c2"))
	require.NoError(t, r.Join("c1", "r1"))
	require.NoError(t, r.Join("c2", "r1"))

	_, err := r.HostOf("r1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, r.SetHost("r1", "c1"))
	assert.ErrorIs(t, r.SetHost("r1", "c2"), repository.ErrAlreadyExists)

	hostId, err := r.HostOf("r1")
	require.NoError(t, err)
	assert.Equal(t, "c1", hostId, "current host must be retained")
}

func TestHostMustBeMember(t *testing.T) {
	r := NewRepo()
	conn1, conn2 := &websocket.Conn{}, &websocket.Conn{}
	require.NoError(t, r.Add(conn1, "c1"))
	require.NoError(t, r.Add(conn2, "c2"))
	require.NoError(t, r.Join("c1", "r1"))
	require.NoError(t, r.Join("c2", "r2"))

	// a connection cannot host a room it has not joined
	assert.ErrorIs(t, r.SetHost("r1", "c2"), repository.ErrNotFound)
	assert.ErrorIs(t, r.SetHost("r1", "unknown"), repository.ErrNotFound)

	_, err := r.HostOf("r1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, r.SetHost("r1", "c1"))
}

func TestRemoveClearsHost(t *testing.T) {
	r := NewRepo()
	conn := &websocket.Conn{}
	require.NoError(t, r.Add(conn, "c1"))
	require.NoError(t, r.Join("c1", "r1"))
	require.NoError(t, r.SetHost("r1", "c1"))

	require.NoError(t, r.Remove("c1"))

	_, err := r.HostOf("r1")
	assert.ErrorIs(t, err, repository.ErrNotFound, "host must be cleared, not reassigned")
	assert.Empty(t, r.ConnsByRoom("r1"))
	_, err = r.RoomOf("c1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// removing twice reports not found, callers treat it as a no-op
	assert.ErrorIs(t, r.Remove("c1"), repository.ErrNotFound)
}
