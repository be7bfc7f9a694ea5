package rendezvous

import (
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/LiveCam/internal/protocol"
)

type fakePeer struct {
	mu   sync.Mutex
	got  []protocol.Envelope
	fail error
}

func (p *fakePeer) Send(env protocol.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.got = append(p.got, env)
	return nil
}

func (p *fakePeer) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.got))
	for _, e := range p.got {
		out = append(out, e.Type)
	}
	return out
}

func pair(t *testing.T) (*Hub, *fakePeer, *fakePeer, string) {
	t.Helper()
	h := NewHub(4)
	cam, viewer := &fakePeer{}, &fakePeer{}
	h.Register("cam", cam)
	h.Register("viewer", viewer)
	code, err := h.CreateRoom("cam")
	require.NoError(t, err)
	require.NoError(t, h.JoinRoom("viewer", code))
	return h, cam, viewer, code
}

func TestCreateRoomCode(t *testing.T) {
	h := NewHub(4)
	h.Register("a", &fakePeer{})
	code, err := h.CreateRoom("a")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{4}$`), code)

	_, err = h.CreateRoom("a")
	assert.ErrorIs(t, err, ErrAlreadyInRoom)

	_, err = h.CreateRoom("ghost")
	assert.ErrorIs(t, err, ErrUnknownPeer)
}

func TestCreateRoomSkipsTakenCodes(t *testing.T) {
	h := NewHub(4)
	codes := []string{"AAAA", "AAAA", "BBBB"}
	h.newCode = func(int) (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}
	h.Register("a", &fakePeer{})
	h.Register("b", &fakePeer{})

	first, err := h.CreateRoom("a")
	require.NoError(t, err)
	second, err := h.CreateRoom("b")
	require.NoError(t, err)
	assert.Equal(t, "AAAA", first)
	assert.Equal(t, "BBBB", second)
}

func TestJoinRoom(t *testing.T) {
	h, cam, _, code := pair(t)
	assert.Equal(t, []string{protocol.TypePeerJoined}, cam.types())

	h.Register("late", &fakePeer{})
	assert.ErrorIs(t, h.JoinRoom("late", code), ErrRoomFull)
	assert.ErrorIs(t, h.JoinRoom("late", "ZZZZ"), ErrRoomNotFound)
	assert.ErrorIs(t, h.JoinRoom("viewer", code), ErrAlreadyInRoom)
}

func TestRelay(t *testing.T) {
	h, cam, viewer, _ := pair(t)

	require.NoError(t, h.Relay("cam", protocol.Offer("o")))
	require.NoError(t, h.Relay("viewer", protocol.Answer("a")))

	assert.Equal(t, []string{protocol.TypeOffer}, viewer.types())
	assert.Equal(t, []string{protocol.TypePeerJoined, protocol.TypeAnswer}, cam.types())
	assert.Equal(t, "a", cam.got[1].SDP)
}

func TestRelayWithoutPeer(t *testing.T) {
	h := NewHub(4)
	h.Register("cam", &fakePeer{})
	assert.ErrorIs(t, h.Relay("cam", protocol.Offer("o")), ErrNotInRoom)

	_, err := h.CreateRoom("cam")
	require.NoError(t, err)
	assert.ErrorIs(t, h.Relay("cam", protocol.Offer("o")), ErrNoPeer)
}

func TestRelaySendFailure(t *testing.T) {
	h, _, viewer, _ := pair(t)
	viewer.fail = errors.New("backpressure")
	assert.Error(t, h.Relay("cam", protocol.Offer("o")))
}

func TestViewerLeaves(t *testing.T) {
	h, cam, _, code := pair(t)
	h.Leave("viewer")

	assert.Equal(t, []string{protocol.TypePeerJoined, protocol.TypePeerLeft}, cam.types())
	assert.Equal(t, []RoomInfo{{Code: code, Members: 1}}, h.Rooms())

	h.Register("next", &fakePeer{})
	assert.NoError(t, h.JoinRoom("next", code))
}

func TestCreatorLeaves(t *testing.T) {
	h, _, viewer, code := pair(t)
	h.Leave("cam")
	h.Leave("cam")

	assert.Equal(t, []string{protocol.TypePeerLeft}, viewer.types())
	assert.Empty(t, h.Rooms())

	// The viewer is free to create its own room.
	own, err := h.CreateRoom("viewer")
	require.NoError(t, err)
	assert.NotEqual(t, "", own)
	h.Register("x", &fakePeer{})
	assert.ErrorIs(t, h.JoinRoom("x", code), ErrRoomNotFound)
}

func TestRooms(t *testing.T) {
	h := NewHub(6)
	for _, id := range []PeerID{"a", "b"} {
		h.Register(id, &fakePeer{})
		_, err := h.CreateRoom(id)
		require.NoError(t, err)
	}
	rooms := h.Rooms()
	require.Len(t, rooms, 2)
	for _, r := range rooms {
		assert.Len(t, r.Code, 6)
		assert.Equal(t, 1, r.Members)
	}
}
