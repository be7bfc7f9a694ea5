// Package rendezvous pairs one camera with one viewer under a short room
// code and relays negotiation messages between them.
package rendezvous

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/LiveCam/internal/protocol"
)

var (
	ErrAlreadyInRoom = errors.New("already in a room")
	ErrRoomNotFound  = errors.New("room does not exist")
	ErrRoomFull      = errors.New("room is full")
	ErrNoPeer        = errors.New("no peer in room")
	ErrNotInRoom     = errors.New("not in a room")
	ErrUnknownPeer   = errors.New("unknown peer")
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// PeerID identifies one signaling connection.
type PeerID string

// Peer is the outbound side of a signaling connection. Send must not block.
type Peer interface {
	Send(env protocol.Envelope) error
}

type room struct {
	code    string
	creator PeerID
	viewer  PeerID
}

func (r *room) other(id PeerID) PeerID {
	if id == r.creator {
		return r.viewer
	}
	return r.creator
}

func (r *room) members() int {
	if r.viewer == "" {
		return 1
	}
	return 2
}

type member struct {
	peer Peer
	room string
}

type RoomInfo struct {
	Code    string `json:"code"`
	Members int    `json:"members"`
}

type Hub struct {
	mu      sync.Mutex
	peers   map[PeerID]*member
	rooms   map[string]*room
	codeLen int
	newCode func(n int) (string, error)
}

func NewHub(codeLength int) *Hub {
	if codeLength <= 0 {
		codeLength = 4
	}
	return &Hub{
		peers:   make(map[PeerID]*member),
		rooms:   make(map[string]*room),
		codeLen: codeLength,
		newCode: randomCode,
	}
}

func randomCode(n int) (string, error) {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[v.Int64()]
	}
	return string(b), nil
}

func (h *Hub) Register(id PeerID, p Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[id] = &member{peer: p}
	log.Info().Str("module", "rendezvous").Str("peer", string(id)).Msg("peer registered")
}

// CreateRoom allocates a fresh code and makes id its creator.
func (h *Hub) CreateRoom(id PeerID) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.peers[id]
	if !ok {
		return "", ErrUnknownPeer
	}
	if m.room != "" {
		return "", ErrAlreadyInRoom
	}

	var code string
	for attempt := 0; ; attempt++ {
		c, err := h.newCode(h.codeLen)
		if err != nil {
			return "", err
		}
		if _, taken := h.rooms[c]; !taken {
			code = c
			break
		}
		if attempt > 64 {
			return "", errors.New("no free room code")
		}
	}

	h.rooms[code] = &room{code: code, creator: id}
	m.room = code
	log.Info().Str("module", "rendezvous").Str("peer", string(id)).Str("room", code).Msg("room created")
	return code, nil
}

// JoinRoom makes id the viewer of code and tells the creator.
func (h *Hub) JoinRoom(id PeerID, code string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.peers[id]
	if !ok {
		return ErrUnknownPeer
	}
	if m.room != "" {
		return ErrAlreadyInRoom
	}
	r, ok := h.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	if r.viewer != "" {
		return ErrRoomFull
	}

	r.viewer = id
	m.room = code
	h.sendLocked(r.creator, protocol.Envelope{Type: protocol.TypePeerJoined})
	log.Info().Str("module", "rendezvous").Str("peer", string(id)).Str("room", code).Msg("viewer joined")
	return nil
}

// Relay forwards env unchanged to the other member of the sender's room.
func (h *Hub) Relay(from PeerID, env protocol.Envelope) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.peers[from]
	if !ok {
		return ErrUnknownPeer
	}
	r, ok := h.rooms[m.room]
	if !ok {
		return ErrNotInRoom
	}
	to := r.other(from)
	if to == "" {
		return ErrNoPeer
	}
	return h.sendLocked(to, env)
}

// Leave unregisters id. A leaving viewer frees its seat; a leaving creator
// closes the room. The remaining member is told with peer_left.
func (h *Hub) Leave(id PeerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.peers[id]
	if !ok {
		return
	}
	delete(h.peers, id)

	r, ok := h.rooms[m.room]
	if !ok {
		return
	}
	other := r.other(id)
	if id == r.creator {
		delete(h.rooms, r.code)
		if om, ok := h.peers[other]; ok {
			om.room = ""
		}
		log.Info().Str("module", "rendezvous").Str("room", r.code).Msg("room closed")
	} else {
		r.viewer = ""
	}
	if other != "" {
		h.sendLocked(other, protocol.Envelope{Type: protocol.TypePeerLeft})
	}
	log.Info().Str("module", "rendezvous").Str("peer", string(id)).Str("room", r.code).Msg("peer left")
}

func (h *Hub) Rooms() []RoomInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]RoomInfo, 0, len(h.rooms))
	for code, r := range h.rooms {
		out = append(out, RoomInfo{Code: code, Members: r.members()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (h *Hub) sendLocked(to PeerID, env protocol.Envelope) error {
	m, ok := h.peers[to]
	if !ok {
		return ErrNoPeer
	}
	if err := m.peer.Send(env); err != nil {
		log.Warn().Err(err).Str("module", "rendezvous").Str("peer", string(to)).Str("type", env.Type).Msg("send failed")
		return err
	}
	return nil
}
