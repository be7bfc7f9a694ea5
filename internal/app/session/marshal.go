package session

import (
	"sync"
	"sync/atomic"

	"github.com/pion/webrtc/v4"

	"github.com/dkeye/LiveCam/internal/domain"
)

// marshal moves callbacks from arbitrary goroutines onto the control loop.
// The queue is unbounded so a callback fired from inside a teardown call
// made by the loop itself can never block.
type marshal struct {
	seq    atomic.Uint64
	closed atomic.Bool

	mu    sync.Mutex
	queue []event
	ready chan struct{}
}

func newMarshal() *marshal {
	return &marshal{ready: make(chan struct{}, 1)}
}

// next is taken when a callback is entered, before it is queued, so a
// callback that loses the race to the queue still carries its true order.
func (m *marshal) next(gen uint64) stamp {
	return stamp{gen: gen, seq: m.seq.Add(1)}
}

func (m *marshal) post(ev event) {
	if m.closed.Load() {
		return
	}
	m.mu.Lock()
	m.queue = append(m.queue, ev)
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
}

func (m *marshal) drain() []event {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.queue
	m.queue = nil
	return q
}

func (m *marshal) close() {
	m.closed.Store(true)
	m.drain()
}

// sink binds collaborator callbacks of one session generation to the marshal.
type sink struct {
	gen uint64
	m   *marshal
}

func (s sink) OnICEConnectionStateChange(state webrtc.ICEConnectionState) {
	s.m.post(iceStateChanged{stamp: s.m.next(s.gen), state: state})
}

func (s sink) OnICECandidate(c webrtc.ICECandidateInit) {
	s.m.post(localCandidate{stamp: s.m.next(s.gen), candidate: c})
}

func (s sink) OnConnected() {
	s.m.post(signalingConnected{stamp: s.m.next(s.gen)})
}

func (s sink) OnMessage(msg domain.SignalingMessage) {
	s.m.post(signalingMessage{stamp: s.m.next(s.gen), msg: msg})
}

func (s sink) OnDisconnected(reason string) {
	s.m.post(signalingDisconnected{stamp: s.m.next(s.gen), reason: reason})
}
