package session

import (
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/LiveCam/internal/core"
)

type negotiationOp int

const (
	opOffer negotiationOp = iota
	opAnswer
	opCandidate
)

func (op negotiationOp) String() string {
	switch op {
	case opOffer:
		return "create_offer"
	case opAnswer:
		return "apply_answer"
	case opCandidate:
		return "apply_candidate"
	default:
		return "unknown"
	}
}

type job struct {
	op        negotiationOp
	sdp       string
	candidate webrtc.ICECandidateInit
}

// negotiator runs the blocking transport negotiation calls of one session
// in submission order and reports completions through the marshal.
type negotiator struct {
	gen       uint64
	transport core.MediaTransport
	m         *marshal

	jobs     chan job
	quit     chan struct{}
	stopOnce sync.Once
}

const negotiationQueue = 32

func newNegotiator(gen uint64, t core.MediaTransport, m *marshal) *negotiator {
	return &negotiator{
		gen:       gen,
		transport: t,
		m:         m,
		jobs:      make(chan job, negotiationQueue),
		quit:      make(chan struct{}),
	}
}

func (n *negotiator) submit(j job) bool {
	select {
	case <-n.quit:
		return false
	default:
	}
	select {
	case n.jobs <- j:
		return true
	default:
		return false
	}
}

func (n *negotiator) run() {
	for {
		select {
		case <-n.quit:
			return
		case j := <-n.jobs:
			select {
			case <-n.quit:
				return
			default:
			}
			n.exec(j)
		}
	}
}

func (n *negotiator) exec(j job) {
	switch j.op {
	case opOffer:
		sdp, err := n.transport.CreateOffer()
		if err != nil {
			n.m.post(negotiationFailed{stamp: n.m.next(n.gen), op: j.op, err: err})
			return
		}
		n.m.post(offerReady{stamp: n.m.next(n.gen), sdp: sdp})
	case opAnswer:
		if err := n.transport.ApplyRemoteDescription(j.sdp); err != nil {
			n.m.post(negotiationFailed{stamp: n.m.next(n.gen), op: j.op, err: err})
			return
		}
		log.Debug().Str("module", "session").Uint64("gen", n.gen).Msg("remote answer applied")
	case opCandidate:
		if err := n.transport.ApplyRemoteCandidate(j.candidate); err != nil {
			n.m.post(negotiationFailed{stamp: n.m.next(n.gen), op: j.op, err: err})
		}
	}
}

func (n *negotiator) stop() {
	n.stopOnce.Do(func() { close(n.quit) })
}
