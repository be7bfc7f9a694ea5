package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/LiveCam/internal/config"
	"github.com/dkeye/LiveCam/internal/core"
	"github.com/dkeye/LiveCam/internal/domain"
)

// Status is an observable snapshot of the orchestrator.
type Status struct {
	Active          bool                   `json:"active"`
	State           domain.ConnectionState `json:"state"`
	RoomCode        string                 `json:"room_code,omitempty"`
	Muted           bool                   `json:"muted"`
	LastError       string                 `json:"last_error,omitempty"`
	FramesForwarded uint64                 `json:"frames_forwarded"`
	FramesDropped   uint64                 `json:"frames_dropped"`
}

// handle is the live session: the only owner of its transport and channel.
type handle struct {
	gen        uint64
	transport  core.MediaTransport
	signaling  core.SignalingChannel
	negotiator *negotiator
	lastICESeq uint64

	// Local candidates wait until the offer they belong to has been sent.
	offerSent bool
	pending   []webrtc.ICECandidateInit
}

// gate holds the transport frames are forwarded to while Connected.
type gate struct {
	transport core.MediaTransport
}

// Orchestrator owns at most one session and its connection state machine.
// All state is owned by the goroutine running Run; public methods hand
// work to it and never touch session fields directly.
type Orchestrator struct {
	cfg          *config.Config
	newTransport core.TransportFactory
	newSignaling core.SignalingFactory

	marshal *marshal
	cmds    chan func()
	done    chan struct{}

	// Owned by the control loop.
	gen               uint64
	cur               *handle
	state             domain.ConnectionState
	roomCode          string
	muted             bool
	lastError         string
	negotiationErrors int

	forward   atomic.Pointer[gate]
	forwarded atomic.Uint64
	dropped   atomic.Uint64
	snapshot  atomic.Pointer[Status]

	watchMu  sync.Mutex
	watchers map[chan Status]struct{}
}

func New(cfg *config.Config, transports core.TransportFactory, channels core.SignalingFactory) *Orchestrator {
	o := &Orchestrator{
		cfg:          cfg,
		newTransport: transports,
		newSignaling: channels,
		marshal:      newMarshal(),
		cmds:         make(chan func()),
		done:         make(chan struct{}),
		state:        domain.Disconnected,
		watchers:     make(map[chan Status]struct{}),
	}
	o.publish()
	return o
}

// Run is the control loop. It returns when ctx is done, after stopping
// any active session.
func (o *Orchestrator) Run(ctx context.Context) {
	defer close(o.done)
	log.Info().Str("module", "session").Msg("control loop started")

	for {
		select {
		case <-ctx.Done():
			o.stop()
			o.marshal.close()
			log.Info().Str("module", "session").Msg("control loop stopped")
			return
		case fn := <-o.cmds:
			fn()
		case <-o.marshal.ready:
			for _, ev := range o.marshal.drain() {
				o.dispatch(ev)
			}
		}
	}
}

// exec runs fn on the control loop and waits for it to finish.
func (o *Orchestrator) exec(fn func()) bool {
	ran := make(chan struct{})
	select {
	case o.cmds <- func() { fn(); close(ran) }:
		<-ran
		return true
	case <-o.done:
		return false
	}
}

// Start opens a new session. It is a no-op while one is active.
func (o *Orchestrator) Start() error {
	var err error
	if !o.exec(func() { err = o.start() }) {
		return domain.ErrClosed
	}
	return err
}

// Stop tears the session down. Safe in any state.
func (o *Orchestrator) Stop() {
	o.exec(o.stop)
}

// ToggleMute flips the mute flag and returns the new value.
func (o *Orchestrator) ToggleMute() bool {
	var muted bool
	o.exec(func() {
		o.muted = !o.muted
		muted = o.muted
		if o.cur != nil {
			o.cur.transport.SetMuted(o.muted)
		}
		log.Info().Str("module", "session").Bool("muted", o.muted).Msg("mute toggled")
		o.publish()
	})
	return muted
}

// PushVideoFrame forwards f to the transport only while the session is
// Connected. Frames are otherwise dropped, never queued.
func (o *Orchestrator) PushVideoFrame(f domain.VideoFrame) {
	g := o.forward.Load()
	if g == nil {
		o.dropped.Add(1)
		return
	}
	g.transport.PushFrame(f)
	o.forwarded.Add(1)
}

func (o *Orchestrator) Status() Status {
	s := *o.snapshot.Load()
	s.FramesForwarded = o.forwarded.Load()
	s.FramesDropped = o.dropped.Load()
	return s
}

// Watch streams a snapshot after every change until ctx is done. A slow
// reader only ever sees the latest snapshot.
func (o *Orchestrator) Watch(ctx context.Context) <-chan Status {
	ch := make(chan Status, 1)
	ch <- o.Status()

	o.watchMu.Lock()
	o.watchers[ch] = struct{}{}
	o.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		o.watchMu.Lock()
		delete(o.watchers, ch)
		close(ch)
		o.watchMu.Unlock()
	}()
	return ch
}

func (o *Orchestrator) publish() {
	s := &Status{
		Active:    o.cur != nil,
		State:     o.state,
		RoomCode:  o.roomCode,
		Muted:     o.muted,
		LastError: o.lastError,
	}
	o.snapshot.Store(s)

	snap := o.Status()
	o.watchMu.Lock()
	defer o.watchMu.Unlock()
	for ch := range o.watchers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (o *Orchestrator) logger() *zerolog.Logger {
	l := log.With().Str("module", "session").Uint64("gen", o.gen)
	if o.roomCode != "" {
		l = l.Str("room", o.roomCode)
	}
	logger := l.Logger()
	return &logger
}

func (o *Orchestrator) start() error {
	if o.cur != nil {
		o.logger().Debug().Msg("start ignored, session already active")
		return nil
	}
	if err := Validate(o.cfg); err != nil {
		log.Warn().Err(err).Str("module", "session").Msg("start rejected")
		return err
	}

	// Every attempt consumes a generation so a failed one cannot leak events into the next.
	o.gen++
	gen := o.gen
	events := sink{gen: gen, m: o.marshal}

	t, err := o.newTransport(events)
	if err != nil {
		return fmt.Errorf("%w: create transport: %w", domain.ErrTransport, err)
	}
	if err := t.Setup(); err != nil {
		_ = t.Close()
		log.Error().Err(err).Str("module", "session").Msg("transport setup failed")
		return err
	}
	t.SetMuted(o.muted)

	ch := o.newSignaling(events)
	n := newNegotiator(gen, t, o.marshal)
	go n.run()

	o.cur = &handle{gen: gen, transport: t, signaling: ch, negotiator: n}
	o.lastError = ""
	o.negotiationErrors = 0
	o.forwarded.Store(0)
	o.dropped.Store(0)
	o.setState(domain.Connecting)

	o.logger().Info().Str("endpoint", o.cfg.Signaling.URL).Msg("session started")
	ch.Connect(o.cfg.Signaling.URL)
	return nil
}

func (o *Orchestrator) stop() {
	o.forward.Store(nil)
	if h := o.cur; h != nil {
		o.cur = nil
		h.negotiator.stop()
		if err := h.transport.Close(); err != nil {
			o.logger().Warn().Err(err).Msg("transport close failed")
		}
		h.signaling.Disconnect()
		o.logger().Info().Int("negotiation_errors", o.negotiationErrors).Msg("session stopped")
	}
	o.roomCode = ""
	o.muted = false
	o.setState(domain.Disconnected)
}

func (o *Orchestrator) setState(s domain.ConnectionState) {
	if o.state != s {
		o.logger().Info().Str("from", o.state.String()).Str("to", s.String()).Msg("state changed")
	}
	o.state = s
	if o.cur != nil && s == domain.Connected {
		o.forward.Store(&gate{transport: o.cur.transport})
	} else {
		o.forward.Store(nil)
	}
	o.publish()
}

func (o *Orchestrator) dispatch(ev event) {
	h := o.cur
	if h == nil || ev.stamped().gen != h.gen {
		log.Debug().
			Str("module", "session").
			Uint64("event_gen", ev.stamped().gen).
			Str("event", fmt.Sprintf("%T", ev)).
			Msg("stale event dropped")
		return
	}

	switch e := ev.(type) {
	case signalingConnected:
		o.logger().Info().Msg("signaling connected, requesting room")
		h.signaling.CreateRoom()
	case signalingMessage:
		o.onMessage(h, e.msg)
	case signalingDisconnected:
		reason := e.reason
		if reason == "" {
			reason = "Unknown"
		}
		o.logger().Warn().Str("reason", reason).Msg("signaling disconnected")
		o.stop()
		o.lastError = "Signaling disconnected: " + reason
		o.publish()
	case iceStateChanged:
		if e.seq <= h.lastICESeq {
			o.logger().Debug().Str("ice_state", e.state.String()).Msg("out of order ICE state dropped")
			return
		}
		h.lastICESeq = e.seq
		o.onICEState(e.state)
	case localCandidate:
		if !h.offerSent {
			h.pending = append(h.pending, e.candidate)
			return
		}
		h.signaling.SendCandidate(e.candidate)
	case offerReady:
		o.logger().Info().Int("candidates", len(h.pending)).Msg("sending offer")
		h.signaling.SendOffer(e.sdp)
		h.offerSent = true
		for _, c := range h.pending {
			h.signaling.SendCandidate(c)
		}
		h.pending = nil
	case negotiationFailed:
		o.negotiationErrors++
		o.logger().Error().
			Err(e.err).
			Str("op", e.op.String()).
			Int("negotiation_errors", o.negotiationErrors).
			Msg("negotiation failed")
	}
}

func (o *Orchestrator) onMessage(h *handle, msg domain.SignalingMessage) {
	switch msg.Kind {
	case domain.MessageRoomCreated:
		o.roomCode = msg.RoomCode
		o.logger().Info().Msg("room created")
		o.setState(domain.WaitingForPeer)
	case domain.MessagePeerJoined:
		o.logger().Info().Msg("peer joined, creating offer")
		o.submit(h, job{op: opOffer})
	case domain.MessageAnswer:
		o.submit(h, job{op: opAnswer, sdp: msg.SDP})
	case domain.MessageCandidate:
		o.submit(h, job{op: opCandidate, candidate: msg.Candidate})
	case domain.MessagePeerLeft:
		o.logger().Info().Msg("peer left")
		o.setState(domain.WaitingForPeer)
	case domain.MessageError:
		o.logger().Warn().Str("text", msg.Text).Msg("signaling error")
		o.lastError = msg.Text
		o.publish()
	case domain.MessageRoomJoined, domain.MessageOffer:
		o.logger().Debug().Str("kind", msg.Kind.String()).Msg("ignored in offerer role")
	}
}

func (o *Orchestrator) submit(h *handle, j job) {
	if h.negotiator.submit(j) {
		return
	}
	o.negotiationErrors++
	o.logger().Error().
		Err(errors.New("negotiation queue full")).
		Str("op", j.op.String()).
		Msg("negotiation dropped")
}

func (o *Orchestrator) onICEState(s webrtc.ICEConnectionState) {
	switch s {
	case webrtc.ICEConnectionStateConnected, webrtc.ICEConnectionStateCompleted:
		o.setState(domain.Connected)
	case webrtc.ICEConnectionStateDisconnected:
		o.setState(domain.WaitingForPeer)
	case webrtc.ICEConnectionStateFailed:
		o.setState(domain.ErrorState("Connection failed"))
	case webrtc.ICEConnectionStateClosed:
		o.setState(domain.Disconnected)
	default:
		o.logger().Debug().Str("ice_state", s.String()).Msg("ICE state without transition")
	}
}
