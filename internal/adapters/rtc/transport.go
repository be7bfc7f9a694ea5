package rtc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/LiveCam/internal/config"
	"github.com/dkeye/LiveCam/internal/core"
	"github.com/dkeye/LiveCam/internal/domain"
)

var errNotSetUp = errors.New("transport not set up")

type Options struct {
	ICEServers  []config.ICEServer
	VideoCodec  string
	FrameBuffer int
	MTU         int
	// IncludeLoopback gathers 127.0.0.1 host candidates, for single-host setups.
	IncludeLoopback bool
	// Audio is optional; without it the audio track carries Opus silence.
	Audio AudioSource
	// OnKeyframeRequest is called when the viewer sends PLI or FIR.
	OnKeyframeRequest func()
}

func OptionsFromConfig(cfg config.WebRTCConfig) Options {
	return Options{
		ICEServers:      cfg.ICEServers,
		VideoCodec:      cfg.VideoCodec,
		FrameBuffer:     cfg.FrameBuffer,
		MTU:             cfg.MTU,
		IncludeLoopback: cfg.IncludeLoopback,
	}
}

// Stats are diagnostic counters of the local tracks.
type Stats struct {
	FramesWritten    uint64
	FramesDropped    uint64
	KeyframeRequests uint64
	RemoteTracks     uint64
}

// Transport is the pion implementation of core.MediaTransport.
type Transport struct {
	opts   Options
	events core.TransportEvents

	pc      *webrtc.PeerConnection
	senders []*webrtc.RTPSender
	video   *videoSource
	audio *audioTrack

	remoteTracks atomic.Uint64

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func NewTransport(opts Options, events core.TransportEvents) *Transport {
	if opts.MTU <= 0 {
		opts.MTU = 1200
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Transport{opts: opts, events: events, ctx: ctx, cancel: cancel}
}

func Factory(opts Options) core.TransportFactory {
	return func(events core.TransportEvents) (core.MediaTransport, error) {
		return NewTransport(opts, events), nil
	}
}

func (t *Transport) Setup() error {
	if t.pc != nil {
		return errors.New("transport already set up")
	}
	videoCap, err := videoCapability(t.opts.VideoCodec)
	if err != nil {
		return err
	}

	api, err := NewAPI(t.opts.IncludeLoopback)
	if err != nil {
		return fmt.Errorf("%w: webrtc api: %w", domain.ErrTransport, err)
	}
	pc, err := api.NewPeerConnection(Configuration(t.opts.ICEServers))
	if err != nil {
		return fmt.Errorf("%w: new peer connection: %w", domain.ErrTransport, err)
	}
	t.bindCallbacks(pc)

	if err := t.addTracks(pc, videoCap); err != nil {
		_ = pc.Close()
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	t.pc = pc

	go t.video.run(t.ctx)
	go t.audio.run(t.ctx)

	log.Info().Str("module", "webrtc").Str("video_codec", videoCap.MimeType).Msg("peer connection ready")
	return nil
}

func (t *Transport) addTracks(pc *webrtc.PeerConnection, videoCap webrtc.RTPCodecCapability) error {
	videoTrack, err := webrtc.NewTrackLocalStaticRTP(videoCap, "video0", streamID)
	if err != nil {
		return fmt.Errorf("video track: %w", err)
	}
	// Video flows only outward.
	videoTr, err := pc.AddTransceiverFromTrack(videoTrack, webrtc.RTPTransceiverInit{
		Direction: webrtc.RTPTransceiverDirectionSendonly,
	})
	if err != nil {
		return fmt.Errorf("add video transceiver: %w", err)
	}

	audioTrack, err := webrtc.NewTrackLocalStaticSample(audioCapability(), "audio0", streamID)
	if err != nil {
		return fmt.Errorf("audio track: %w", err)
	}
	audioTr, err := pc.AddTransceiverFromTrack(audioTrack, webrtc.RTPTransceiverInit{
		Direction: webrtc.RTPTransceiverDirectionSendrecv,
	})
	if err != nil {
		return fmt.Errorf("add audio transceiver: %w", err)
	}

	t.video = newVideoSource(videoTrack, videoTr.Sender(), videoCap.MimeType, t.opts.MTU, t.opts.FrameBuffer)
	t.audio = newAudioTrack(audioTrack, t.opts.Audio)

	t.senders = []*webrtc.RTPSender{videoTr.Sender(), audioTr.Sender()}
	go t.readRTCP(videoTr.Sender(), true)
	go t.readRTCP(audioTr.Sender(), false)
	return nil
}

func (t *Transport) bindCallbacks(pc *webrtc.PeerConnection) {
	pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		log.Info().Str("module", "webrtc").Str("ice_state", s.String()).Msg("ICE state")
		t.events.OnICEConnectionStateChange(s)
	})

	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			log.Debug().Str("module", "webrtc").Msg("ICE gathering complete")
			return
		}
		t.events.OnICECandidate(c.ToJSON())
	})

	pc.OnSignalingStateChange(func(s webrtc.SignalingState) {
		log.Debug().Str("module", "webrtc").Str("signaling_state", s.String()).Msg("signaling state")
	})
	pc.OnICEGatheringStateChange(func(s webrtc.ICEGatheringState) {
		log.Debug().Str("module", "webrtc").Str("gathering_state", s.String()).Msg("ICE gathering state")
	})
	pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().Str("module", "webrtc").Str("peer_connection_state", s.String()).Msg("Peer state")
	})
	pc.OnNegotiationNeeded(func() {
		log.Debug().Str("module", "webrtc").Msg("negotiation needed")
	})
	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		log.Debug().Str("module", "webrtc").Str("label", dc.Label()).Msg("data channel opened by peer")
	})
	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		t.remoteTracks.Add(1)
		log.Info().
			Str("module", "webrtc").
			Str("kind", track.Kind().String()).
			Str("track_id", track.ID()).
			Str("stream_id", track.StreamID()).
			Msg("remote track added")
		go drain(track)
	})
}

// drain consumes a remote track so its buffers never stall the receiver.
func drain(track *webrtc.TrackRemote) {
	buf := make([]byte, 1500)
	for {
		if _, _, err := track.Read(buf); err != nil {
			log.Debug().Str("module", "webrtc").Str("track_id", track.ID()).Msg("remote track ended")
			return
		}
	}
}

func (t *Transport) readRTCP(sender *webrtc.RTPSender, video bool) {
	for {
		pkts, _, err := sender.ReadRTCP()
		if err != nil {
			return
		}
		if !video {
			continue
		}
		for _, p := range pkts {
			switch p.(type) {
			case *rtcp.PictureLossIndication, *rtcp.FullIntraRequest:
				t.video.keyframeRequests.Add(1)
				if t.opts.OnKeyframeRequest != nil {
					t.opts.OnKeyframeRequest()
				}
			}
		}
	}
}

func (t *Transport) CreateOffer() (string, error) {
	if t.pc == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrNegotiation, errNotSetUp)
	}
	offer, err := t.pc.CreateOffer(nil)
	if err != nil {
		return "", fmt.Errorf("%w: create offer: %w", domain.ErrNegotiation, err)
	}
	// The offer leaves only once it is the local description.
	if err := t.pc.SetLocalDescription(offer); err != nil {
		return "", fmt.Errorf("%w: set local description: %w", domain.ErrNegotiation, err)
	}
	describeSDP("local-offer", offer.SDP)
	return offer.SDP, nil
}

func (t *Transport) ApplyRemoteDescription(sdp string) error {
	if t.pc == nil {
		return fmt.Errorf("%w: %w", domain.ErrNegotiation, errNotSetUp)
	}
	if err := t.pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeAnswer,
		SDP:  sdp,
	}); err != nil {
		return fmt.Errorf("%w: set remote description: %w", domain.ErrNegotiation, err)
	}
	describeSDP("remote-answer", sdp)
	return nil
}

func (t *Transport) ApplyRemoteCandidate(c webrtc.ICECandidateInit) error {
	if t.pc == nil {
		return fmt.Errorf("%w: %w", domain.ErrNegotiation, errNotSetUp)
	}
	if err := t.pc.AddICECandidate(c); err != nil {
		return fmt.Errorf("%w: add ice candidate: %w", domain.ErrNegotiation, err)
	}
	return nil
}

func (t *Transport) PushFrame(f domain.VideoFrame) {
	if t.video == nil {
		return
	}
	t.video.push(f)
}

func (t *Transport) SetMuted(muted bool) {
	if t.audio == nil || t.ctx.Err() != nil {
		return
	}
	t.audio.setEnabled(!muted)
}

func (t *Transport) Stats() Stats {
	s := Stats{RemoteTracks: t.remoteTracks.Load()}
	if t.video != nil {
		s.FramesWritten = t.video.written.Load()
		s.FramesDropped = t.video.dropped.Load()
		s.KeyframeRequests = t.video.keyframeRequests.Load()
	}
	return s
}

// Close disables both tracks before the peer connection goes away so no
// frame is emitted once teardown begins. Sender and peer connection errors
// are joined.
func (t *Transport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		var errs []error
		if t.video != nil {
			t.video.disable()
		}
		if t.audio != nil {
			t.audio.setEnabled(false)
		}
		t.cancel()
		for _, sender := range t.senders {
			if e := sender.Stop(); e != nil {
				errs = append(errs, fmt.Errorf("stop sender: %w", e))
			}
		}
		if t.pc != nil {
			if e := t.pc.Close(); e != nil {
				errs = append(errs, fmt.Errorf("close peer connection: %w", e))
			}
		}
		err = errors.Join(errs...)
		s := t.Stats()
		log.Info().
			Str("module", "webrtc").
			Uint64("frames_written", s.FramesWritten).
			Uint64("frames_dropped", s.FramesDropped).
			Uint64("keyframe_requests", s.KeyframeRequests).
			Msg("Peer connection closed")
	})
	return err
}
