package rtc

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/LiveCam/internal/domain"
)

const defaultFrameDuration = time.Second / 30

// videoSource feeds the outbound video track from frames pushed by the camera producer.
type videoSource struct {
	track      *webrtc.TrackLocalStaticRTP
	sender     *webrtc.RTPSender
	packetizer rtp.Packetizer
	frames     chan domain.VideoFrame

	enabled          atomic.Bool
	written          atomic.Uint64
	dropped          atomic.Uint64
	keyframeRequests atomic.Uint64
}

func newVideoSource(track *webrtc.TrackLocalStaticRTP, sender *webrtc.RTPSender, mime string, mtu, buffer int) *videoSource {
	var payloader rtp.Payloader = &codecs.VP8Payloader{}
	if strings.EqualFold(mime, webrtc.MimeTypeH264) {
		payloader = &codecs.H264Payloader{}
	}
	if buffer <= 0 {
		buffer = 1
	}
	v := &videoSource{
		track:  track,
		sender: sender,
		// SSRC and payload type are rewritten per binding by the track.
		packetizer: rtp.NewPacketizer(uint16(mtu), 0, 0, payloader, rtp.NewRandomSequencer(), videoClockRate),
		frames:     make(chan domain.VideoFrame, buffer),
	}
	v.enabled.Store(true)
	return v
}

func (v *videoSource) push(f domain.VideoFrame) {
	if !v.enabled.Load() {
		v.dropped.Add(1)
		return
	}
	select {
	case v.frames <- f:
	default:
		v.dropped.Add(1)
	}
}

func (v *videoSource) disable() { v.enabled.Store(false) }

func (v *videoSource) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-v.frames:
			if !v.enabled.Load() {
				v.dropped.Add(1)
				continue
			}
			if err := v.write(f); err != nil {
				if errors.Is(err, io.ErrClosedPipe) {
					return
				}
				log.Warn().Err(err).Str("module", "webrtc").Msg("video write failed")
			}
		}
	}
}

func (v *videoSource) write(f domain.VideoFrame) error {
	d := f.Duration
	if d <= 0 {
		d = defaultFrameDuration
	}
	pkts := v.packetizer.Packetize(f.Data, uint32(d.Seconds()*videoClockRate))
	if len(pkts) == 0 {
		return nil
	}
	if id := v.orientationExtensionID(); id != 0 {
		// CVO byte: 0 0 0 0 C F R1 R0, rotation in quarter turns.
		if err := pkts[len(pkts)-1].Header.SetExtension(id, []byte{byte(f.Rotation / 90)}); err != nil {
			return err
		}
	}
	for _, p := range pkts {
		if err := v.track.WriteRTP(p); err != nil {
			return err
		}
	}
	v.written.Add(1)
	return nil
}

func (v *videoSource) orientationExtensionID() uint8 {
	for _, ext := range v.sender.GetParameters().HeaderExtensions {
		if ext.URI == videoOrientationURI {
			return uint8(ext.ID)
		}
	}
	return 0
}
