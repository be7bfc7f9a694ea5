package rtc

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/rs/zerolog/log"
)

const opusFrameDuration = 20 * time.Millisecond

// opusSilence is a single 20ms Opus DTX frame.
var opusSilence = []byte{0xf8, 0xff, 0xfe}

// AudioSource yields encoded Opus samples from the local microphone pipeline.
type AudioSource interface {
	ReadSample(ctx context.Context) (media.Sample, error)
}

type audioTrack struct {
	track   *webrtc.TrackLocalStaticSample
	src     AudioSource
	enabled atomic.Bool
}

func newAudioTrack(track *webrtc.TrackLocalStaticSample, src AudioSource) *audioTrack {
	a := &audioTrack{track: track, src: src}
	a.enabled.Store(true)
	return a
}

func (a *audioTrack) setEnabled(enabled bool) { a.enabled.Store(enabled) }

func (a *audioTrack) run(ctx context.Context) {
	if a.src == nil {
		a.runSilence(ctx)
		return
	}
	for {
		sample, err := a.src.ReadSample(ctx)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, io.EOF) {
				log.Warn().Err(err).Str("module", "webrtc").Msg("audio source stopped")
			}
			return
		}
		// Muted audio keeps the capture cadence, output is suppressed.
		if !a.enabled.Load() {
			continue
		}
		if err := a.track.WriteSample(sample); err != nil && errors.Is(err, io.ErrClosedPipe) {
			return
		}
	}
}

func (a *audioTrack) runSilence(ctx context.Context) {
	ticker := time.NewTicker(opusFrameDuration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.enabled.Load() {
				continue
			}
			if err := a.track.WriteSample(media.Sample{Data: opusSilence, Duration: opusFrameDuration}); err != nil && errors.Is(err, io.ErrClosedPipe) {
				return
			}
		}
	}
}
