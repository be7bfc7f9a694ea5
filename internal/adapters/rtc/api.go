package rtc

import (
	"fmt"
	"strings"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"

	"github.com/dkeye/LiveCam/internal/config"
	"github.com/dkeye/LiveCam/internal/domain"
)

const (
	videoOrientationURI = "urn:3gpp:video-orientation"
	videoClockRate      = 90000
	streamID            = "stream0"
)

// NewAPI builds a pion API with default codecs and interceptors, the video
// orientation header extension and pion logs routed into zerolog.
func NewAPI(includeLoopback bool) (*webrtc.API, error) {
	mediaEngine := &webrtc.MediaEngine{}
	if err := mediaEngine.RegisterDefaultCodecs(); err != nil {
		return nil, err
	}
	if err := mediaEngine.RegisterHeaderExtension(
		webrtc.RTPHeaderExtensionCapability{URI: videoOrientationURI},
		webrtc.RTPCodecTypeVideo,
	); err != nil {
		return nil, err
	}

	registry := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(mediaEngine, registry); err != nil {
		return nil, err
	}

	settings := webrtc.SettingEngine{
		LoggerFactory: zerologFactory{Level: zerolog.WarnLevel},
	}
	settings.SetIncludeLoopbackCandidate(includeLoopback)

	return webrtc.NewAPI(
		webrtc.WithMediaEngine(mediaEngine),
		webrtc.WithInterceptorRegistry(registry),
		webrtc.WithSettingEngine(settings),
	), nil
}

// Configuration maps configured ICE servers onto a bundled, rtcp-muxed peer configuration.
func Configuration(servers []config.ICEServer) webrtc.Configuration {
	iceServers := make([]webrtc.ICEServer, 0, len(servers))
	for _, s := range servers {
		srv := webrtc.ICEServer{URLs: s.URLs}
		if s.Username != "" {
			srv.Username = s.Username
			srv.Credential = s.Credential
			srv.CredentialType = webrtc.ICECredentialTypePassword
		}
		iceServers = append(iceServers, srv)
	}
	return webrtc.Configuration{
		ICEServers:    iceServers,
		BundlePolicy:  webrtc.BundlePolicyMaxBundle,
		RTCPMuxPolicy: webrtc.RTCPMuxPolicyRequire,
	}
}

func videoCapability(codec string) (webrtc.RTPCodecCapability, error) {
	switch strings.ToLower(codec) {
	case "", "vp8":
		return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: videoClockRate}, nil
	case "h264":
		return webrtc.RTPCodecCapability{
			MimeType:    webrtc.MimeTypeH264,
			ClockRate:   videoClockRate,
			SDPFmtpLine: "level-asymmetry-allowed=1;packetization-mode=1;profile-level-id=42e01f",
		}, nil
	default:
		return webrtc.RTPCodecCapability{}, fmt.Errorf("%w: unsupported video codec %q", domain.ErrConfiguration, codec)
	}
}

func audioCapability() webrtc.RTPCodecCapability {
	return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2}
}
