package session

import (
	"fmt"
	"net/url"

	"github.com/pion/stun/v3"

	"github.com/dkeye/LiveCam/internal/config"
	"github.com/dkeye/LiveCam/internal/domain"
)

// Validate checks the configuration surface a session needs before any
// network activity: a ws/wss signaling endpoint and at least one STUN/TURN server.
func Validate(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: missing configuration", domain.ErrConfiguration)
	}
	if cfg.Signaling.URL == "" {
		return fmt.Errorf("%w: signaling endpoint is not set", domain.ErrConfiguration)
	}
	u, err := url.Parse(cfg.Signaling.URL)
	if err != nil {
		return fmt.Errorf("%w: signaling endpoint: %w", domain.ErrConfiguration, err)
	}
	if (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return fmt.Errorf("%w: signaling endpoint %q is not a ws:// or wss:// url", domain.ErrConfiguration, cfg.Signaling.URL)
	}

	if len(cfg.WebRTC.ICEServers) == 0 {
		return fmt.Errorf("%w: no ICE servers configured", domain.ErrConfiguration)
	}
	for i, s := range cfg.WebRTC.ICEServers {
		if len(s.URLs) == 0 {
			return fmt.Errorf("%w: ice server %d has no urls", domain.ErrConfiguration, i)
		}
		for _, raw := range s.URLs {
			uri, err := stun.ParseURI(raw)
			if err != nil {
				return fmt.Errorf("%w: ice server %q: %w", domain.ErrConfiguration, raw, err)
			}
			isTURN := uri.Scheme == stun.SchemeTypeTURN || uri.Scheme == stun.SchemeTypeTURNS
			if isTURN && (s.Username == "" || s.Credential == "") {
				return fmt.Errorf("%w: turn server %q needs username and credential", domain.ErrConfiguration, raw)
			}
		}
	}

	switch cfg.WebRTC.VideoCodec {
	case "", "vp8", "h264":
	default:
		return fmt.Errorf("%w: unsupported video codec %q", domain.ErrConfiguration, cfg.WebRTC.VideoCodec)
	}
	return nil
}
