package rtc

import (
	"github.com/pion/sdp/v3"
	"github.com/rs/zerolog/log"
)

var directionAttrs = []string{"sendrecv", "sendonly", "recvonly", "inactive"}

// MediaDirections reports the direction attribute of every m-line, keyed by media kind.
func MediaDirections(raw string) (map[string]string, error) {
	var sd sdp.SessionDescription
	if err := sd.Unmarshal([]byte(raw)); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(sd.MediaDescriptions))
	for _, md := range sd.MediaDescriptions {
		dir := "sendrecv"
		for _, attr := range directionAttrs {
			if _, ok := md.Attribute(attr); ok {
				dir = attr
				break
			}
		}
		out[md.MediaName.Media] = dir
	}
	return out, nil
}

func describeSDP(label, raw string) {
	dirs, err := MediaDirections(raw)
	if err != nil {
		log.Warn().Err(err).Str("module", "webrtc").Str("sdp", label).Msg("sdp not parseable")
		return
	}
	ev := log.Debug().Str("module", "webrtc").Str("sdp", label)
	for kind, dir := range dirs {
		ev = ev.Str(kind, dir)
	}
	ev.Msg("session description")
}
