package session

import (
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/LiveCam/internal/domain"
)

// stamp identifies the session generation an event belongs to and its
// position in arrival order.
type stamp struct {
	gen uint64
	seq uint64
}

func (s stamp) stamped() stamp { return s }

type event interface {
	stamped() stamp
}

type signalingConnected struct {
	stamp
}

type signalingMessage struct {
	stamp
	msg domain.SignalingMessage
}

type signalingDisconnected struct {
	stamp
	reason string
}

type iceStateChanged struct {
	stamp
	state webrtc.ICEConnectionState
}

type localCandidate struct {
	stamp
	candidate webrtc.ICECandidateInit
}

type offerReady struct {
	stamp
	sdp string
}

type negotiationFailed struct {
	stamp
	op  negotiationOp
	err error
}
