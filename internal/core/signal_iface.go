package core

import (
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/LiveCam/internal/domain"
)

// SignalingChannel abstracts one always-on connection to the signaling endpoint.
// Sends are fire-and-forget; delivery failure surfaces only as OnDisconnected.
type SignalingChannel interface {
	Connect(endpoint string)
	Disconnect()
	CreateRoom()
	SendOffer(sdp string)
	SendCandidate(c webrtc.ICECandidateInit)
}

type SignalingEvents interface {
	OnConnected()
	OnMessage(msg domain.SignalingMessage)
	OnDisconnected(reason string)
}

type SignalingFactory func(events SignalingEvents) SignalingChannel
