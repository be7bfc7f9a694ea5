package core

import (
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/LiveCam/internal/domain"
)

//go:generate mockgen -destination=mocks/mock_core.go -package=mocks github.com/dkeye/LiveCam/internal/core MediaTransport,SignalingChannel

// MediaTransport owns one peer connection and its two local tracks.
// Negotiation calls are synchronous; callers run them off the control loop.
type MediaTransport interface {
	// Setup creates the peer connection and attaches both tracks. Called once.
	Setup() error
	// CreateOffer returns an offer that is already applied as the local description.
	CreateOffer() (string, error)
	ApplyRemoteDescription(sdp string) error
	ApplyRemoteCandidate(c webrtc.ICECandidateInit) error
	// PushFrame never blocks; a full or closed source drops the frame.
	PushFrame(f domain.VideoFrame)
	SetMuted(muted bool)
	// Close disables both tracks before closing the peer connection.
	Close() error
}

// TransportEvents receives the only transport callbacks a session reacts to.
// Implementations must tolerate calls from any goroutine.
type TransportEvents interface {
	OnICEConnectionStateChange(state webrtc.ICEConnectionState)
	OnICECandidate(c webrtc.ICECandidateInit)
}

type TransportFactory func(events TransportEvents) (MediaTransport, error)
