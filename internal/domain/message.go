package domain

import "github.com/pion/webrtc/v4"

type MessageKind int

const (
	MessageRoomCreated MessageKind = iota
	MessageRoomJoined
	MessagePeerJoined
	MessageOffer
	MessageAnswer
	MessageCandidate
	MessagePeerLeft
	MessageError
)

func (k MessageKind) String() string {
	switch k {
	case MessageRoomCreated:
		return "room_created"
	case MessageRoomJoined:
		return "room_joined"
	case MessagePeerJoined:
		return "peer_joined"
	case MessageOffer:
		return "offer"
	case MessageAnswer:
		return "answer"
	case MessageCandidate:
		return "candidate"
	case MessagePeerLeft:
		return "peer_left"
	case MessageError:
		return "error"
	default:
		return "unknown"
	}
}

// SignalingMessage is what the signaling channel delivers to a session.
// Only the field matching Kind is meaningful.
type SignalingMessage struct {
	Kind      MessageKind
	RoomCode  string
	SDP       string
	Candidate webrtc.ICECandidateInit
	Text      string
}
