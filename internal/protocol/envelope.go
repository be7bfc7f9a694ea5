// Package protocol is the JSON wire format spoken between streamers, viewers
// and the rendezvous server.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pion/webrtc/v4"

	"github.com/dkeye/LiveCam/internal/domain"
)

const (
	TypeCreateRoom  = "create_room"
	TypeJoinRoom    = "join_room"
	TypeRoomCreated = "room_created"
	TypeRoomJoined  = "room_joined"
	TypePeerJoined  = "peer_joined"
	TypePeerLeft    = "peer_left"
	TypeOffer       = "offer"
	TypeAnswer      = "answer"
	TypeCandidate   = "candidate"
	TypeError       = "error"
	TypePing        = "ping"
	TypePong        = "pong"
)

var ErrUnknownType = errors.New("unknown message type")

type Envelope struct {
	Type      string                   `json:"type"`
	Room      string                   `json:"room,omitempty"`
	SDP       string                   `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
	Message   string                   `json:"message,omitempty"`
}

func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("bad json: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, errors.New("missing type")
	}
	return env, nil
}

func Encode(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

// ToMessage maps a server-to-client envelope onto the signaling message a session consumes.
func ToMessage(env Envelope) (domain.SignalingMessage, error) {
	switch env.Type {
	case TypeRoomCreated:
		return domain.SignalingMessage{Kind: domain.MessageRoomCreated, RoomCode: env.Room}, nil
	case TypeRoomJoined:
		return domain.SignalingMessage{Kind: domain.MessageRoomJoined, RoomCode: env.Room}, nil
	case TypePeerJoined:
		return domain.SignalingMessage{Kind: domain.MessagePeerJoined}, nil
	case TypeOffer:
		return domain.SignalingMessage{Kind: domain.MessageOffer, SDP: env.SDP}, nil
	case TypeAnswer:
		return domain.SignalingMessage{Kind: domain.MessageAnswer, SDP: env.SDP}, nil
	case TypeCandidate:
		if env.Candidate == nil {
			return domain.SignalingMessage{}, errors.New("candidate message without candidate")
		}
		return domain.SignalingMessage{Kind: domain.MessageCandidate, Candidate: *env.Candidate}, nil
	case TypePeerLeft:
		return domain.SignalingMessage{Kind: domain.MessagePeerLeft}, nil
	case TypeError:
		return domain.SignalingMessage{Kind: domain.MessageError, Text: env.Message}, nil
	default:
		return domain.SignalingMessage{}, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func CreateRoom() Envelope { return Envelope{Type: TypeCreateRoom} }

func JoinRoom(code string) Envelope { return Envelope{Type: TypeJoinRoom, Room: code} }

func Offer(sdp string) Envelope { return Envelope{Type: TypeOffer, SDP: sdp} }

func Answer(sdp string) Envelope { return Envelope{Type: TypeAnswer, SDP: sdp} }

func Candidate(c webrtc.ICECandidateInit) Envelope {
	return Envelope{Type: TypeCandidate, Candidate: &c}
}

func Error(message string) Envelope { return Envelope{Type: TypeError, Message: message} }
