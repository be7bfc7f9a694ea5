// Package domain contains entity without logic, just meta-data
package domain

import "encoding/json"

type StateKind int

const (
	KindDisconnected StateKind = iota
	KindConnecting
	KindWaitingForPeer
	KindConnected
	KindError
)

func (k StateKind) String() string {
	switch k {
	case KindDisconnected:
		return "disconnected"
	case KindConnecting:
		return "connecting"
	case KindWaitingForPeer:
		return "waiting_for_peer"
	case KindConnected:
		return "connected"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// ConnectionState is the single externally visible state of a session.
// Message is only set for KindError.
type ConnectionState struct {
	Kind    StateKind
	Message string
}

var (
	Disconnected   = ConnectionState{Kind: KindDisconnected}
	Connecting     = ConnectionState{Kind: KindConnecting}
	WaitingForPeer = ConnectionState{Kind: KindWaitingForPeer}
	Connected      = ConnectionState{Kind: KindConnected}
)

func ErrorState(message string) ConnectionState {
	return ConnectionState{Kind: KindError, Message: message}
}

func (s ConnectionState) String() string {
	if s.Kind == KindError {
		return "error(" + s.Message + ")"
	}
	return s.Kind.String()
}

func (s ConnectionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		Message string `json:"message,omitempty"`
	}{
		Kind:    s.Kind.String(),
		Message: s.Message,
	})
}
