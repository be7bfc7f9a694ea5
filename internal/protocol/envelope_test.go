package protocol

import (
	"errors"
	"testing"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/LiveCam/internal/domain"
)

func TestToMessage(t *testing.T) {
	mid := "0"
	idx := uint16(0)
	cand := webrtc.ICECandidateInit{Candidate: "candidate:1 1 udp 1 10.0.0.1 5000 typ host", SDPMid: &mid, SDPMLineIndex: &idx}

	tests := []struct {
		name string
		raw  string
		want domain.SignalingMessage
	}{
		{"room created", `{"type":"room_created","room":"AB12"}`, domain.SignalingMessage{Kind: domain.MessageRoomCreated, RoomCode: "AB12"}},
		{"room joined", `{"type":"room_joined","room":"AB12"}`, domain.SignalingMessage{Kind: domain.MessageRoomJoined, RoomCode: "AB12"}},
		{"peer joined", `{"type":"peer_joined"}`, domain.SignalingMessage{Kind: domain.MessagePeerJoined}},
		{"offer", `{"type":"offer","sdp":"v=0"}`, domain.SignalingMessage{Kind: domain.MessageOffer, SDP: "v=0"}},
		{"answer", `{"type":"answer","sdp":"v=0"}`, domain.SignalingMessage{Kind: domain.MessageAnswer, SDP: "v=0"}},
		{"candidate", `{"type":"candidate","candidate":{"candidate":"candidate:1 1 udp 1 10.0.0.1 5000 typ host","sdpMid":"0","sdpMLineIndex":0}}`, domain.SignalingMessage{Kind: domain.MessageCandidate, Candidate: cand}},
		{"peer left", `{"type":"peer_left"}`, domain.SignalingMessage{Kind: domain.MessagePeerLeft}},
		{"error", `{"type":"error","message":"room is full"}`, domain.SignalingMessage{Kind: domain.MessageError, Text: "room is full"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			msg, err := ToMessage(env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestToMessageRejects(t *testing.T) {
	_, err := ToMessage(Envelope{Type: "whoami"})
	assert.True(t, errors.Is(err, ErrUnknownType))

	_, err = ToMessage(Envelope{Type: TypeCandidate})
	assert.Error(t, err)
}

func TestDecodeRejects(t *testing.T) {
	_, err := Decode([]byte(`{`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"sdp":"x"}`))
	assert.Error(t, err)
}

func TestCandidateEnvelopeCarriesInit(t *testing.T) {
	mid := "1"
	b, err := Encode(Candidate(webrtc.ICECandidateInit{Candidate: "c", SDPMid: &mid}))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"candidate"`)
	assert.Contains(t, string(b), `"sdpMid":"1"`)
	assert.NotContains(t, string(b), `"sdp":`)
}
