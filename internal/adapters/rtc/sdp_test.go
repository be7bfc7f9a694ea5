package rtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSDP = "v=0\r\n" +
	"o=- 0 0 IN IP4 127.0.0.1\r\n" +
	"s=-\r\n" +
	"t=0 0\r\n" +
	"m=video 9 UDP/TLS/RTP/SAVPF 96\r\n" +
	"c=IN IP4 0.0.0.0\r\n" +
	"a=sendonly\r\n" +
	"m=audio 9 UDP/TLS/RTP/SAVPF 111\r\n" +
	"c=IN IP4 0.0.0.0\r\n"

func TestMediaDirections(t *testing.T) {
	dirs, err := MediaDirections(sampleSDP)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"video": "sendonly", "audio": "sendrecv"}, dirs)
}

func TestMediaDirectionsInvalid(t *testing.T) {
	_, err := MediaDirections("garbage")
	assert.Error(t, err)
}
