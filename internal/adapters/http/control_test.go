package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/LiveCam/internal/app/session"
	"github.com/dkeye/LiveCam/internal/config"
	"github.com/dkeye/LiveCam/internal/domain"
)

type fakeControl struct {
	mu       sync.Mutex
	startErr error
	status   session.Status
	muted    bool
	stops    int
	frames   []domain.VideoFrame
}

func (f *fakeControl) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.status.Active = true
	f.status.State = domain.Connecting
	return nil
}

func (f *fakeControl) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.status = session.Status{State: domain.Disconnected}
}

func (f *fakeControl) ToggleMute() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.muted = !f.muted
	return f.muted
}

func (f *fakeControl) PushVideoFrame(fr domain.VideoFrame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
}

func (f *fakeControl) Status() session.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeControl) Watch(ctx context.Context) <-chan session.Status {
	ch := make(chan session.Status, 2)
	ch <- session.Status{State: domain.Disconnected}
	ch <- session.Status{Active: true, State: domain.WaitingForPeer, RoomCode: "AB12"}
	close(ch)
	return ch
}

func testRouter(ctl SessionControl) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Mode = "test"
	return SetupControlRouter(cfg, ctl)
}

func do(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	r.ServeHTTP(w, req)
	return w
}

func TestSessionLifecycleEndpoints(t *testing.T) {
	ctl := &fakeControl{status: session.Status{State: domain.Disconnected}}
	r := testRouter(ctl)

	w := do(r, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"active":false,"state":{"kind":"disconnected"},"muted":false,"frames_forwarded":0,"frames_dropped":0}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/session/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var s map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, true, s["active"])

	w = do(r, http.MethodPost, "/api/session/stop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ctl.stops)
}

func TestStartErrors(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("%w: signaling endpoint is not set", domain.ErrConfiguration): http.StatusBadRequest,
		domain.ErrClosed:             http.StatusServiceUnavailable,
		fmt.Errorf("engine exploded"): http.StatusInternalServerError,
	}
	for err, code := range cases {
		r := testRouter(&fakeControl{startErr: err})
		w := do(r, http.MethodPost, "/api/session/start", nil)
		assert.Equal(t, code, w.Code, err.Error())
		assert.Contains(t, w.Body.String(), err.Error())
	}
}

func TestMuteEndpoint(t *testing.T) {
	r := testRouter(&fakeControl{})
	w := do(r, http.MethodPost, "/api/session/mute", nil)
	assert.JSONEq(t, `{"muted":true}`, w.Body.String())
	w = do(r, http.MethodPost, "/api/session/mute", nil)
	assert.JSONEq(t, `{"muted":false}`, w.Body.String())
}

func TestFrameEndpoint(t *testing.T) {
	ctl := &fakeControl{}
	r := testRouter(ctl)

	w := do(r, http.MethodPost, "/api/frames?rotation=90&duration_ms=40&keyframe=1", []byte{0x9d, 0x01, 0x2a})
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, ctl.frames, 1)
	assert.Equal(t, domain.VideoFrame{
		Data:     []byte{0x9d, 0x01, 0x2a},
		Duration: 40 * time.Millisecond,
		Rotation: domain.Rotation90,
		Keyframe: true,
	}, ctl.frames[0])

	w = do(r, http.MethodPost, "/api/frames", []byte{1})
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, domain.Rotation0, ctl.frames[1].Rotation)
	assert.False(t, ctl.frames[1].Keyframe)
}

func TestFrameEndpointRejects(t *testing.T) {
	ctl := &fakeControl{}
	r := testRouter(ctl)
	for _, target := range []string{
		"/api/frames?rotation=45",
		"/api/frames?rotation=abc",
		"/api/frames?duration_ms=-5",
	} {
		w := do(r, http.MethodPost, target, []byte{1})
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
	w := do(r, http.MethodPost, "/api/frames", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, ctl.frames)
}

func TestEventsStream(t *testing.T) {
	srv := httptest.NewServer(testRouter(&fakeControl{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/session/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	var events, data []string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			events = append(events, strings.TrimSpace(strings.TrimPrefix(line, "event:")))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(line, "data:"))
		}
	}
	assert.Equal(t, []string{"status", "status"}, events)
	require.Len(t, data, 2)
	assert.Contains(t, data[1], `"room_code":"AB12"`)
}
