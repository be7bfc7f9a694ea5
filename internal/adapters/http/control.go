package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/LiveCam/internal/app/session"
	"github.com/dkeye/LiveCam/internal/config"
	"github.com/dkeye/LiveCam/internal/domain"
)

const maxFrameBytes = 4 << 20

// SessionControl is what the control API drives; *session.Orchestrator implements it.
type SessionControl interface {
	Start() error
	Stop()
	ToggleMute() bool
	PushVideoFrame(f domain.VideoFrame)
	Status() session.Status
	Watch(ctx context.Context) <-chan session.Status
}

// SetupControlRouter exposes the local streamer session to the surrounding app.
func SetupControlRouter(cfg *config.Config, ctl SessionControl) *gin.Engine {
	r := newEngine(cfg.Mode)

	api := r.Group("/api")
	api.GET("/session", func(c *gin.Context) {
		c.JSON(http.StatusOK, ctl.Status())
	})
	api.POST("/session/start", func(c *gin.Context) { handleStart(c, ctl) })
	api.POST("/session/stop", func(c *gin.Context) {
		ctl.Stop()
		c.JSON(http.StatusOK, ctl.Status())
	})
	api.POST("/session/mute", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"muted": ctl.ToggleMute()})
	})
	api.GET("/session/events", func(c *gin.Context) { handleEvents(c, ctl) })
	api.POST("/frames", func(c *gin.Context) { handleFrame(c, ctl) })

	log.Info().Str("module", "adapters.http").Msg("control router setup")
	return r
}

func handleStart(c *gin.Context, ctl SessionControl) {
	err := ctl.Start()
	switch {
	case err == nil:
		c.JSON(http.StatusOK, ctl.Status())
	case errors.Is(err, domain.ErrConfiguration):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func handleFrame(c *gin.Context, ctl SessionControl) {
	rotation, err := domain.ParseRotation(queryInt(c, "rotation", 0))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	durationMs := queryInt(c, "duration_ms", 0)
	if durationMs < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "negative duration"})
		return
	}
	keyframe, _ := strconv.ParseBool(c.DefaultQuery("keyframe", "false"))

	data, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxFrameBytes))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty frame"})
		return
	}

	ctl.PushVideoFrame(domain.VideoFrame{
		Data:     data,
		Duration: time.Duration(durationMs) * time.Millisecond,
		Rotation: rotation,
		Keyframe: keyframe,
	})
	c.Status(http.StatusAccepted)
}

// queryInt returns def for a missing key and -1 for garbage, which every
// caller rejects.
func queryInt(c *gin.Context, key string, def int) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}

func handleEvents(c *gin.Context, ctl SessionControl) {
	updates := ctl.Watch(c.Request.Context())
	c.Stream(func(io.Writer) bool {
		s, ok := <-updates
		if !ok {
			return false
		}
		c.SSEvent("status", s)
		return true
	})
}
