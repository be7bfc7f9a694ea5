package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/LiveCam/internal/adapters/signal"
	"github.com/dkeye/LiveCam/internal/app/rendezvous"
	"github.com/dkeye/LiveCam/internal/config"
)

const clientTokenKey = "client_token"

// ClientTokenMiddleware gives every browser or device a stable uuid kept in
// the cookie session.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		token, _ := sess.Get(clientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			sess.Set(clientTokenKey, token)
			if err := sess.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("session save failed")
			}
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

func newEngine(mode string) *gin.Engine {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	return r
}

// SetupRendezvousRouter serves the signaling websocket and room diagnostics.
func SetupRendezvousRouter(ctx context.Context, cfg *config.Config, hub *rendezvous.Hub) *gin.Engine {
	r := newEngine(cfg.Mode)

	store := cookie.NewStore([]byte(cfg.Rendezvous.Secret))
	r.Use(sessions.Sessions("LiveCamSessions", store))
	r.Use(ClientTokenMiddleware())

	limiter := rendezvous.NewRateLimiter(cfg.Rendezvous.CreateLimit, cfg.Rendezvous.CreateInterval)
	ctrl := signal.NewRendezvousController(hub, limiter, cfg.Signaling)

	api := r.Group("/api")
	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString(clientTokenKey)).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": hub.Rooms()})
	})

	log.Info().Str("module", "adapters.http").Msg("rendezvous router setup")
	return r
}
