package signal

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dkeye/LiveCam/internal/app/rendezvous"
	"github.com/dkeye/LiveCam/internal/config"
	"github.com/dkeye/LiveCam/internal/protocol"
)

// RendezvousController serves the signaling websocket of the rendezvous server.
type RendezvousController struct {
	Hub     *rendezvous.Hub
	Limiter *rendezvous.RateLimiter
	cfg     config.SignalingConfig
}

func NewRendezvousController(hub *rendezvous.Hub, limiter *rendezvous.RateLimiter, cfg config.SignalingConfig) *RendezvousController {
	return &RendezvousController{Hub: hub, Limiter: limiter, cfg: withDefaults(cfg)}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and serves the socket until either side
// goes away. The peer leaves the hub on return.
func (ctl *RendezvousController) HandleSignal(ctx context.Context, c *gin.Context) {
	client := c.GetString("client_token")
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	id := rendezvous.PeerID(uuid.NewString())
	conn := newWsConn(ws, make(chan []byte, ctl.cfg.SendBuffer), ctl.cfg)
	ctl.Hub.Register(id, conn)
	log.Info().Str("module", "signal").Str("client", client).Str("peer", string(id)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return conn.writePump(gctx) })
	g.Go(func() error {
		return conn.readPump(func(data []byte) { ctl.handleSignal(id, client, conn, data) })
	})
	g.Go(func() error {
		<-gctx.Done()
		conn.Close()
		return nil
	})
	err = g.Wait()

	ctl.Hub.Leave(id)
	conn.Close()
	if err != nil && !errors.Is(err, context.Canceled) && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Warn().Err(err).Str("module", "signal").Str("peer", string(id)).Msg("connection ended")
		return
	}
	log.Info().Str("module", "signal").Str("peer", string(id)).Msg("connection closed")
}

func (ctl *RendezvousController) handleSignal(id rendezvous.PeerID, client string, conn *wsConn, data []byte) {
	env, err := protocol.Decode(data)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(conn, "bad_payload")
		return
	}

	switch env.Type {
	case protocol.TypePing:
		_ = conn.Send(protocol.Envelope{Type: protocol.TypePong})
	case protocol.TypeCreateRoom:
		if !ctl.Limiter.Allow(client) {
			log.Warn().Str("module", "signal").Str("client", client).Msg("room creation rate limited")
			ctl.sendError(conn, "too many rooms, try later")
			return
		}
		code, err := ctl.Hub.CreateRoom(id)
		if err != nil {
			ctl.sendError(conn, err.Error())
			return
		}
		_ = conn.Send(protocol.Envelope{Type: protocol.TypeRoomCreated, Room: code})
	case protocol.TypeJoinRoom:
		if err := ctl.Hub.JoinRoom(id, env.Room); err != nil {
			ctl.sendError(conn, err.Error())
			return
		}
		_ = conn.Send(protocol.Envelope{Type: protocol.TypeRoomJoined, Room: env.Room})
	case protocol.TypeOffer, protocol.TypeAnswer, protocol.TypeCandidate:
		if err := ctl.Hub.Relay(id, env); err != nil {
			ctl.sendError(conn, err.Error())
		}
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (ctl *RendezvousController) sendError(conn *wsConn, message string) {
	_ = conn.Send(protocol.Error(message))
}
