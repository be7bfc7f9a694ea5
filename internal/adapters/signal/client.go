package signal

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/dkeye/LiveCam/internal/config"
	"github.com/dkeye/LiveCam/internal/core"
	"github.com/dkeye/LiveCam/internal/protocol"
)

// Client is the websocket signaling channel of one streamer session.
// Sends queue up while the dial is in flight; overflow or a write failure
// tears the channel down and is reported through OnDisconnected only.
type Client struct {
	cfg    config.SignalingConfig
	events core.SignalingEvents
	dialer *websocket.Dialer

	send chan []byte

	mu       sync.Mutex
	started  bool
	stopped  bool
	cancel   context.CancelFunc
	failOnce sync.Once
	failure  chan string
}

func NewClient(cfg config.SignalingConfig, events core.SignalingEvents) *Client {
	cfg = withDefaults(cfg)
	return &Client{
		cfg:     cfg,
		events:  events,
		dialer:  websocket.DefaultDialer,
		send:    make(chan []byte, cfg.SendBuffer),
		failure: make(chan string, 1),
	}
}

func Factory(cfg config.SignalingConfig) core.SignalingFactory {
	return func(events core.SignalingEvents) core.SignalingChannel {
		return NewClient(cfg, events)
	}
}

func (c *Client) Connect(endpoint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.stopped {
		return
	}
	c.started = true
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx, endpoint)
}

// Disconnect closes the channel without reporting OnDisconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Client) CreateRoom() { c.enqueue(protocol.CreateRoom()) }

func (c *Client) SendOffer(sdp string) { c.enqueue(protocol.Offer(sdp)) }

func (c *Client) SendCandidate(cand webrtc.ICECandidateInit) { c.enqueue(protocol.Candidate(cand)) }

func (c *Client) enqueue(env protocol.Envelope) {
	b, err := protocol.Encode(env)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("type", env.Type).Msg("encode failed")
		return
	}
	select {
	case c.send <- b:
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("send queue full")
		c.fail("send queue full")
	}
}

// fail records the first teardown reason and stops the pumps.
func (c *Client) fail(reason string) {
	c.failOnce.Do(func() {
		c.failure <- reason
		c.mu.Lock()
		if c.cancel != nil {
			c.cancel()
		}
		c.mu.Unlock()
	})
}

func (c *Client) run(ctx context.Context, endpoint string) {
	ws, _, err := c.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		c.finish(ctx, reasonOf(err))
		return
	}
	conn := newWsConn(ws, c.send, c.cfg)
	defer conn.Close()

	log.Info().Str("module", "signal").Str("endpoint", endpoint).Msg("signaling connected")
	c.events.OnConnected()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return conn.writePump(gctx) })
	g.Go(func() error { return conn.readPump(c.handle) })
	g.Go(func() error {
		<-gctx.Done()
		conn.Close()
		return nil
	})
	c.finish(ctx, reasonOf(g.Wait()))
}

func (c *Client) finish(ctx context.Context, reason string) {
	select {
	case r := <-c.failure:
		reason = r
	default:
		// Local Disconnect, nothing to report.
		if ctx.Err() != nil {
			log.Info().Str("module", "signal").Msg("signaling closed")
			return
		}
	}
	log.Warn().Str("module", "signal").Str("reason", reason).Msg("signaling disconnected")
	c.events.OnDisconnected(reason)
}

func (c *Client) handle(data []byte) {
	env, err := protocol.Decode(data)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}
	if env.Type == protocol.TypePong {
		return
	}
	msg, err := protocol.ToMessage(env)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		return
	}
	c.events.OnMessage(msg)
}

func reasonOf(err error) string {
	if err == nil {
		return "closed"
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		if ce.Text != "" {
			return ce.Text
		}
		return "closed by server"
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return "timeout"
	}
	return err.Error()
}
