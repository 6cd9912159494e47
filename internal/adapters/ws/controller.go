// Package ws adapts the realtime channel: it upgrades HTTP requests to
// websocket connections, pumps frames in both directions, and translates wire
// envelopes into coordinator events.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"chat-relay/internal/app"
	"chat-relay/internal/config"
	"chat-relay/internal/core"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Controller struct {
	coord   *app.PresenceCoordinator
	cfg     *config.Config
	limiter *ConnRateLimiter
}

func NewController(coord *app.PresenceCoordinator, cfg *config.Config) *Controller {
	return &Controller{
		coord:   coord,
		cfg:     cfg,
		limiter: NewConnRateLimiter(cfg.RateLimit, cfg.RateInterval),
	}
}

// Handle upgrades the request and runs the connection until it closes.
// Each websocket connection gets its own identifier; the browser-scoped
// client token only ties connections together in the logs.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	id := core.ConnID(uuid.NewString())
	log.Info().Str("module", "ws").Str("conn", string(id)).Str("client", c.GetString("client_token")).Msg("new connection")

	sock, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade")
		return
	}
	sock.SetReadLimit(ctl.cfg.ReadLimit)

	conn := newConn(sock)
	ctl.coord.State().Router.Attach(id, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, id, conn)
	go ctl.readPump(ctx, cancel, id, conn)
}

func (ctl *Controller) writePump(ctx context.Context, id core.ConnID, c *Conn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "ws").Str("conn", string(id)).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Error().Err(err).Str("module", "ws").Str("conn", string(id)).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, id core.ConnID, c *Conn) {
	defer func() {
		log.Info().Str("module", "ws").Str("conn", string(id)).Msg("readPump closing")
		ctl.teardown(id, c)
		cancel()
	}()

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.cfg.PingPeriod + 10*time.Second))
	})
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.cfg.PingPeriod + 10*time.Second))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Warn().Err(err).Str("module", "ws").Str("conn", string(id)).Msg("readPump read error")
				}
				return
			}
			ctl.handleFrame(id, c, data)
		}
	}
}

// teardown removes every trace of the connection: coordinator cleanup first so
// the leave notification still reaches the vacated room, then the sink.
func (ctl *Controller) teardown(id core.ConnID, c *Conn) {
	if err := ctl.coord.Dispatch(id, app.Disconnect{}); err != nil {
		log.Error().Err(err).Str("module", "ws").Str("conn", string(id)).Msg("disconnect dispatch")
	}
	ctl.coord.State().Router.Detach(id)
	ctl.limiter.Forget(id)
	c.Close()
}
