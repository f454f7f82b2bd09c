package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/learnhub/lms-backend/internal/calendar"
	ws "github.com/learnhub/lms-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// CalendarWSHandler streams calendar change notifications to mounted views
// in other processes. The socket carries no event data, only the signal
// that the shared blob changed; the receiving view re-reads the store.
type CalendarWSHandler struct {
	store    *calendar.EventStore
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewCalendarWSHandler creates a new CalendarWSHandler.
func NewCalendarWSHandler(store *calendar.EventStore, log zerolog.Logger, allowedOrigins []string) *CalendarWSHandler {
	return &CalendarWSHandler{
		store:    store,
		log:      log.With().Str("component", "calendar_ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/calendar
// Upgrades to WebSocket and relays store change notifications until the
// client disconnects.
func (h *CalendarWSHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	// Coalescing buffer: bursts of saves collapse into one notification.
	notify := make(chan struct{}, 1)
	unsubscribe, err := h.store.Subscribe(func() {
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	if err != nil {
		h.log.Error().Err(err).Msg("calendar subscription failed")
		ws.WriteError(conn, "subscription failed")
		return
	}
	defer unsubscribe()

	h.log.Info().Str("remote", conn.RemoteAddr().String()).Msg("calendar view connected")

	// Read pump: forwards pings and detects the close. The connection
	// allows only one concurrent writer, so the pump never writes itself;
	// all writes happen on the select loop below.
	pings := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Warn().Err(err).Msg("unexpected close")
				}
				return
			}
			if msg.Action == ws.ActionPing {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	for {
		select {
		case <-pings:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				h.log.Debug().Err(err).Msg("pong write failed, dropping view")
				return
			}
		case <-notify:
			if err := ws.WriteTyped(conn, ws.ChangedResponse{
				Event: ws.EventChanged,
				Key:   calendar.EventsKey,
			}); err != nil {
				h.log.Debug().Err(err).Msg("notification write failed, dropping view")
				return
			}
		case <-done:
			h.log.Debug().Msg("calendar view disconnected")
			return
		}
	}
}
