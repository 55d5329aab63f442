package http

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vitrina-api/internal/application/realtime"
	"github.com/jhoicas/vitrina-api/pkg/logger"
)

// RealtimeHandler conecta el transporte WebSocket con el gateway de productos.
type RealtimeHandler struct {
	gw  *realtime.Gateway
	log *logger.Logger
}

// NewRealtimeHandler construye el handler.
func NewRealtimeHandler(gw *realtime.Gateway, log *logger.Logger) *RealtimeHandler {
	return &RealtimeHandler{gw: gw, log: log}
}

// Upgrade rechaza con 426 las peticiones que no piden WebSocket.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		h.log.Debug().Str("request_id", GetRequestID(c)).Str("ip", c.IP()).Msg("upgrade websocket")
		return c.Next()
	}
	h.log.Warn().Str("request_id", GetRequestID(c)).Msg("petición a /ws sin upgrade")
	return fiber.ErrUpgradeRequired
}

// Serve devuelve el handler de la conexión: una goroutine escribe los frames del hub
// y la goroutine de la conexión lee en orden y despacha al gateway.
func (h *RealtimeHandler) Serve() fiber.Handler {
	return websocket.New(h.serve)
}

func (h *RealtimeHandler) serve(conn *websocket.Conn) {
	client := h.gw.Connect()
	done := make(chan struct{})
	go h.writeLoop(conn, client, done)

	defer func() {
		h.gw.Disconnect(client)
		<-done
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn().Err(err).Str("client_id", client.ID()).Msg("lectura websocket")
			}
			return
		}
		h.gw.Handle(context.Background(), client, frame)
	}
}

// writeLoop termina cuando el hub cierra el canal del cliente (baja o expulsión) o cuando
// la escritura falla. En ambos casos cierra la conexión para desbloquear la lectura.
func (h *RealtimeHandler) writeLoop(conn *websocket.Conn, client *realtime.Client, done chan<- struct{}) {
	defer close(done)
	defer conn.Close()
	for frame := range client.Messages() {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID()).Msg("escritura websocket")
			return
		}
	}
}
