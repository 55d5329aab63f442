// Package realtime sincroniza la lista de productos con los navegadores conectados.
package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/vitrina-api/pkg/logger"
)

// Client es una conexión en tiempo real registrada en el Hub.
// El transporte drena Messages(); el canal se cierra cuando el cliente sale del Hub.
type Client struct {
	id   string
	send chan []byte
	once sync.Once
}

// ID identificador aleatorio de la conexión.
func (c *Client) ID() string { return c.id }

// Messages canal de frames pendientes de enviar.
func (c *Client) Messages() <-chan []byte { return c.send }

func (c *Client) close() { c.once.Do(func() { close(c.send) }) }

// Envelope formato de cada frame: {"event": "...", "data": ...}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub mantiene el conjunto de clientes conectados y difunde eventos a todos.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client
	buffer  int
	log     *logger.Logger
}

// NewHub construye el hub. buffer es la cola de salida por cliente.
func NewHub(buffer int, log *logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{clients: make(map[string]*Client), buffer: buffer, log: log}
}

// Register agrega un cliente nuevo. No hay envío inicial.
func (h *Hub) Register() *Client {
	c := &Client{id: uuid.NewString(), send: make(chan []byte, h.buffer)}
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info().Str("client_id", c.id).Int("clients", n).Msg("nuevo cliente conectado")
	return c
}

// Unregister quita al cliente del conjunto y cierra su canal. Repetirlo no tiene efecto.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	h.mu.Unlock()
	c.close()
	if ok {
		h.log.Info().Str("client_id", c.id).Msg("cliente desconectado")
	}
}

// Len cantidad de clientes conectados.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast serializa el evento una vez y encola los mismos bytes a cada cliente.
// El lock se mantiene durante todo el reparto: ningún registro o baja se intercala.
// Un cliente con la cola llena se expulsa en lugar de bloquear al resto.
// Devuelve la cantidad de entregas.
func (h *Hub) Broadcast(event string, data any) (int, error) {
	frame, err := json.Marshal(outbound{Event: event, Data: data})
	if err != nil {
		return 0, fmt.Errorf("realtime: serializar %s: %w", event, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for id, c := range h.clients {
		select {
		case c.send <- frame:
			delivered++
		default:
			delete(h.clients, id)
			c.close()
			h.log.Warn().Str("client_id", id).Msg("cola de salida llena; cliente expulsado")
		}
	}
	return delivered, nil
}

// Close desconecta a todos los clientes (apagado del servidor).
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		c.close()
	}
}
