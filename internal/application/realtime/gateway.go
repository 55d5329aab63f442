package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/jhoicas/vitrina-api/internal/application/catalog"
	"github.com/jhoicas/vitrina-api/internal/application/dto"
	"github.com/jhoicas/vitrina-api/internal/domain"
	"github.com/jhoicas/vitrina-api/internal/domain/entity"
	"github.com/jhoicas/vitrina-api/pkg/logger"
)

// Eventos del protocolo en tiempo real.
const (
	EventAddProduct      = "addProduct"
	EventDeleteProduct   = "deleteProduct"
	EventRefreshProducts = "refreshProducts"
)

// ProductStore lo que el gateway necesita del store de productos.
type ProductStore interface {
	List(ctx context.Context) ([]entity.Product, error)
	Add(ctx context.Context, f catalog.Fields) (*entity.Product, error)
	Delete(ctx context.Context, id int) error
}

// Gateway recibe las mutaciones de cada cliente, las valida, las aplica al store
// y difunde el resultado (lista o error) a todos los clientes conectados.
// Cada intento de mutación produce exactamente un broadcast.
type Gateway struct {
	mu    sync.Mutex // serializa mutación + lectura + broadcast
	store ProductStore
	hub   *Hub
	log   *logger.Logger
}

// NewGateway construye el gateway.
func NewGateway(store ProductStore, hub *Hub, log *logger.Logger) *Gateway {
	return &Gateway{store: store, hub: hub, log: log}
}

// Connect registra un cliente en el hub.
func (g *Gateway) Connect() *Client { return g.hub.Register() }

// Disconnect lo quita del hub.
func (g *Gateway) Disconnect(c *Client) { g.hub.Unregister(c) }

// Handle decodifica un frame entrante y lo despacha según su evento.
// Frames ilegibles o eventos desconocidos se registran y se ignoran.
func (g *Gateway) Handle(ctx context.Context, c *Client, frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		g.log.Warn().Err(err).Str("client_id", c.ID()).Msg("frame inválido")
		return
	}
	data, err := decodeData(env.Data)
	if err != nil {
		g.log.Warn().Err(err).Str("client_id", c.ID()).Str("event", env.Event).Msg("data inválida")
		data = nil
	}

	switch env.Event {
	case EventAddProduct:
		raw, _ := data.(map[string]any)
		g.AddProduct(ctx, raw)
	case EventDeleteProduct:
		g.DeleteProduct(ctx, data)
	default:
		g.log.Warn().Str("client_id", c.ID()).Str("event", env.Event).Msg("evento desconocido")
	}
}

// AddProduct valida el payload (modo alta), agrega el producto y difunde el resultado.
// Un payload nil (data ausente o no objeto) es un error de tipo. Las miniaturas enviadas
// por el cliente se ignoran: el producto nace con thumbnails vacío.
// Devuelve la cantidad de entregas del broadcast.
func (g *Gateway) AddProduct(ctx context.Context, raw map[string]any) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if raw == nil {
		return g.broadcastError(domain.Errorf(domain.ErrInvalidType, "Invalid type for payload. Expected: Object."))
	}
	f, err := catalog.ValidateProduct(withoutThumbnails(raw), catalog.ModeCreate)
	if err != nil {
		return g.broadcastError(err)
	}
	p, err := g.store.Add(ctx, f)
	if err != nil {
		return g.broadcastError(err)
	}
	g.log.Info().Int("product_id", p.ID).Str("code", p.Code).Msg("producto agregado en tiempo real")
	return g.broadcastList(ctx)
}

// DeleteProduct convierte el id (texto o número) y elimina el producto.
func (g *Gateway) DeleteProduct(ctx context.Context, rawID any) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if rawID == nil {
		return g.broadcastError(domain.Errorf(domain.ErrMissingField, "Missing field: id ."))
	}
	id, ok := coerceID(rawID)
	if !ok {
		return g.broadcastError(domain.Errorf(domain.ErrNotFound, "Product with id %v not found.", rawID))
	}
	if err := g.store.Delete(ctx, id); err != nil {
		return g.broadcastError(err)
	}
	g.log.Info().Int("product_id", id).Msg("producto eliminado en tiempo real")
	return g.broadcastList(ctx)
}

// Refresh difunde la lista actual; lo usa el CRUD HTTP tras mutar.
func (g *Gateway) Refresh(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.broadcastList(ctx)
}

func (g *Gateway) broadcastList(ctx context.Context) int {
	products, err := g.store.List(ctx)
	if err != nil {
		return g.broadcastError(err)
	}
	return g.broadcast(products)
}

func (g *Gateway) broadcastError(err error) int {
	g.log.Debug().Err(err).Msg("mutación rechazada")
	return g.broadcast(dto.Result{Error: domain.Message(err)})
}

func (g *Gateway) broadcast(data any) int {
	n, err := g.hub.Broadcast(EventRefreshProducts, data)
	if err != nil {
		g.log.Error().Err(err).Msg("broadcast fallido")
	}
	return n
}

func withoutThumbnails(raw map[string]any) map[string]any {
	if _, ok := raw["thumbnails"]; !ok {
		return raw
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != "thumbnails" {
			out[k] = v
		}
	}
	return out
}

func decodeData(raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// maxID límite de enteros exactos en un número JSON (2^53).
const maxID = 1 << 53

// coerceID interpreta el id como parseInt: en texto toma el prefijo entero tras espacios
// iniciales ("3abc" → 3, "0.0" → 0); un número se trunca hacia cero. Sin dígitos o fuera
// de rango no hay id.
func coerceID(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return leadingInt(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return truncID(f)
	case float64:
		return truncID(t)
	case int:
		return t, true
	}
	return 0, false
}

func truncID(f float64) (int, bool) {
	if math.IsNaN(f) || math.Abs(f) >= maxID {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n >= maxID || n <= -maxID {
		return 0, false
	}
	return n, true
}
