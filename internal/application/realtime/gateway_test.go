package realtime_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vitrina-api/internal/application/catalog"
	"github.com/jhoicas/vitrina-api/internal/application/realtime"
	"github.com/jhoicas/vitrina-api/internal/domain/entity"
	"github.com/jhoicas/vitrina-api/internal/infrastructure/filestore"
	"github.com/jhoicas/vitrina-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	gw    *realtime.Gateway
	hub   *realtime.Hub
	store *catalog.ProductStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo, err := filestore.Open[entity.Product](filepath.Join(t.TempDir(), "products.json"))
	require.NoError(t, err)
	store := catalog.NewProductStore(context.Background(), repo, logger.Nop())
	hub := realtime.NewHub(8, logger.Nop())
	return fixture{gw: realtime.NewGateway(store, hub, logger.Nop()), hub: hub, store: store}
}

// refresh decodifica el único frame pendiente de un cliente.
func refresh(t *testing.T, c *realtime.Client) json.RawMessage {
	t.Helper()
	frames := drain(c)
	require.Len(t, frames, 1, "se espera exactamente un broadcast")
	var env realtime.Envelope
	require.NoError(t, json.Unmarshal(frames[0], &env))
	assert.Equal(t, realtime.EventRefreshProducts, env.Event)
	return env.Data
}

func pen() map[string]any {
	return map[string]any{
		"title": "Pen", "description": "Blue pen", "code": "PEN1",
		"price": "1.5", "stock": "10", "category": "office",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAddProduct_DifundeListaATodos(t *testing.T) {
	f := newFixture(t)
	a, b := f.gw.Connect(), f.gw.Connect()

	n := f.gw.AddProduct(context.Background(), pen())
	assert.Equal(t, 2, n)

	dataA := refresh(t, a)
	dataB := refresh(t, b)
	assert.Equal(t, dataA, dataB)

	var products []entity.Product
	require.NoError(t, json.Unmarshal(dataA, &products))
	require.Len(t, products, 1)
	assert.Equal(t, 0, products[0].ID)
	assert.True(t, products[0].Status)
	assert.Equal(t, []string{}, products[0].Thumbnails)
}

func TestAddProduct_ErroresTambienSeDifunden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.gw.Connect(), f.gw.Connect()

	f.gw.AddProduct(ctx, pen())
	drain(a)
	drain(b)

	// Duplicado: el error llega a todos, no solo al emisor.
	f.gw.AddProduct(ctx, pen())
	assert.JSONEq(t, `{"error":"Error: code PEN1 already exists."}`, string(refresh(t, a)))
	assert.JSONEq(t, `{"error":"Error: code PEN1 already exists."}`, string(refresh(t, b)))

	// Validación fallida: un solo broadcast y sin mutación.
	bad := pen()
	delete(bad, "title")
	f.gw.AddProduct(ctx, bad)
	assert.JSONEq(t, `{"error":"Missing field: title ."}`, string(refresh(t, a)))
	drain(b)

	list, err := f.store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.gw.Connect()

	f.gw.AddProduct(ctx, pen())
	drain(c)

	f.gw.DeleteProduct(ctx, "0")
	assert.JSONEq(t, `[]`, string(refresh(t, c)))

	f.gw.DeleteProduct(ctx, json.Number("0"))
	assert.JSONEq(t, `{"error":"Product with id 0 not found."}`, string(refresh(t, c)))

	f.gw.DeleteProduct(ctx, "abc")
	assert.JSONEq(t, `{"error":"Product with id abc not found."}`, string(refresh(t, c)))

	f.gw.DeleteProduct(ctx, nil)
	assert.JSONEq(t, `{"error":"Missing field: id ."}`, string(refresh(t, c)))
}

func TestDisconnect_SinEntregas(t *testing.T) {
	f := newFixture(t)
	a, b := f.gw.Connect(), f.gw.Connect()
	f.gw.Disconnect(b)

	n := f.gw.AddProduct(context.Background(), pen())
	assert.Equal(t, 1, n)
	refresh(t, a)
	assert.Empty(t, drain(b))
}

func TestHandle_DespachaFrames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.gw.Connect()

	f.gw.Handle(ctx, c, []byte(`{"event":"addProduct","data":{"title":"Pen","description":"Blue pen","code":"PEN1","price":1.5,"stock":10,"category":"office"}}`))
	var products []entity.Product
	require.NoError(t, json.Unmarshal(refresh(t, c), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "1.5", products[0].Price.String())

	f.gw.Handle(ctx, c, []byte(`{"event":"addProduct","data":"hola"}`))
	assert.JSONEq(t, `{"error":"Invalid type for payload. Expected: Object."}`, string(refresh(t, c)))

	f.gw.Handle(ctx, c, []byte(`{"event":"deleteProduct","data":0}`))
	assert.JSONEq(t, `[]`, string(refresh(t, c)))

	// Frames ilegibles o eventos desconocidos no producen broadcast.
	f.gw.Handle(ctx, c, []byte(`no-json`))
	f.gw.Handle(ctx, c, []byte(`{"event":"ping"}`))
	assert.Empty(t, drain(c))
}

func TestRefresh_DifundeListaActual(t *testing.T) {
	f := newFixture(t)
	c := f.gw.Connect()

	f.gw.Refresh(context.Background())
	assert.JSONEq(t, `[]`, string(refresh(t, c)))
}

func TestAddProduct_CeroEsCampoFaltante(t *testing.T) {
	f := newFixture(t)
	c := f.gw.Connect()

	payload := pen()
	payload["stock"] = json.Number("0")
	f.gw.AddProduct(context.Background(), payload)
	assert.JSONEq(t, `{"error":"Missing field: stock ."}`, string(refresh(t, c)))

	payload = pen()
	payload["title"] = false
	f.gw.AddProduct(context.Background(), payload)
	assert.JSONEq(t, `{"error":"Missing field: title ."}`, string(refresh(t, c)))
}

func TestAddProduct_IgnoraMiniaturasDelCliente(t *testing.T) {
	f := newFixture(t)
	c := f.gw.Connect()

	payload := pen()
	payload["thumbnails"] = []any{"img/a.png", 7}
	f.gw.AddProduct(context.Background(), payload)

	var products []entity.Product
	require.NoError(t, json.Unmarshal(refresh(t, c), &products))
	require.Len(t, products, 1)
	assert.Equal(t, []string{}, products[0].Thumbnails)
	assert.Equal(t, []any{"img/a.png", 7}, payload["thumbnails"], "el payload del cliente no se modifica")
}

// El id se interpreta como parseInt: prefijo entero del texto, números truncados.
func TestDeleteProduct_IdComoPrefijoEntero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.gw.Connect()

	f.gw.AddProduct(ctx, pen())
	second := pen()
	second["code"] = "PEN2"
	f.gw.AddProduct(ctx, second)
	drain(c)

	f.gw.DeleteProduct(ctx, " 0.0")
	var products []entity.Product
	require.NoError(t, json.Unmarshal(refresh(t, c), &products))
	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].ID)

	f.gw.DeleteProduct(ctx, "1abc")
	assert.JSONEq(t, `[]`, string(refresh(t, c)))
}

func TestDeleteProduct_IdFueraDeRango(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.gw.Connect()

	f.gw.DeleteProduct(ctx, json.Number("1e30"))
	assert.JSONEq(t, `{"error":"Product with id 1e30 not found."}`, string(refresh(t, c)))

	f.gw.DeleteProduct(ctx, "99999999999999999999999")
	assert.JSONEq(t, `{"error":"Product with id 99999999999999999999999 not found."}`, string(refresh(t, c)))

	f.gw.DeleteProduct(ctx, "-")
	assert.JSONEq(t, `{"error":"Product with id - not found."}`, string(refresh(t, c)))
}
