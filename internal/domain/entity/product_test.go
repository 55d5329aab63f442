package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vitrina-api/internal/domain/entity"
)

func TestAmount_ConservaLaFormaOriginal(t *testing.T) {
	var p entity.Product
	raw := `{"id":3,"title":"Pen","price":"1.50","stock":10,"status":true,"thumbnails":[]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.True(t, p.Price.IsText())
	assert.Equal(t, "1.50", p.Price.String())
	assert.True(t, p.Price.Decimal().Equal(decimal.RequireFromString("1.5")))
	assert.False(t, p.Stock.IsText())
	assert.Equal(t, int64(10), p.Stock.Decimal().IntPart())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"price":"1.50"`)
	assert.Contains(t, string(out), `"stock":10`)
}

func TestAmount_RechazaNoNumericos(t *testing.T) {
	var a entity.Amount
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &a))
	assert.Error(t, json.Unmarshal([]byte(`true`), &a))

	_, err := entity.TextAmount("12x")
	assert.Error(t, err)
}

func TestCart_Add(t *testing.T) {
	c := entity.Cart{ID: 1}
	c.Add(7)
	c.Add(8)
	c.Add(7)

	require.Len(t, c.Products, 2)
	assert.Equal(t, entity.CartItem{Product: 7, Quantity: 2}, c.Products[0])
	assert.Equal(t, entity.CartItem{Product: 8, Quantity: 1}, c.Products[1])
}
