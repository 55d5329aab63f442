// Package pdf genera el catálogo de productos imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la tienda  │  Fecha de emisión           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Código | Título | Categoría | Precio | Stock | ● │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: cantidad de productos + stock total                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vitrina-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// CatalogPDFGenerator implementa catalog.CatalogPDFGenerator usando Maroto v2.
type CatalogPDFGenerator struct {
	storeName string
	now       func() time.Time
}

// NewCatalogPDFGenerator construye el generador. storeName encabeza cada catálogo.
func NewCatalogPDFGenerator(storeName string) *CatalogPDFGenerator {
	return &CatalogPDFGenerator{storeName: storeName, now: time.Now}
}

// GenerateCatalogPDF genera el PDF y devuelve sus bytes.
func (g *CatalogPDFGenerator) GenerateCatalogPDF(_ context.Context, products []entity.Product) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Catálogo de productos", true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.storeName, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(products)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(products))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar catálogo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(storeName string, at time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Catálogo de productos", props.Text{
				Size: 9, Top: 8, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Fecha: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Center),
		h("Código", 2, align.Left),
		h("Título", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Precio", 2, align.Right),
		h("Stock", 1, align.Right),
		h("Activo", 1, align.Center),
	)
}

// tableRows: una fila por producto, en el orden persistido.
func tableRows(products []entity.Product) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		result = append(result, row.New(7).Add(
			cell(strconv.Itoa(p.ID), 1, align.Center),
			cell(p.Code, 2, align.Left),
			cell(p.Title, 3, align.Left),
			cell(p.Category, 2, align.Left),
			cell("$"+formatMoney(p.Price.Decimal()), 2, align.Right),
			cell(p.Stock.Decimal().String(), 1, align.Right),
			cell(yesNo(p.Status), 1, align.Center),
		))
	}
	return result
}

func footerRow(products []entity.Product) core.Row {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Stock.Decimal())
	}
	return row.New(10).Add(
		col.New(6).Add(text.New(
			fmt.Sprintf("Productos: %d", len(products)),
			props.Text{Style: fontstyle.Bold, Size: 9, Top: 2},
		)),
		col.New(6).Add(text.New(
			"Stock total: "+total.String(),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Right: 1},
		)),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}

// formatMoney redondea a dos decimales e inserta puntos de miles en la parte entera.
// Ej: 25000 → "25.000,00", 1234.5 → "1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
