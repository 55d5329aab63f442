package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vitrina-api/internal/domain"
	"github.com/jhoicas/vitrina-api/internal/domain/entity"
)

// Mode indica qué campos son obligatorios al validar.
type Mode int

const (
	// ModeCreate exige todos los campos base del producto.
	ModeCreate Mode = iota
	// ModeUpdate no exige ninguno; solo valida los presentes.
	ModeUpdate
)

// Orden fijo de validación: el primer error gana.
var fieldOrder = []string{"title", "description", "code", "price", "stock", "category", "thumbnails"}

var requiredOnCreate = map[string]bool{
	"title": true, "description": true, "code": true,
	"price": true, "stock": true, "category": true,
}

// Fields es el payload ya validado: nil significa "campo ausente".
// Nunca incluye id ni status.
type Fields struct {
	Title       *string
	Description *string
	Code        *string
	Price       *entity.Amount
	Stock       *entity.Amount
	Category    *string
	Thumbnails  []string
}

// IsEmpty indica si no se envió ningún campo.
func (f Fields) IsEmpty() bool {
	return f.Title == nil && f.Description == nil && f.Code == nil && f.Price == nil &&
		f.Stock == nil && f.Category == nil && f.Thumbnails == nil
}

// ValidateProduct valida y normaliza un mapa de campos crudos (JSON decodificado o formulario).
// Es puro: sin I/O. Los fallos se devuelven como *domain.Error para reenviarlos tal cual al cliente.
//
// price y stock aceptan un número o un texto numérico en ambos modos; se conserva la forma original.
func ValidateProduct(raw map[string]any, mode Mode) (Fields, error) {
	var out Fields
	for _, field := range fieldOrder {
		value := raw[field]
		if isEmpty(value) {
			if mode == ModeCreate && requiredOnCreate[field] {
				return Fields{}, domain.Errorf(domain.ErrMissingField, "Missing field: %s .", field)
			}
			continue
		}

		switch field {
		case "title", "description", "code", "category":
			s, ok := value.(string)
			if !ok {
				return Fields{}, domain.Errorf(domain.ErrInvalidType, "Invalid type for field: %s. Expected: String.", field)
			}
			out.setText(field, s)
		case "price", "stock":
			a, ok := toAmount(value)
			if !ok {
				return Fields{}, domain.Errorf(domain.ErrInvalidType, "Invalid type for field: %s. Expected: Number.", field)
			}
			if field == "price" {
				out.Price = &a
			} else {
				out.Stock = &a
			}
		case "thumbnails":
			list, ok := toStrings(value)
			if !ok {
				return Fields{}, domain.Errorf(domain.ErrInvalidType, "Invalid type for field: thumbnails. Expected: array of strings.")
			}
			out.Thumbnails = list
		}
	}
	return out, nil
}

func (f *Fields) setText(field, s string) {
	switch field {
	case "title":
		f.Title = &s
	case "description":
		f.Description = &s
	case "code":
		f.Code = &s
	case "category":
		f.Category = &s
	}
}

// isEmpty: ausente, null, false, cero numérico, texto vacío o arreglo vacío.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return err == nil && d.IsZero()
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case decimal.Decimal:
		return t.IsZero()
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

func toAmount(v any) (entity.Amount, bool) {
	switch t := v.(type) {
	case string:
		a, err := entity.TextAmount(t)
		return a, err == nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		return entity.NumberAmount(d), err == nil
	case float64:
		return entity.NumberAmount(decimal.NewFromFloat(t)), true
	case int:
		return entity.NumberAmount(decimal.NewFromInt(int64(t))), true
	case int64:
		return entity.NumberAmount(decimal.NewFromInt(t)), true
	case decimal.Decimal:
		return entity.NumberAmount(t), true
	}
	return entity.Amount{}, false
}

func toStrings(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...), true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
