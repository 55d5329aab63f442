package entity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo tal como se persiste y se emite a los clientes.
// ID lo asigna el store; Code es único en toda la colección.
type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       Amount   `json:"price"`
	Stock       Amount   `json:"stock"`
	Category    string   `json:"category"`
	Status      bool     `json:"status"`
	Thumbnails  []string `json:"thumbnails"`
}

// Amount guarda precio o stock tal como lo envió el cliente: número JSON o texto.
// Se vuelve a serializar con la misma forma; Decimal expone el valor numérico.
type Amount struct {
	value  decimal.Decimal
	text   string
	isText bool
}

// NumberAmount construye un Amount numérico.
func NumberAmount(d decimal.Decimal) Amount {
	return Amount{value: d}
}

// TextAmount construye un Amount textual. El texto debe ser un número decimal.
func TextAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{value: d, text: s, isText: true}, nil
}

// Decimal devuelve el valor numérico.
func (a Amount) Decimal() decimal.Decimal { return a.value }

// IsText indica si el valor llegó como texto.
func (a Amount) IsText() bool { return a.isText }

// String devuelve el texto original o la representación decimal.
func (a Amount) String() string {
	if a.isText {
		return a.text
	}
	return a.value.String()
}

// MarshalJSON emite un string JSON si el valor llegó como texto y un número en otro caso.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.isText {
		return json.Marshal(a.text)
	}
	return []byte(a.value.String()), nil
}

// UnmarshalJSON acepta un número JSON o un string con un número decimal.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := TextAmount(s)
		if err != nil {
			return fmt.Errorf("amount: %q no es numérico", s)
		}
		*a = v
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("amount: %s no es numérico", data)
	}
	*a = NumberAmount(d)
	return nil
}
