package dto

import "github.com/jhoicas/vitrina-api/internal/domain/entity"

// CartListResponse salida de GET /api/carts.
type CartListResponse struct {
	Carts []entity.Cart `json:"carts"`
}

// CartResponse salida de GET /api/carts/{cid}.
type CartResponse struct {
	Cart *entity.Cart `json:"cart"`
}

// CartMutationResponse salida de POST /api/carts.
type CartMutationResponse struct {
	Success string       `json:"success"`
	Cart    *entity.Cart `json:"cart"`
}
