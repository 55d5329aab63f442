package dto

import "github.com/jhoicas/vitrina-api/internal/domain/entity"

// ProductListResponse salida de GET /api/products.
type ProductListResponse struct {
	Products []entity.Product `json:"products"`
}

// ProductResponse salida de GET /api/products/{pid}.
type ProductResponse struct {
	Product *entity.Product `json:"product"`
}

// ProductMutationResponse salida de alta y edición.
type ProductMutationResponse struct {
	Success string          `json:"success"`
	Product *entity.Product `json:"product"`
}
