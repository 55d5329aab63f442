package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vitrina-api/internal/application/cart"
	"github.com/jhoicas/vitrina-api/internal/application/dto"
	"github.com/jhoicas/vitrina-api/internal/domain"
)

// CartHandler maneja las peticiones HTTP para Cart.
type CartHandler struct {
	uc *cart.UseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.UseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Create godoc
// @Summary      Crear carrito vacío
// @Tags         carts
// @Produce      json
// @Success      201  {object}  dto.CartMutationResponse
// @Failure      500  {object}  dto.Result
// @Router       /api/carts [post]
func (h *CartHandler) Create(c *fiber.Ctx) error {
	out, err := h.uc.Create(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CartMutationResponse{Success: cart.MsgCartAdded, Cart: out})
}

// List godoc
// @Summary      Listar carritos
// @Tags         carts
// @Produce      json
// @Success      200  {object}  dto.CartListResponse
// @Failure      500  {object}  dto.Result
// @Router       /api/carts [get]
func (h *CartHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CartListResponse{Carts: out})
}

// GetByID godoc
// @Summary      Obtener carrito por ID
// @Tags         carts
// @Produce      json
// @Param        cid  path  int  true  "ID del carrito"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.Result
// @Router       /api/carts/{cid} [get]
func (h *CartHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("cid"))
	if err != nil {
		return writeError(c, domain.Errorf(domain.ErrNotFound, "That cart doesn't exists."))
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CartResponse{Cart: out})
}

// AddProduct godoc
// @Summary      Agregar una unidad de producto al carrito
// @Tags         carts
// @Produce      json
// @Param        cid  path  int  true  "ID del carrito"
// @Param        pid  path  int  true  "ID del producto"
// @Success      201  {object}  dto.Result
// @Failure      404  {object}  dto.Result
// @Router       /api/carts/{cid}/product/{pid} [post]
func (h *CartHandler) AddProduct(c *fiber.Ctx) error {
	cid, pid := c.Params("cid"), c.Params("pid")
	productID, err := strconv.Atoi(pid)
	if err != nil {
		return writeError(c, domain.Errorf(domain.ErrNotFound, "That product doesn't exists."))
	}
	cartID, err := strconv.Atoi(cid)
	if err != nil {
		return writeError(c, domain.Errorf(domain.ErrNotFound, "Cart with id %s not found.", cid))
	}
	msg, err := h.uc.AddProduct(c.UserContext(), cartID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Result{Success: msg})
}
