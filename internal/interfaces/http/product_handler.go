package http

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/vitrina-api/internal/application/catalog"
	"github.com/jhoicas/vitrina-api/internal/application/dto"
	"github.com/jhoicas/vitrina-api/internal/domain"
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	uc        *catalog.ProductUseCase
	uploadDir string
	uploadURL string
}

// NewProductHandler construye el handler. Las miniaturas subidas se guardan en uploadDir
// y se publican bajo uploadURL.
func NewProductHandler(uc *catalog.ProductUseCase, uploadDir, uploadURL string) *ProductHandler {
	return &ProductHandler{uc: uc, uploadDir: uploadDir, uploadURL: strings.TrimRight(uploadURL, "/")}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        limit  query  int  false  "Máximo de productos (0 = todos)"
// @Success      200    {object}  dto.ProductListResponse
// @Failure      500    {object}  dto.Result
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	out, err := h.uc.List(c.UserContext(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProductListResponse{Products: out})
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        pid  path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.Result
// @Router       /api/products/{pid} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("pid"))
	if err != nil {
		return writeError(c, domain.Errorf(domain.ErrNotFound, "That product doesn't exists."))
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProductResponse{Product: out})
}

// Create godoc
// @Summary      Crear producto
// @Description  Acepta JSON o multipart/form-data; en multipart los archivos "thumbnails" se guardan como miniaturas.
// @Tags         products
// @Accept       json,mpfd
// @Produce      json
// @Param        body  body  entity.Product  true  "Datos del producto (sin id ni status)"
// @Success      201   {object}  dto.ProductMutationResponse
// @Failure      400   {object}  dto.Result
// @Failure      409   {object}  dto.Result
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	if isMultipart(c) {
		return h.createMultipart(c)
	}
	raw, err := decodeObject(c.Body())
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), raw)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductMutationResponse{Success: catalog.MsgProductAdded, Product: out})
}

// createMultipart valida los campos del formulario antes de tocar el disco;
// las miniaturas se guardan solo si el payload es válido.
func (h *ProductHandler) createMultipart(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, domain.Errorf(domain.ErrInvalidType, "Invalid type for payload. Expected: Object."))
	}
	raw := make(map[string]any, len(form.Value))
	for k, vals := range form.Value {
		switch {
		case k == "thumbnails":
			raw[k] = vals
		case len(vals) > 0:
			raw[k] = vals[0]
		}
	}
	f, err := catalog.ValidateProduct(raw, catalog.ModeCreate)
	if err != nil {
		return writeError(c, err)
	}

	for _, fh := range form.File["thumbnails"] {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		if err := c.SaveFile(fh, filepath.Join(h.uploadDir, name)); err != nil {
			return writeError(c, domain.StorageError("guardar miniatura", err))
		}
		f.Thumbnails = append(f.Thumbnails, h.uploadURL+"/"+name)
	}

	out, err := h.uc.Add(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductMutationResponse{Success: catalog.MsgProductAdded, Product: out})
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        pid   path  int             true  "ID del producto"
// @Param        body  body  entity.Product  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductMutationResponse
// @Failure      400   {object}  dto.Result
// @Failure      404   {object}  dto.Result
// @Failure      409   {object}  dto.Result
// @Router       /api/products/{pid} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	pid := c.Params("pid")
	id, err := strconv.Atoi(pid)
	if err != nil {
		return writeError(c, domain.Errorf(domain.ErrNotFound, "Product with id %s not found.", pid))
	}
	raw, err := decodeObject(c.Body())
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, raw)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProductMutationResponse{Success: catalog.MsgProductUpdated, Product: out})
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Produce      json
// @Param        pid  path  int  true  "ID del producto"
// @Success      200  {object}  dto.Result
// @Failure      404  {object}  dto.Result
// @Router       /api/products/{pid} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	pid := c.Params("pid")
	id, err := strconv.Atoi(pid)
	if err != nil {
		return writeError(c, domain.Errorf(domain.ErrNotFound, "Product with id %s not found.", pid))
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.Result{Success: catalog.MsgProductDeleted})
}

// CatalogPDF godoc
// @Summary      Descargar catálogo en PDF
// @Tags         products
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.Result
// @Router       /api/products/catalog.pdf [get]
func (h *ProductHandler) CatalogPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.ExportCatalogPDF(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="catalogo.pdf"`)
	return c.Send(pdfBytes)
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// decodeObject decodifica el cuerpo como objeto JSON conservando los números tal cual.
// Un cuerpo vacío equivale a {}.
func decodeObject(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, domain.Errorf(domain.ErrInvalidType, "Invalid type for payload. Expected: Object.")
	}
	return raw, nil
}
