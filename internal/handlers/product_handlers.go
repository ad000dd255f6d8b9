package handlers

import (
	"net/http"
	"strconv"
	"time"

	"commercehub/internal/common"
	"commercehub/internal/domains"
	"commercehub/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	maxImageSize   = 5 << 20 // 5 MiB
	imageURLExpiry = 15 * time.Minute
)

type ProductHandlers struct {
	productService services.ProductService
	storage        services.StorageService
	logger         *zap.Logger
}

func NewProductHandlers(productService services.ProductService, storage services.StorageService, logger *zap.Logger) *ProductHandlers {
	return &ProductHandlers{productService: productService, storage: storage, logger: logger}
}

// CreateProduct handles POST /inventory/products.
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req services.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	product, err := h.productService.CreateProduct(c.Request().Context(), tenantID, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// GetProduct handles GET /inventory/products/:id.
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	product, err := h.productService.GetProduct(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// ListProducts handles GET /inventory/products.
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)
	activeOnly := c.QueryParam("active") == "true"

	products, err := h.productService.ListProducts(c.Request().Context(), tenantID, activeOnly, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"products": products})
}

// UpdateProduct handles PUT /inventory/products/:id.
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	var req services.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return common.SendValidationError(c, "body", err.Error())
	}

	product, err := h.productService.UpdateProduct(c.Request().Context(), tenantID, id, &req)
	if err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /inventory/products/:id. The backing image
// object, if any, is removed after the row so a storage failure never
// leaves a product pointing at a deleted image.
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	object, err := h.productService.GetProductImageObject(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	if err := h.productService.DeleteProduct(c.Request().Context(), tenantID, id); err != nil {
		return common.RespondError(c, err)
	}

	if object != "" {
		if err := h.storage.DeleteImage(c.Request().Context(), object); err != nil {
			h.logger.Warn("orphaned image cleanup failed", zap.String("object", object), zap.Error(err))
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSchema handles GET /inventory/products/schema: the effective field set the
// tenant's products accept, derived from its domain codes.
func (h *ProductHandlers) GetSchema(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	schema, err := h.productService.SchemaForTenant(c.Request().Context(), tenantID)
	if err != nil {
		return common.RespondError(c, err)
	}

	fields := make([]map[string]any, 0, len(schema.Fields()))
	for _, f := range schema.Fields() {
		field := map[string]any{
			"name":     f.Name,
			"kind":     string(f.Kind),
			"required": f.Required,
		}
		if f.Min != nil {
			field["min"] = *f.Min
		}
		if f.MaxLen > 0 {
			field["max_length"] = f.MaxLen
		}
		fields = append(fields, field)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"domain_codes": schema.Codes(),
		"fields":       fields,
	})
}

// UploadImage handles POST /inventory/products/:id/image (multipart field
// "image"). Re-uploading replaces the stored object; the previous one is
// deleted once the new pointer is committed.
func (h *ProductHandlers) UploadImage(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	// 404 before accepting the upload if the product is not visible. The
	// same lookup yields the object to clean up on replacement.
	oldObject, err := h.productService.GetProductImageObject(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "image file is required")
	}
	if fileHeader.Size > maxImageSize {
		return common.SendValidationError(c, "image", "image exceeds the 5 MiB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.RespondError(c, err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName, err := h.storage.UploadProductImage(c.Request().Context(), tenantID, id, file, fileHeader.Size, contentType)
	if err != nil {
		h.logger.Error("product image upload failed", zap.Error(err))
		return common.RespondError(c, err)
	}

	if err := h.productService.SetProductImage(c.Request().Context(), tenantID, id, objectName); err != nil {
		return common.RespondError(c, err)
	}

	if oldObject != "" && oldObject != objectName {
		if err := h.storage.DeleteImage(c.Request().Context(), oldObject); err != nil {
			h.logger.Warn("replaced image cleanup failed", zap.String("object", oldObject), zap.Error(err))
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"object": objectName})
}

// GetImageURL handles GET /inventory/products/:id/image: a short-lived presigned URL.
func (h *ProductHandlers) GetImageURL(c echo.Context) error {
	tenantID, ok := common.GetTenantIDFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.RespondError(c, err)
	}

	object, err := h.productService.GetProductImageObject(c.Request().Context(), tenantID, id)
	if err != nil {
		return common.RespondError(c, err)
	}
	if object == "" {
		return common.RespondError(c, common.NewNotFoundError("Product image"))
	}

	url, err := h.storage.PresignedImageURL(c.Request().Context(), object, imageURLExpiry)
	if err != nil {
		h.logger.Error("presigning product image failed", zap.Error(err))
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// ListDomains handles GET /domains: the static catalog of business domains
// a tenant can register under.
func (h *ProductHandlers) ListDomains(c echo.Context) error {
	codes := domains.Codes()
	out := make([]map[string]string, 0, len(codes))
	for _, code := range codes {
		out = append(out, map[string]string{"code": code, "label": domains.Label(code)})
	}
	return c.JSON(http.StatusOK, map[string]any{"domains": out})
}
