package handler

import (
	"errors"
	"time"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	catalog      service.CatalogService
	assets       service.AssetService
	signedURLTTL int // seconds
}

func NewCatalogHandler(catalog service.CatalogService, assets service.AssetService, signedURLTTLSeconds int) *CatalogHandler {
	return &CatalogHandler{
		catalog:      catalog,
		assets:       assets,
		signedURLTTL: signedURLTTLSeconds,
	}
}

// Helpers to read user info from context (set by RequireAuth middleware)
func actorFromCtx(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if v, ok := c.Locals("user_id").(string); ok {
		actor.ID = v
	}
	if v, ok := c.Locals("user_name").(string); ok {
		actor.Name = v
	}
	if v, ok := c.Locals("user_email").(string); ok {
		actor.Email = v
	}
	return actor
}

// statusFor maps the service/repository error taxonomy onto HTTP codes.
// Internal error types never cross the boundary; only the message does.
func statusFor(err error) int {
	var vErr *service.ValidationError
	var mErr *service.IncompleteVariantAttributesError
	var sErr *service.StorageWriteError
	switch {
	case errors.As(err, &vErr), errors.As(err, &mErr):
		return fiber.StatusBadRequest
	case errors.Is(err, repository.ErrSlugTaken):
		return fiber.StatusBadRequest
	case errors.Is(err, repository.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrConcurrentModification):
		return fiber.StatusConflict
	case errors.As(err, &sErr):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req model.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	productID, err := h.catalog.CreateProduct(c.Context(), &req, actorFromCtx(c))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "product_id": productID})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req model.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalog.UpdateProduct(c.Context(), productID, &req, actorFromCtx(c)); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *CatalogHandler) UploadThumbnail(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing file"})
	}

	// The product must exist; the asset path is derived from its id.
	if _, err := h.catalog.GetProduct(c.Context(), productID); err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Unreadable file"})
	}
	defer f.Close()

	path, err := h.assets.PutThumbnail(
		c.Context(),
		productID,
		f,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Filename,
	)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"path": path})
}

func (h *CatalogHandler) ThumbnailURL(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.catalog.GetProduct(c.Context(), productID)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if product.ThumbnailPath == nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product has no thumbnail"})
	}

	ttl := time.Duration(h.signedURLTTL) * time.Second
	url, err := h.assets.SignedThumbnailURL(c.Context(), *product.ThumbnailPath, ttl)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to sign thumbnail URL"})
	}

	return c.JSON(fiber.Map{"url": url, "expires_in": h.signedURLTTL})
}
