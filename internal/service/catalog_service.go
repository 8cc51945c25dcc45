package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-catalog-admin/internal/model"
	"go-catalog-admin/internal/repository"
	"go-catalog-admin/internal/ws"
	"go-catalog-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogService interface {
	CreateProduct(ctx context.Context, req *model.CreateProductRequest, actor Actor) (uuid.UUID, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest, actor Actor) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// Actor is the authenticated identity performing a mutation, used for audit
// fields and event broadcasts.
type Actor struct {
	ID    string
	Name  string
	Email string
}

type catalogService struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		wsHub:       hub,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, req *model.CreateProductRequest, actor Actor) (uuid.UUID, error) {
	// 1. Normalize and validate the payload (no store access yet)
	if err := normalizeCreateRequest(req); err != nil {
		return uuid.Nil, err
	}

	// 2. Cross-validate every variant assignment against the attribute matrix
	matrix, err := BuildAttributeMatrix(req.Attributes)
	if err != nil {
		return uuid.Nil, err
	}
	for i := range req.Variants {
		if err := matrix.ValidateAssignment(req.Variants[i].Label(i), req.Variants[i].Attributes); err != nil {
			return uuid.Nil, err
		}
	}

	// 3. Atomic multi-row insert; rolls back as one unit
	productID, err := s.productRepo.CreateCatalog(ctx, req, actor.ID)
	if err != nil {
		return uuid.Nil, err
	}

	// 4. Broadcast outside the transaction
	s.broadcast("product_created", map[string]interface{}{
		"product_id": productID,
		"slug":       req.Product.Slug,
		"name":       req.Product.Name,
	}, actor, fmt.Sprintf("%s created product '%s'", actor.Name, req.Product.Name))

	return productID, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest, actor Actor) error {
	// 1. Field-level validation happens before the compare-and-swap so an
	// invalid patch never consumes the caller's timestamp window.
	if req.ExpectedUpdatedAt.IsZero() {
		return invalid("expected_updated_at", "is required for optimistic lock")
	}
	if req.Data.IsEmpty() {
		return invalid("data", "must contain at least one field")
	}

	fields, err := patchFields(&req.Data)
	if err != nil {
		return err
	}
	fields["updated_by"] = actor.ID

	// 2. Single conditional UPDATE: check and write are one atomic operation
	if err := s.productRepo.UpdateGuarded(ctx, id, req.ExpectedUpdatedAt, fields); err != nil {
		return err
	}

	s.broadcast("product_updated", map[string]interface{}{
		"product_id": id,
	}, actor, fmt.Sprintf("%s updated product %s", actor.Name, id))

	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// normalizeCreateRequest trims required strings, applies defaults and runs
// both tag-level and cross-field checks. Returns a *ValidationError naming
// the first violated field.
func normalizeCreateRequest(req *model.CreateProductRequest) error {
	req.Product.Name = strings.TrimSpace(req.Product.Name)
	req.Product.Slug = strings.TrimSpace(req.Product.Slug)

	if req.Product.Status == "" {
		req.Product.Status = model.StatusDraft
	}
	if !model.IsValidStatus(req.Product.Status) {
		return invalid("product.status", "must be one of draft, active, archived")
	}

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return invalid(errs[0].FailedField, "failed on "+errs[0].Tag)
	}

	for i := range req.Variants {
		v := &req.Variants[i]
		label := v.Label(i)
		if !v.Price.GreaterThan(decimal.Zero) {
			return invalid("variants.price", "variant "+label+" must have a strictly positive price")
		}
		if v.Stock == nil {
			zero := 0
			v.Stock = &zero
		} else if *v.Stock < 0 {
			return invalid("variants.stock", "variant "+label+" must have a non-negative stock")
		}
	}
	return nil
}

// patchFields converts the non-nil patch fields into the column map applied
// by the guarded update.
func patchFields(p *model.ProductPatch) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, invalid("data.name", "must not be empty")
		}
		fields["name"] = name
	}
	if p.Slug != nil {
		slug := strings.TrimSpace(*p.Slug)
		if slug == "" {
			return nil, invalid("data.slug", "must not be empty")
		}
		fields["slug"] = slug
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.ShortDescription != nil {
		fields["short_description"] = *p.ShortDescription
	}
	if p.Status != nil {
		if !model.IsValidStatus(*p.Status) {
			return nil, invalid("data.status", "must be one of draft, active, archived")
		}
		fields["status"] = *p.Status
	}
	if p.ThumbnailPath != nil {
		fields["thumbnail_path"] = *p.ThumbnailPath
	}
	return fields, nil
}

func (s *catalogService) broadcast(action string, payload map[string]interface{}, actor Actor, message string) {
	if s.wsHub == nil {
		return
	}
	event := map[string]interface{}{
		"type":   "catalog_update",
		"action": action,
		"data":   payload,
		"user": map[string]interface{}{
			"id":    actor.ID,
			"name":  actor.Name,
			"email": actor.Email,
		},
		"message": message,
		"at":      time.Now().UTC(),
	}
	go s.wsHub.PublishJSON(event)
}
