package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest is the inbound payload for the atomic catalog create.
type CreateProductRequest struct {
	Product    ProductInput     `json:"product" validate:"required"`
	Attributes []AttributeInput `json:"attributes" validate:"dive"`
	Variants   []VariantInput   `json:"variants" validate:"required,min=1,dive"`
}

type ProductInput struct {
	Name             string `json:"name" validate:"required"`
	Slug             string `json:"slug" validate:"required"`
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
	Status           string `json:"status"`
}

type AttributeInput struct {
	Code   string   `json:"code" validate:"required"`
	Name   string   `json:"name"`
	Values []string `json:"values" validate:"required,min=1"`
}

type VariantInput struct {
	SKU      *string         `json:"sku"`
	Title    *string         `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Stock    *int            `json:"stock"`
	IsActive *bool           `json:"is_active"`
	// Attributes maps attribute code to the chosen value for this variant.
	Attributes map[string]string `json:"attributes"`
}

// Label identifies the variant in error messages: SKU if present, else the
// 1-based ordinal.
func (v *VariantInput) Label(index int) string {
	if v.SKU != nil && *v.SKU != "" {
		return *v.SKU
	}
	return "#" + strconv.Itoa(index+1)
}

// UpdateProductRequest carries a partial update guarded by the caller's last
// observed modification timestamp.
type UpdateProductRequest struct {
	ExpectedUpdatedAt time.Time    `json:"expected_updated_at"`
	Data              ProductPatch `json:"data"`
}

// ProductPatch holds the updatable scalar fields. Nil fields are left
// untouched by the guarded update.
type ProductPatch struct {
	Name             *string `json:"name"`
	Slug             *string `json:"slug"`
	Description      *string `json:"description"`
	ShortDescription *string `json:"short_description"`
	Status           *string `json:"status"`
	ThumbnailPath    *string `json:"thumbnail_path"`
}

// IsEmpty reports whether no field is present in the patch.
func (p *ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Slug == nil && p.Description == nil &&
		p.ShortDescription == nil && p.Status == nil && p.ThumbnailPath == nil
}
