package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product lifecycle statuses
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

// IsValidStatus reports whether s is one of the three defined lifecycle states.
func IsValidStatus(s string) bool {
	return s == StatusDraft || s == StatusActive || s == StatusArchived
}

// Product is the catalog root. Attributes and Variants are created together
// with the product in one transaction and are fixed afterwards; scalar fields
// and the thumbnail path are mutated through the guarded update only.
type Product struct {
	BaseModel
	Name             string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Slug             string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug" validate:"required"`
	Description      string  `gorm:"type:text" json:"description"`
	ShortDescription string  `gorm:"type:varchar(500)" json:"short_description"`
	Status           string  `gorm:"type:varchar(20);default:'draft'" json:"status"`
	ThumbnailPath    *string `gorm:"type:varchar(500)" json:"thumbnail_path,omitempty"`

	// Relasi
	Attributes []ProductAttribute `json:"attributes,omitempty"`
	Variants   []Variant          `json:"variants,omitempty"`
}

// ProductAttribute is one axis of variation (e.g. size). Code is unique
// within its product.
type ProductAttribute struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID        `gorm:"type:uuid;index:idx_attr_product_code,unique;not null" json:"product_id"`
	Code      string           `gorm:"type:varchar(50);index:idx_attr_product_code,unique;not null" json:"code"`
	Name      string           `gorm:"type:varchar(100)" json:"name"`
	Values    []AttributeValue `gorm:"foreignKey:AttributeID" json:"values,omitempty"`
}

// AttributeValue is one concrete option on an attribute's axis (e.g. "M").
type AttributeValue struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AttributeID uuid.UUID `gorm:"type:uuid;index:idx_value_attr_value,unique;not null" json:"attribute_id"`
	Value       string    `gorm:"type:varchar(100);index:idx_value_attr_value,unique;not null" json:"value"`
	Position    int       `gorm:"default:0" json:"position"`
}

// Variant is a concrete purchasable item defined by one value per product
// attribute.
type Variant struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null" json:"product_id"`
	SKU       *string         `gorm:"type:varchar(100)" json:"sku,omitempty"`
	Title     *string         `gorm:"type:varchar(255)" json:"title,omitempty"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock     int             `gorm:"default:0" json:"stock"`
	IsActive  bool            `gorm:"default:true" json:"is_active"`

	AttributeValues []VariantAttributeValue `gorm:"foreignKey:VariantID" json:"attribute_values,omitempty"`
}

// VariantAttributeValue links a variant to exactly one value of one product
// attribute.
type VariantAttributeValue struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	VariantID        uuid.UUID `gorm:"type:uuid;index:idx_variant_attr,unique;not null" json:"variant_id"`
	AttributeID      uuid.UUID `gorm:"type:uuid;index:idx_variant_attr,unique;not null" json:"attribute_id"`
	AttributeValueID uuid.UUID `gorm:"type:uuid;not null" json:"attribute_value_id"`
}
