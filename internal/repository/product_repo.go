package repository

import (
	"context"
	"errors"
	"time"

	"go-catalog-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrSlugTaken maps the unique index violation on product slug.
	ErrSlugTaken = errors.New("product slug already in use")
	// ErrProductNotFound is returned when the target product row does not exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrConcurrentModification is returned when the guarded update loses the
	// compare-and-swap on updated_at. The message is what the HTTP layer keys
	// its 409 mapping on.
	ErrConcurrentModification = errors.New("product was modified by another user, reload and try again")
)

type ProductRepository interface {
	CreateCatalog(ctx context.Context, req *model.CreateProductRequest, createdBy string) (uuid.UUID, error)
	UpdateGuarded(ctx context.Context, id uuid.UUID, expectedUpdatedAt time.Time, fields map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

// CreateCatalog persists the product together with its attribute matrix and
// variants in a single transaction. Any failure rolls the whole graph back;
// no reader ever observes a product without its variants.
func (r *productRepo) CreateCatalog(ctx context.Context, req *model.CreateProductRequest, createdBy string) (uuid.UUID, error) {
	var productID uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product := model.Product{
			Name:             req.Product.Name,
			Slug:             req.Product.Slug,
			Description:      req.Product.Description,
			ShortDescription: req.Product.ShortDescription,
			Status:           req.Product.Status,
		}
		product.CreatedBy = createdBy
		product.UpdatedBy = createdBy

		if err := tx.Create(&product).Error; err != nil {
			return err
		}

		// Insert attributes and values, indexing value ids by code/value for
		// the variant assignment rows below.
		attrIDs := make(map[string]uuid.UUID, len(req.Attributes))
		valueIDs := make(map[string]map[string]uuid.UUID, len(req.Attributes))
		for _, a := range req.Attributes {
			attr := model.ProductAttribute{
				ID:        uuid.New(),
				ProductID: product.ID,
				Code:      a.Code,
				Name:      a.Name,
			}
			if err := tx.Create(&attr).Error; err != nil {
				return err
			}
			attrIDs[a.Code] = attr.ID
			valueIDs[a.Code] = make(map[string]uuid.UUID, len(a.Values))

			for pos, v := range a.Values {
				val := model.AttributeValue{
					ID:          uuid.New(),
					AttributeID: attr.ID,
					Value:       v,
					Position:    pos,
				}
				if err := tx.Create(&val).Error; err != nil {
					return err
				}
				valueIDs[a.Code][v] = val.ID
			}
		}

		for _, v := range req.Variants {
			variant := model.Variant{
				ID:        uuid.New(),
				ProductID: product.ID,
				SKU:       v.SKU,
				Title:     v.Title,
				Price:     v.Price,
			}
			if v.Stock != nil {
				variant.Stock = *v.Stock
			}
			if v.IsActive != nil {
				variant.IsActive = *v.IsActive
			} else {
				variant.IsActive = true
			}
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}

			for code, value := range v.Attributes {
				valueID, ok := valueIDs[code][value]
				if !ok {
					// The matrix builder rejects this before the write path,
					// but the writer must not trust its callers blindly.
					return gorm.ErrForeignKeyViolated
				}
				link := model.VariantAttributeValue{
					ID:               uuid.New(),
					VariantID:        variant.ID,
					AttributeID:      attrIDs[code],
					AttributeValueID: valueID,
				}
				if err := tx.Create(&link).Error; err != nil {
					return err
				}
			}
		}

		productID = product.ID
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return uuid.Nil, ErrSlugTaken
		}
		return uuid.Nil, err
	}
	return productID, nil
}

// UpdateGuarded applies the given fields only if the persisted updated_at
// still equals expectedUpdatedAt. Comparison and write happen in one
// conditional UPDATE so there is no read-check-write window.
func (r *productRepo) UpdateGuarded(ctx context.Context, id uuid.UUID, expectedUpdatedAt time.Time, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields["updated_at"] = time.Now().UTC()

		res := tx.Model(&model.Product{}).
			Where("id = ? AND updated_at = ?", id, expectedUpdatedAt).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Distinguish a missing row from a stale timestamp.
			var count int64
			if err := tx.Model(&model.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrProductNotFound
			}
			return ErrConcurrentModification
		}
		return nil
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Attributes.Values").
		Preload("Variants.AttributeValues").
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
