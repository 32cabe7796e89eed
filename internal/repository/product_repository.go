package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"kidkicks/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// Key layout: one hash per product, one set of all ids, one set of ids per
// gender. The record write and the index writes are independent calls, not
// a transaction; list operations tolerate the gaps this can leave.
const productsKey = "products"

func productKey(id string) string {
	return "product:" + id
}

func genderKey(g domain.Gender) string {
	return "products:gender:" + string(g)
}

// ProductRepository is the only authorized path for persisting, retrieving
// and removing product aggregates, and for keeping the gender index
// consistent with stored data.
type ProductRepository interface {
	Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	ListAll(ctx context.Context) ([]*domain.Product, error)
	ListByGender(ctx context.Context, gender domain.Gender) ([]*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type productRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(client *redis.Client, logger *zap.Logger) ProductRepository {
	return &productRepository{client: client, logger: logger}
}

// newProductID combines a millisecond timestamp with a UUID fragment so ids
// cannot collide across the process lifetime
func newProductID() string {
	return fmt.Sprintf("product_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Create persists a new product and registers it in the global and
// gender-specific indexes
func (r *productRepository) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	now := time.Now().UTC()

	product := &domain.Product{
		ID:        newProductID(),
		Name:      input.Name,
		Price:     input.Price,
		Gender:    input.Gender,
		Season:    input.Season,
		Stock:     input.Stock,
		Sizes:     input.Sizes,
		Images:    input.Images,
		CreatedAt: now,
		UpdatedAt: now,
	}

	fields, err := encodeProduct(product)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product: %w", err)
	}

	if err := r.client.HSet(ctx, productKey(product.ID), fields).Err(); err != nil {
		return nil, fmt.Errorf("failed to store product: %w", err)
	}

	if err := r.client.SAdd(ctx, productsKey, product.ID).Err(); err != nil {
		return nil, fmt.Errorf("failed to index product: %w", err)
	}

	if err := r.client.SAdd(ctx, genderKey(product.Gender), product.ID).Err(); err != nil {
		return nil, fmt.Errorf("failed to index product by gender: %w", err)
	}

	return product, nil
}

// FindByID retrieves a single product. An absent or tombstoned record
// yields ErrProductNotFound; an undecodable record is an error.
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	fields, err := r.client.HGetAll(ctx, productKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if len(fields) == 0 {
		return nil, ErrProductNotFound
	}

	product, err := decodeProduct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to decode product %s: %w", id, err)
	}

	return product, nil
}

// ListAll returns every indexed product, most recently created first
func (r *productRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	return r.listFromSet(ctx, productsKey)
}

// ListByGender returns the products in one gender index, most recently
// created first
func (r *productRepository) ListByGender(ctx context.Context, gender domain.Gender) ([]*domain.Product, error) {
	return r.listFromSet(ctx, genderKey(gender))
}

// listFromSet fans out over the ids of an index set. Ids whose record is
// missing or undecodable are skipped rather than failing the listing; a
// store failure is propagated.
func (r *productRepository) listFromSet(ctx context.Context, setKey string) ([]*domain.Product, error) {
	ids, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list product ids: %w", err)
	}

	products := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		fields, err := r.client.HGetAll(ctx, productKey(id)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to load product %s: %w", id, err)
		}

		if len(fields) == 0 {
			// dangling index entry
			continue
		}

		product, err := decodeProduct(fields)
		if err != nil {
			r.logger.Warn("Skipping undecodable product record",
				zap.String("product_id", id),
				zap.Error(err),
			)
			continue
		}

		products = append(products, product)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	return products, nil
}

// Update merges a partial patch over the stored record. Omitted fields keep
// their prior value; Sizes and Images replace the stored lists wholesale.
// A gender change re-homes the id from the old gender index to the new one.
func (r *productRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousGender := product.Gender
	applyPatch(product, patch)
	product.UpdatedAt = time.Now().UTC()

	fields, err := encodeProduct(product)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product: %w", err)
	}

	if err := r.client.HSet(ctx, productKey(id), fields).Err(); err != nil {
		return nil, fmt.Errorf("failed to store product: %w", err)
	}

	if product.Gender != previousGender {
		if err := r.client.SRem(ctx, genderKey(previousGender), id).Err(); err != nil {
			return nil, fmt.Errorf("failed to remove product from gender index: %w", err)
		}
		if err := r.client.SAdd(ctx, genderKey(product.Gender), id).Err(); err != nil {
			return nil, fmt.Errorf("failed to index product by gender: %w", err)
		}
	}

	return product, nil
}

// Delete removes the record and every index membership. Deleting an absent
// id reports false with no side effects.
func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	// the stored gender decides which index membership to remove
	product, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := r.client.SRem(ctx, productsKey, id).Err(); err != nil {
		return false, fmt.Errorf("failed to deindex product: %w", err)
	}

	if err := r.client.SRem(ctx, genderKey(product.Gender), id).Err(); err != nil {
		return false, fmt.Errorf("failed to deindex product by gender: %w", err)
	}

	if err := r.client.Del(ctx, productKey(id)).Err(); err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	return true, nil
}

// applyPatch performs the shallow field-by-field merge of Update
func applyPatch(product *domain.Product, patch domain.ProductPatch) {
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Gender != nil {
		product.Gender = *patch.Gender
	}
	if patch.Season != nil {
		product.Season = *patch.Season
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.Sizes != nil {
		product.Sizes = patch.Sizes
	}
	if patch.Images != nil {
		product.Images = patch.Images
	}
}
