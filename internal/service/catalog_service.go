package service

import (
	"context"
	"errors"
	"fmt"

	"kidkicks/internal/domain"
	"kidkicks/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidProduct = errors.New("invalid product data")
)

// CatalogService is the business layer between the HTTP handlers and the
// product repository. It validates input and keeps the primary-image rule:
// whenever a product carries images, exactly one is flagged primary.
type CatalogService interface {
	CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, gender *domain.Gender) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// CreateProduct validates the input, completes the image list and persists
// the new product
func (s *catalogService) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	input.Images = normalizeImages(input.Images)

	product, err := s.productRepo.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProduct retrieves a single product by id
func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// ListProducts returns the catalog, optionally narrowed to one gender
func (s *catalogService) ListProducts(ctx context.Context, gender *domain.Gender) ([]*domain.Product, error) {
	if gender != nil {
		return s.productRepo.ListByGender(ctx, *gender)
	}
	return s.productRepo.ListAll(ctx)
}

// UpdateProduct validates the patch, completes any replacement image list
// and merges it over the stored record
func (s *catalogService) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	if patch.Images != nil {
		patch.Images = normalizeImages(patch.Images)
	}

	return s.productRepo.Update(ctx, id, patch)
}

// DeleteProduct removes a product; absent ids report false
func (s *catalogService) DeleteProduct(ctx context.Context, id string) (bool, error) {
	return s.productRepo.Delete(ctx, id)
}

func validateInput(input domain.ProductInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if input.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if input.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	if !input.Gender.Valid() {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProduct, input.Gender)
	}
	if !input.Season.Valid() {
		return fmt.Errorf("%w: unknown season %q", ErrInvalidProduct, input.Season)
	}
	if len(input.Images) == 0 {
		return fmt.Errorf("%w: at least one image is required", ErrInvalidProduct)
	}
	return validateImages(input.Images)
}

func validatePatch(patch domain.ProductPatch) error {
	if patch.Name != nil && *patch.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidProduct)
	}
	if patch.Price != nil && *patch.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	if patch.Gender != nil && !patch.Gender.Valid() {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProduct, *patch.Gender)
	}
	if patch.Season != nil && !patch.Season.Valid() {
		return fmt.Errorf("%w: unknown season %q", ErrInvalidProduct, *patch.Season)
	}
	if patch.Images != nil {
		if len(patch.Images) == 0 {
			return fmt.Errorf("%w: image list must not be emptied", ErrInvalidProduct)
		}
		return validateImages(patch.Images)
	}
	return nil
}

func validateImages(images []domain.ProductImage) error {
	for _, img := range images {
		if img.Color == "" {
			return fmt.Errorf("%w: image color is required", ErrInvalidProduct)
		}
	}
	return nil
}

// normalizeImages assigns ids to new images and demotes extra primary flags
// so exactly one image is primary
func normalizeImages(images []domain.ProductImage) []domain.ProductImage {
	normalized := make([]domain.ProductImage, len(images))
	copy(normalized, images)

	primarySeen := false
	for i := range normalized {
		if normalized[i].ID == "" {
			normalized[i].ID = newImageID()
		}
		if normalized[i].IsPrimary {
			if primarySeen {
				normalized[i].IsPrimary = false
			}
			primarySeen = true
		}
	}

	if !primarySeen && len(normalized) > 0 {
		normalized[0].IsPrimary = true
	}

	return normalized
}

func newImageID() string {
	return "img_" + uuid.NewString()
}
