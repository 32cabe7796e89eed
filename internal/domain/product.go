package domain

import "time"

// Gender partitions the catalog into its shopper categories
type Gender string

const (
	GenderBoys  Gender = "boys"
	GenderGirls Gender = "girls"
)

// Valid reports whether g is one of the known catalog genders
func (g Gender) Valid() bool {
	return g == GenderBoys || g == GenderGirls
}

// Genders lists every valid gender value
func Genders() []Gender {
	return []Gender{GenderBoys, GenderGirls}
}

// Season tags a product with the time of year it is sold for
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
)

// Valid reports whether s is one of the known seasons
func (s Season) Valid() bool {
	return s == SeasonWinter || s == SeasonSummer || s == SeasonAutumn
}

// LowStockThreshold is the largest stock count still shown as "low stock"
const LowStockThreshold = 5

// ProductImage is one color variant of a product. The payload is carried
// base64-encoded so the whole variant can live inside a text-oriented store.
type ProductImage struct {
	ID            string `json:"id"`
	Color         string `json:"color"`
	ImageData     string `json:"imageData"`
	ImageMimeType string `json:"imageMimeType"`
	IsPrimary     bool   `json:"isPrimary"`
}

// Product represents a sellable item in the catalog
type Product struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Price     float64        `json:"price"`
	Gender    Gender         `json:"gender"`
	Season    Season         `json:"season"`
	Stock     int            `json:"stock"`
	Sizes     []int          `json:"sizes"`
	Images    []ProductImage `json:"images"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ProductInput carries the caller-supplied fields for a new product.
// ID and timestamps are assigned by the repository.
type ProductInput struct {
	Name   string         `json:"name"`
	Price  float64        `json:"price"`
	Gender Gender         `json:"gender"`
	Season Season         `json:"season"`
	Stock  int            `json:"stock"`
	Sizes  []int          `json:"sizes"`
	Images []ProductImage `json:"images"`
}

// ProductPatch is a partial update. Nil scalar fields keep their stored
// value. Sizes and Images, when non-nil, replace the stored lists wholesale.
type ProductPatch struct {
	Name   *string        `json:"name,omitempty"`
	Price  *float64       `json:"price,omitempty"`
	Gender *Gender        `json:"gender,omitempty"`
	Season *Season        `json:"season,omitempty"`
	Stock  *int           `json:"stock,omitempty"`
	Sizes  []int          `json:"sizes,omitempty"`
	Images []ProductImage `json:"images,omitempty"`
}

// PrimaryImage returns the image flagged as primary, falling back to the
// first image in list order, or nil for an empty list.
func PrimaryImage(images []ProductImage) *ProductImage {
	for i := range images {
		if images[i].IsPrimary {
			return &images[i]
		}
	}
	if len(images) > 0 {
		return &images[0]
	}
	return nil
}

// IsOutOfStock reports whether the product cannot be ordered
func (p *Product) IsOutOfStock() bool {
	return p.Stock == 0
}

// IsLowStock reports whether the product should be displayed with a
// low-stock warning
func (p *Product) IsLowStock() bool {
	return p.Stock > 0 && p.Stock <= LowStockThreshold
}
