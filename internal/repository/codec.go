package repository

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"kidkicks/internal/domain"
)

// Field names of the product hash. The store only holds flat text, so
// sizes and images are kept as their JSON-encoded form and every read
// re-parses them.
const (
	fieldID        = "id"
	fieldName      = "name"
	fieldPrice     = "price"
	fieldGender    = "gender"
	fieldSeason    = "season"
	fieldStock     = "stock"
	fieldSizes     = "sizes"
	fieldImages    = "images"
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
)

// encodeProduct maps a product onto the flat string fields of its hash
func encodeProduct(p *domain.Product) (map[string]string, error) {
	sizes, err := encodeSizes(p.Sizes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sizes: %w", err)
	}

	images, err := encodeImages(p.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode images: %w", err)
	}

	return map[string]string{
		fieldID:        p.ID,
		fieldName:      p.Name,
		fieldPrice:     strconv.FormatFloat(p.Price, 'f', -1, 64),
		fieldGender:    string(p.Gender),
		fieldSeason:    string(p.Season),
		fieldStock:     strconv.Itoa(p.Stock),
		fieldSizes:     sizes,
		fieldImages:    images,
		fieldCreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		fieldUpdatedAt: p.UpdatedAt.Format(time.RFC3339Nano),
	}, nil
}

// decodeProduct rebuilds a product from its flat hash fields. Any field
// that fails to parse makes the whole record undecodable.
func decodeProduct(fields map[string]string) (*domain.Product, error) {
	id := fields[fieldID]
	if id == "" {
		return nil, fmt.Errorf("product record has no id")
	}

	price, err := strconv.ParseFloat(fields[fieldPrice], 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", fields[fieldPrice], err)
	}

	stock, err := strconv.Atoi(fields[fieldStock])
	if err != nil {
		return nil, fmt.Errorf("failed to parse stock %q: %w", fields[fieldStock], err)
	}

	gender := domain.Gender(fields[fieldGender])
	if !gender.Valid() {
		return nil, fmt.Errorf("unknown gender %q", fields[fieldGender])
	}

	season := domain.Season(fields[fieldSeason])
	if !season.Valid() {
		return nil, fmt.Errorf("unknown season %q", fields[fieldSeason])
	}

	sizes, err := decodeSizes(fields[fieldSizes])
	if err != nil {
		return nil, fmt.Errorf("failed to decode sizes: %w", err)
	}

	images, err := decodeImages(fields[fieldImages])
	if err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}

	createdAt, err := parseTimestamp(fields[fieldCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("failed to parse createdAt: %w", err)
	}

	updatedAt, err := parseTimestamp(fields[fieldUpdatedAt])
	if err != nil {
		return nil, fmt.Errorf("failed to parse updatedAt: %w", err)
	}

	return &domain.Product{
		ID:        id,
		Name:      fields[fieldName],
		Price:     price,
		Gender:    gender,
		Season:    season,
		Stock:     stock,
		Sizes:     sizes,
		Images:    images,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// encodeSizes serializes a size list into its canonical JSON text form
func encodeSizes(sizes []int) (string, error) {
	if sizes == nil {
		sizes = []int{}
	}
	data, err := json.Marshal(sizes)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeSizes parses the JSON text form back into a size list. An empty
// field decodes to an empty list.
func decodeSizes(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	var sizes []int
	if err := json.Unmarshal([]byte(s), &sizes); err != nil {
		return nil, err
	}
	return sizes, nil
}

// encodeImages serializes the image list order-preserving into JSON text
func encodeImages(images []domain.ProductImage) (string, error) {
	if images == nil {
		images = []domain.ProductImage{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeImages parses the JSON text form back into an image list
func decodeImages(s string) ([]domain.ProductImage, error) {
	if s == "" {
		return []domain.ProductImage{}, nil
	}
	var images []domain.ProductImage
	if err := json.Unmarshal([]byte(s), &images); err != nil {
		return nil, err
	}
	return images, nil
}

// parseTimestamp accepts RFC3339 with or without fractional seconds, which
// covers both repository-written and seed-written records
func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// EncodeImageData converts a raw image payload to its printable text form
func EncodeImageData(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeImageData reverses EncodeImageData, losslessly
func DecodeImageData(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}
