package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"kidkicks/internal/domain"
	"kidkicks/internal/middleware"
	"kidkicks/internal/repository"
	"kidkicks/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadSize caps a multipart submission including all image files
const maxUploadSize = 32 << 20

// imageMeta describes one uploaded file in a multipart submission. The file
// itself is carried in a separate part named after the index.
type imageMeta struct {
	Index     int    `json:"index"`
	Color     string `json:"color"`
	IsPrimary bool   `json:"isPrimary"`
}

// ProductListResponse wraps a catalog listing
type ProductListResponse struct {
	Products []*domain.Product `json:"products"`
}

// ProductResponse wraps a single product
type ProductResponse struct {
	Product *domain.Product `json:"product"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all product routes. Write routes run behind the
// supplied admin middleware chain.
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminOnly ...func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(adminOnly...)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles catalog listing with an optional gender filter
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var gender *domain.Gender
	if raw := r.URL.Query().Get("gender"); raw != "" {
		g := domain.Gender(raw)
		if !g.Valid() {
			middleware.RespondWithError(w, http.StatusBadRequest, "unknown gender filter")
			return
		}
		gender = &g
	}

	products, err := h.catalog.ListProducts(r.Context(), gender)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{Products: products})
}

// Get handles fetching a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.String("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{Product: product})
}

// Create handles creating a product from a multipart submission
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid price")
		return
	}

	stock, err := strconv.Atoi(r.FormValue("stock"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid stock")
		return
	}

	sizes, err := parseSizes(r.FormValue("sizes"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sizes")
		return
	}

	images, err := h.collectUploadedImages(r, "imagesMeta", "image_%d")
	if err != nil {
		h.logger.Debug("Image upload rejected", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := domain.ProductInput{
		Name:   r.FormValue("name"),
		Price:  price,
		Gender: domain.Gender(r.FormValue("gender")),
		Season: domain.Season(r.FormValue("season")),
		Stock:  stock,
		Sizes:  sizes,
		Images: images,
	}

	product, err := h.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProduct) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, ProductResponse{Product: product})
}

// Update handles a partial product update from a multipart submission.
// Fields absent from the form keep their stored value; the image list is
// rebuilt from the retained variants plus any newly uploaded files.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	patch, err := h.buildPatch(r)
	if err != nil {
		h.logger.Debug("Update rejected", zap.String("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		if errors.Is(err, service.ErrInvalidProduct) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to update product", zap.String("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusOK, ProductResponse{Product: product})
}

// Delete handles removing a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.catalog.DeleteProduct(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	if !deleted {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted successfully"})
}

// buildPatch assembles a ProductPatch from the fields present in the form
func (h *ProductHandler) buildPatch(r *http.Request) (domain.ProductPatch, error) {
	var patch domain.ProductPatch
	form := r.MultipartForm

	if v, ok := formValue(form.Value, "name"); ok {
		patch.Name = &v
	}
	if v, ok := formValue(form.Value, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return patch, fmt.Errorf("invalid price")
		}
		patch.Price = &price
	}
	if v, ok := formValue(form.Value, "gender"); ok {
		gender := domain.Gender(v)
		patch.Gender = &gender
	}
	if v, ok := formValue(form.Value, "season"); ok {
		season := domain.Season(v)
		patch.Season = &season
	}
	if v, ok := formValue(form.Value, "stock"); ok {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return patch, fmt.Errorf("invalid stock")
		}
		patch.Stock = &stock
	}
	if v, ok := formValue(form.Value, "sizes"); ok {
		sizes, err := parseSizes(v)
		if err != nil {
			return patch, fmt.Errorf("invalid sizes")
		}
		patch.Sizes = sizes
	}

	existingRaw, hasExisting := formValue(form.Value, "existingImages")
	_, hasNew := formValue(form.Value, "newImagesData")
	if hasExisting || hasNew {
		images := []domain.ProductImage{}
		if hasExisting && existingRaw != "" {
			if err := json.Unmarshal([]byte(existingRaw), &images); err != nil {
				return patch, fmt.Errorf("invalid existingImages")
			}
		}

		newImages, err := h.collectUploadedImages(r, "newImagesData", "new_image_%d")
		if err != nil {
			return patch, err
		}

		patch.Images = append(images, newImages...)
	}

	return patch, nil
}

// collectUploadedImages reads the metadata field and the file part of every
// uploaded image, returning variants with base64-encoded payloads
func (h *ProductHandler) collectUploadedImages(r *http.Request, metaField, filePattern string) ([]domain.ProductImage, error) {
	metaRaw := r.FormValue(metaField)
	if metaRaw == "" {
		return nil, nil
	}

	var metas []imageMeta
	if err := json.Unmarshal([]byte(metaRaw), &metas); err != nil {
		return nil, fmt.Errorf("invalid %s", metaField)
	}

	images := make([]domain.ProductImage, 0, len(metas))
	for _, meta := range metas {
		file, header, err := r.FormFile(fmt.Sprintf(filePattern, meta.Index))
		if err != nil {
			return nil, fmt.Errorf("missing file for image %d", meta.Index)
		}

		raw, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read image %d", meta.Index)
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = http.DetectContentType(raw)
		}

		images = append(images, domain.ProductImage{
			Color:         meta.Color,
			ImageData:     repository.EncodeImageData(raw),
			ImageMimeType: mimeType,
			IsPrimary:     meta.IsPrimary,
		})
	}

	return images, nil
}

func parseSizes(raw string) ([]int, error) {
	var sizes []int
	if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
		return nil, err
	}
	return sizes, nil
}

func formValue(values map[string][]string, key string) (string, bool) {
	vals, ok := values[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}
