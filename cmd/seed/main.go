package main

import (
	"context"
	"time"

	"kidkicks/internal/config"
	"kidkicks/internal/database"
	"kidkicks/internal/domain"
	"kidkicks/internal/logger"
	"kidkicks/internal/repository"
	"kidkicks/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// placeholderPNG is a 1x1 transparent PNG, already base64-encoded
const placeholderPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func image(color string, primary bool) domain.ProductImage {
	return domain.ProductImage{
		Color:         color,
		ImageData:     placeholderPNG,
		ImageMimeType: "image/png",
		IsPrimary:     primary,
	}
}

var fixtures = []domain.ProductInput{
	{
		Name:   "Lightning Bolt Runners",
		Price:  45.99,
		Gender: domain.GenderBoys,
		Season: domain.SeasonSummer,
		Stock:  15,
		Sizes:  []int{16, 17, 18, 19, 20},
		Images: []domain.ProductImage{image("Blue", true), image("Red", false)},
	},
	{
		Name:   "Rainbow Sparkle Shoes",
		Price:  42.99,
		Gender: domain.GenderGirls,
		Season: domain.SeasonSummer,
		Stock:  8,
		Sizes:  []int{16, 17, 18, 21, 22},
		Images: []domain.ProductImage{image("Rainbow", true), image("Pink", false)},
	},
	{
		Name:   "Space Explorer Kicks",
		Price:  48.99,
		Gender: domain.GenderBoys,
		Season: domain.SeasonWinter,
		Stock:  0, // out of stock
		Sizes:  []int{17, 18, 19, 23, 24, 25},
		Images: []domain.ProductImage{image("Black", true)},
	},
	{
		Name:   "Autumn Leaf Sneakers",
		Price:  44.99,
		Gender: domain.GenderGirls,
		Season: domain.SeasonAutumn,
		Stock:  3, // low stock
		Sizes:  []int{16, 17, 18, 19, 20, 21},
		Images: []domain.ProductImage{image("Orange", true), image("Brown", false), image("Yellow", false)},
	},
	{
		Name:   "Winter Snow Boots",
		Price:  52.99,
		Gender: domain.GenderBoys,
		Season: domain.SeasonWinter,
		Stock:  12,
		Sizes:  []int{18, 19, 20, 21, 22, 23, 24, 25},
		Images: []domain.ProductImage{image("White", true), image("Gray", false)},
	},
}

// main clears every product key and repopulates the store with fixtures.
// One-shot utility for development and demos, not part of the runtime.
func main() {
	if err := godotenv.Load(); err != nil {
		// No .env is fine, the environment may carry the config
	}

	cfg := config.Load()
	log := logger.NewWithDefaults()
	defer log.Sync()

	store := database.New(&cfg.Redis)
	defer store.Close()

	client := store.Client()
	ctx := context.Background()

	// Clear existing data before reseeding
	ids, err := client.SMembers(ctx, "products").Result()
	if err != nil {
		log.Fatal("Failed to read product index", zap.Error(err))
	}
	for _, id := range ids {
		if err := client.Del(ctx, "product:"+id).Err(); err != nil {
			log.Fatal("Failed to delete product", zap.String("product_id", id), zap.Error(err))
		}
	}
	keys := []string{"products"}
	for _, g := range domain.Genders() {
		keys = append(keys, "products:gender:"+string(g))
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		log.Fatal("Failed to clear indexes", zap.Error(err))
	}

	catalog := service.NewCatalogService(repository.NewProductRepository(client, log))

	for _, input := range fixtures {
		product, err := catalog.CreateProduct(ctx, input)
		if err != nil {
			log.Fatal("Failed to seed product", zap.String("name", input.Name), zap.Error(err))
		}

		log.Info("Created product",
			zap.String("product_id", product.ID),
			zap.String("name", product.Name),
			zap.Int("stock", product.Stock),
			zap.String("season", string(product.Season)),
			zap.Int("colors", len(product.Images)),
		)

		// Small delay keeps creation timestamps distinct for ordering
		time.Sleep(10 * time.Millisecond)
	}

	log.Info("Seeding completed", zap.Int("products", len(fixtures)))
}
