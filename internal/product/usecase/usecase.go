package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warungpos/pos-service/internal/apperr"
	"github.com/warungpos/pos-service/internal/category"
	"github.com/warungpos/pos-service/internal/model"
	"github.com/warungpos/pos-service/internal/platform/cache"
	"github.com/warungpos/pos-service/internal/platform/logger"
	"github.com/warungpos/pos-service/internal/platform/search"
	"github.com/warungpos/pos-service/internal/product"
	"github.com/warungpos/pos-service/internal/product/dto"
)

const productsIndex = "products"

type productUseCase struct {
	repo       product.Repository
	categories category.Repository
	cache      *cache.RedisClient
	es         *search.Client
	logger     logger.Logger
}

// NewProductUseCase builds the catalog usecase. cache and es may be nil; the
// usecase then serves everything straight from the repository.
func NewProductUseCase(repo product.Repository, categories category.Repository, cache *cache.RedisClient, es *search.Client, log logger.Logger) product.UseCase {
	return &productUseCase{
		repo:       repo,
		categories: categories,
		cache:      cache,
		es:         es,
		logger:     log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if input.Name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if input.Price < 0 {
		return nil, apperr.Validation("product price must not be negative")
	}
	if input.Stock < 0 {
		return nil, apperr.Validation("product stock must not be negative")
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID:  optional(input.CategoryID),
		Name:        input.Name,
		Description: optional(input.Description),
		Price:       input.Price,
		Stock:       input.Stock,
		PictureURL:  optional(input.PictureURL),
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, &apperr.StoreWriteError{Step: "product creation", Err: err}
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &apperr.StoreReadError{Op: "product lookup", Err: err}
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}

	// Joined data for the detail view; a failed lookup just leaves it nil.
	if p.CategoryID != nil && uc.categories != nil {
		if cat, err := uc.categories.FindByID(ctx, *p.CategoryID); err == nil {
			p.Category = cat
		}
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	cacheKey := ""
	if uc.cache != nil {
		cacheKey = generateCacheKey(filters)
		if val, err := uc.cache.Client.Get(ctx, cacheKey).Result(); err == nil {
			var cached []model.Product
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	// Serve name search from Elasticsearch when available, SQL ILIKE otherwise.
	if filters.SearchQuery != "" && uc.es != nil {
		products, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, nil
		}
		uc.logger.Error("elasticsearch search failed, falling back to database", zap.Error(err))
	}

	products, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, &apperr.StoreReadError{Op: "product listing", Err: err}
	}

	if uc.cache != nil && cacheKey != "" {
		if data, err := json.Marshal(products); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return products, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, &apperr.StoreReadError{Op: "product lookup", Err: err}
	}
	if p == nil {
		return nil, apperr.ErrNotFound
	}
	if input.Name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if input.Price < 0 {
		return nil, apperr.Validation("product price must not be negative")
	}
	if input.Stock < 0 {
		return nil, apperr.Validation("product stock must not be negative")
	}

	p.CategoryID = optional(input.CategoryID)
	p.Name = input.Name
	p.Description = optional(input.Description)
	p.Price = input.Price
	p.Stock = input.Stock
	p.PictureURL = optional(input.PictureURL)
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, &apperr.StoreWriteError{Step: "product update", Err: err}
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return &apperr.StoreReadError{Op: "product lookup", Err: err}
	}
	if p == nil {
		return nil // Already deleted
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return &apperr.StoreWriteError{Step: "product deletion", Err: err}
	}

	go uc.invalidateProductCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), productsIndex, id); err != nil {
				uc.logger.Error("failed to delete product from index", zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "description"},
			},
		},
	}
	if filters.CategoryID != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"category_id": filters.CategoryID},
		})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}

	res, err := uc.es.Search(ctx, productsIndex, q)
	if err != nil {
		return nil, err
	}

	products := []model.Product{}
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"name": { "type": "text" },
				"description": { "type": "text" },
				"category_id": { "type": "keyword" },
				"price": { "type": "double" },
				"stock": { "type": "integer" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, productsIndex, mapping)

	if err := uc.es.Index(ctx, productsIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}

func generateCacheKey(filters *dto.ProductFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data))
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, "products:list:*"); err != nil {
		uc.logger.Error("failed to invalidate product cache", zap.Error(err))
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
