package services

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"

	"storefront/models"
	"storefront/repositories"
)

const productCacheTTL = 10 * time.Minute

type ProductService struct {
	productRepo *repositories.ProductRepository
}

func NewProductService() *ProductService {
	return &ProductService{
		productRepo: repositories.NewProductRepository(),
	}
}

func (s *ProductService) GetProducts(ctx context.Context, filter models.ProductFilter) (*models.PaginationResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 24
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	products, total, err := s.productRepo.GetProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return &models.PaginationResponse{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    products,
		Meta: models.MetaData{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalItems: total,
			TotalPages: totalPages,
		},
	}, nil
}

// GetProductByID serves the product page payload through a redis
// read-through cache; without redis it goes straight to the database.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.ProductDetail, error) {
	cacheKey := "product:" + id

	if models.RedisClient != nil {
		if data, err := models.RedisClient.Get(ctx, cacheKey).Bytes(); err == nil {
			var detail models.ProductDetail
			if json.Unmarshal(data, &detail) == nil {
				return &detail, nil
			}
		}
	}

	detail, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil || detail == nil {
		return detail, err
	}

	if models.RedisClient != nil {
		if data, err := json.Marshal(detail); err == nil {
			if err := models.RedisClient.Set(ctx, cacheKey, data, productCacheTTL).Err(); err != nil {
				log.Println("Failed to cache product:", err)
			}
		}
	}
	return detail, nil
}

func (s *ProductService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.productRepo.GetAllCategories(ctx)
}

func (s *ProductService) GetAllGenders(ctx context.Context) ([]models.Gender, error) {
	return s.productRepo.GetAllGenders(ctx)
}

func (s *ProductService) GetAllColors(ctx context.Context) ([]models.Color, error) {
	return s.productRepo.GetAllColors(ctx)
}

func (s *ProductService) GetAllSizes(ctx context.Context) ([]models.Size, error) {
	return s.productRepo.GetAllSizes(ctx)
}
