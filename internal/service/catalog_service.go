package service

import (
	"context"

	"quote-service/internal/models"
	"quote-service/internal/util"

	"go.uber.org/zap"
)

// ProductStore lists products with how many units current stock can build
type ProductStore interface {
	ListProductAvailability(ctx context.Context) ([]models.ProductAvailability, error)
}

// CatalogService serves the product catalog of the default store
type CatalogService struct {
	store  ProductStore
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store ProductStore) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ListProducts returns every product ordered by ID
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.ProductAvailability, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	products, err := s.store.ListProductAvailability(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	return products, nil
}
