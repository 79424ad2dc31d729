package service

import (
	"context"

	"quote-service/internal/models"
	"quote-service/internal/redisclient"
	"quote-service/internal/store"
	"quote-service/internal/util"

	"go.uber.org/zap"
)

// BOMCache caches BOM rows per store namespace
type BOMCache interface {
	GetBOMs(ctx context.Context, namespace string, productIDs []int64) (map[int64][]models.BOMLine, []int64, error)
	SetBOMs(ctx context.Context, namespace string, bom map[int64][]models.BOMLine) error
}

// InventoryClient resolves inventory stores by location and fronts BOM reads with Redis
type InventoryClient struct {
	open            func(ctx context.Context, location string) (InventoryStore, func(), error)
	defaultLocation string
	cache           BOMCache
	logger          *zap.Logger
}

// NewInventoryClient creates a new inventory client. cache may be nil.
func NewInventoryClient(registry *store.Registry, cache *redisclient.Client) *InventoryClient {
	ic := &InventoryClient{
		open: func(ctx context.Context, location string) (InventoryStore, func(), error) {
			s, release, err := registry.Open(ctx, location)
			if err != nil {
				return nil, nil, err
			}
			return s, release, nil
		},
		defaultLocation: registry.DefaultLocation(),
		logger:          util.GetLogger(),
	}
	if cache != nil {
		ic.cache = cache
	}
	return ic
}

// Inventory returns the inventory at location, or the default store for an empty location
func (ic *InventoryClient) Inventory(ctx context.Context, location string) (InventoryStore, func(), error) {
	inv, release, err := ic.open(ctx, location)
	if err != nil {
		return nil, nil, err
	}
	if ic.cache == nil {
		return inv, release, nil
	}

	if location == "" {
		location = ic.defaultLocation
	}
	return &cachedInventory{
		store:     inv,
		cache:     ic.cache,
		namespace: redisclient.Namespace(location),
		logger:    ic.logger,
	}, release, nil
}

type cachedInventory struct {
	store     InventoryStore
	cache     BOMCache
	namespace string
	logger    *zap.Logger
}

// GetBOM reads BOM rows from the cache first (fast path) and loads the misses from the store
func (ci *cachedInventory) GetBOM(ctx context.Context, productIDs []int64) (map[int64][]models.BOMLine, error) {
	ctx, span := util.StartSpan(ctx, "InventoryClient.GetBOM")
	defer span.End()

	hits, missing, err := ci.cache.GetBOMs(ctx, ci.namespace, productIDs)
	if err != nil {
		ci.logger.Warn("BOM cache read failed, falling back to DB", zap.Error(err))
		util.BOMCacheLookups.WithLabelValues("error").Inc()
		return ci.store.GetBOM(ctx, productIDs)
	}

	util.BOMCacheLookups.WithLabelValues("hit").Add(float64(len(hits)))
	if len(missing) == 0 {
		return hits, nil
	}
	util.BOMCacheLookups.WithLabelValues("miss").Add(float64(len(missing)))

	loaded, err := ci.store.GetBOM(ctx, missing)
	if err != nil {
		return nil, err
	}

	if err := ci.cache.SetBOMs(ctx, ci.namespace, loaded); err != nil {
		ci.logger.Warn("Failed to cache BOM rows",
			zap.Int("products", len(loaded)),
			zap.Error(err))
	}

	for id, lines := range loaded {
		hits[id] = lines
	}
	return hits, nil
}

// GetComponents always reads the store; stock levels are not cached
func (ci *cachedInventory) GetComponents(ctx context.Context, componentIDs []int64) (map[int64]models.Component, error) {
	return ci.store.GetComponents(ctx, componentIDs)
}
