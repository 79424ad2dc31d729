package store

import (
	"context"
	"sync"

	"quote-service/internal/shared"
	"quote-service/internal/util"

	"go.uber.org/zap"
)

// Registry owns the default store and opens override locations on demand.
// Only the default store is kept open; an override lives until its release func is called.
type Registry struct {
	driver          string
	defaultLocation string
	autoMigrate     bool

	mu        sync.Mutex
	def       *Store
	overrides int
	logger    *zap.Logger
}

// NewRegistry creates a registry for driver with a default location
func NewRegistry(driver, defaultLocation string, autoMigrate bool) *Registry {
	return &Registry{
		driver:          driver,
		defaultLocation: defaultLocation,
		autoMigrate:     autoMigrate,
		logger:          util.GetLogger(),
	}
}

// DefaultLocation returns the location used when no override is given
func (r *Registry) DefaultLocation() string {
	return r.defaultLocation
}

// Default returns the store at the default location, opening and migrating it on first use
func (r *Registry) Default(ctx context.Context) (*Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.def != nil {
		return r.def, nil
	}

	s, err := NewStore(r.driver, r.defaultLocation)
	if err != nil {
		return nil, shared.StoreError("open store", err)
	}

	if r.autoMigrate {
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, shared.StoreError("migrate store", err)
		}
	}

	r.def = s
	r.logger.Info("Store opened", zap.String("driver", r.driver))
	return s, nil
}

// Open returns the store at location together with a release func the caller must invoke when done.
// An empty or default location yields the shared default store and a no-op release.
// Override locations are opened as they are, without migration, and closed on release.
func (r *Registry) Open(ctx context.Context, location string) (*Store, func(), error) {
	if location == "" || location == r.defaultLocation {
		s, err := r.Default(ctx)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}

	s, err := NewStore(r.driver, location)
	if err != nil {
		return nil, nil, shared.StoreError("open store", err)
	}

	r.mu.Lock()
	r.overrides++
	r.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			if err := s.Close(); err != nil {
				r.logger.Warn("Failed to close override store", zap.Error(err))
			}
			r.mu.Lock()
			r.overrides--
			r.mu.Unlock()
		})
	}
	return s, release, nil
}

// Close closes the default store
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.def == nil {
		return nil
	}
	err := r.def.Close()
	r.def = nil
	return err
}
