package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dayout/internal/models/db_models"
)

type PlaceCacheRepository interface {
	// Get returns nil, nil when nothing fresh is cached under key.
	Get(ctx context.Context, key string) (*db_models.PlaceDetail, error)
	Save(ctx context.Context, place *db_models.PlaceDetail) error
}

type placeCacheRepository struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewPlaceCacheRepository(db *gorm.DB, ttl time.Duration) PlaceCacheRepository {
	return &placeCacheRepository{db: db, ttl: ttl}
}

func (r *placeCacheRepository) Get(ctx context.Context, key string) (*db_models.PlaceDetail, error) {
	var place db_models.PlaceDetail
	err := r.db.WithContext(ctx).
		Where("cache_key = ? AND updated_at >= ?", key, time.Now().Add(-r.ttl).Unix()).
		First(&place).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read place cache: %w", err)
	}
	return &place, nil
}

func (r *placeCacheRepository) Save(ctx context.Context, place *db_models.PlaceDetail) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"place_id", "name", "address", "rating", "photo_reference", "types", "updated_at"}),
	}).Create(place).Error
	if err != nil {
		return fmt.Errorf("failed to save place cache: %w", err)
	}
	return nil
}

// memoryPlaceCache is used when no database is configured.
type memoryPlaceCache struct {
	items *cache.Cache
}

func NewMemoryPlaceCache(ttl time.Duration) PlaceCacheRepository {
	return &memoryPlaceCache{items: cache.New(ttl, 2*ttl)}
}

func (m *memoryPlaceCache) Get(_ context.Context, key string) (*db_models.PlaceDetail, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, nil
	}
	place := v.(db_models.PlaceDetail)
	return &place, nil
}

func (m *memoryPlaceCache) Save(_ context.Context, place *db_models.PlaceDetail) error {
	m.items.SetDefault(place.CacheKey, *place)
	return nil
}
