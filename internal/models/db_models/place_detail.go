package db_models

import "github.com/lib/pq"

// PlaceDetail caches one Places lookup, keyed by the normalised query.
type PlaceDetail struct {
	BaseModel
	CacheKey       string `gorm:"uniqueIndex;not null"`
	PlaceID        string
	Name           string
	Address        string
	Rating         float32
	PhotoReference string
	Types          pq.StringArray `gorm:"type:text[]"`
}
