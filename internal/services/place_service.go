package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"dayout/internal/models/db_models"
	"dayout/internal/models/response_models"
	"dayout/internal/repositories"
	"dayout/pkg/utils"
)

const (
	// PlacePhotoPath is served by the API; clients never see the Maps key.
	PlacePhotoPath     = "/places/photo"
	placePhotoMaxWidth = 400
	maxPlacePhotoBytes = 5 << 20
)

// PlaceFinder is the slice of *maps.Client the place service uses.
type PlaceFinder interface {
	FindPlaceFromText(ctx context.Context, r *maps.FindPlaceFromTextRequest) (maps.FindPlaceFromTextResponse, error)
	PlacePhoto(ctx context.Context, r *maps.PlacePhotoRequest) (maps.PlacePhotoResponse, error)
}

type PlaceServiceInterface interface {
	Lookup(ctx context.Context, name, location string) (*response_models.PlaceResponse, error)
	// Photo returns the image for a reference previously handed out by Lookup.
	Photo(ctx context.Context, ref string) (*response_models.PlacePhoto, error)
}

type PlaceService struct {
	finder PlaceFinder
	cache  repositories.PlaceCacheRepository
	// issued holds photo references returned by Lookup; photos holds fetched
	// images. Only issued references are fetched, once per ttl.
	issued *cache.Cache
	photos *cache.Cache
	log    *zap.Logger
}

// NewPlaceService returns a service that answers ErrPlacesDisabled when
// finder is nil.
func NewPlaceService(finder PlaceFinder, cache repositories.PlaceCacheRepository, photoTTL time.Duration, log *zap.Logger) PlaceServiceInterface {
	return &PlaceService{
		finder: finder,
		cache:  cache,
		issued: newTTLCache(photoTTL),
		photos: newTTLCache(photoTTL),
		log:    log,
	}
}

func newTTLCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return cache.New(ttl, 2*ttl)
}

func (s *PlaceService) Lookup(ctx context.Context, name, location string) (*response_models.PlaceResponse, error) {
	if s.finder == nil {
		return nil, utils.ErrPlacesDisabled
	}
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", utils.ErrInvalidInput)
	}

	key := placeCacheKey(name, location)
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		// a broken cache only costs an extra upstream call
		s.log.Warn("place cache read failed", zap.String("key", key), zap.Error(err))
	}
	if cached != nil {
		resp := s.toResponse(cached)
		resp.Cached = true
		return resp, nil
	}

	query := name
	if location != "" {
		query = name + ", " + location
	}
	res, err := s.finder.FindPlaceFromText(ctx, &maps.FindPlaceFromTextRequest{
		Input:     query,
		InputType: maps.FindPlaceFromTextInputTypeTextQuery,
		Fields: []maps.PlaceSearchFieldMask{
			maps.PlaceSearchFieldMaskPlaceID,
			maps.PlaceSearchFieldMaskName,
			maps.PlaceSearchFieldMaskFormattedAddress,
			maps.PlaceSearchFieldMaskRating,
			maps.PlaceSearchFieldMaskPhotos,
			maps.PlaceSearchFieldMaskTypes,
		},
	})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return nil, utils.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("%w: find place %q: %w", utils.ErrPlacesUnavailable, query, err)
	}
	if len(res.Candidates) == 0 {
		return nil, utils.ErrPlaceNotFound
	}

	c := res.Candidates[0]
	detail := &db_models.PlaceDetail{
		CacheKey: key,
		PlaceID:  c.PlaceID,
		Name:     c.Name,
		Address:  c.FormattedAddress,
		Rating:   c.Rating,
		Types:    c.Types,
	}
	if len(c.Photos) > 0 {
		detail.PhotoReference = c.Photos[0].PhotoReference
	}
	if err := s.cache.Save(ctx, detail); err != nil {
		s.log.Warn("place cache write failed", zap.String("key", key), zap.Error(err))
	}
	return s.toResponse(detail), nil
}

func (s *PlaceService) Photo(ctx context.Context, ref string) (*response_models.PlacePhoto, error) {
	if s.finder == nil {
		return nil, utils.ErrPlacesDisabled
	}
	if ref == "" {
		return nil, fmt.Errorf("%w: ref is required", utils.ErrInvalidInput)
	}
	if v, ok := s.photos.Get(ref); ok {
		photo := v.(response_models.PlacePhoto)
		return &photo, nil
	}
	if _, ok := s.issued.Get(ref); !ok {
		return nil, utils.ErrPlaceNotFound
	}

	res, err := s.finder.PlacePhoto(ctx, &maps.PlacePhotoRequest{
		PhotoReference: ref,
		MaxWidth:       placePhotoMaxWidth,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: place photo: %w", utils.ErrPlacesUnavailable, err)
	}
	defer res.Data.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(res.Data, maxPlacePhotoBytes)); err != nil {
		return nil, fmt.Errorf("%w: read place photo: %w", utils.ErrPlacesUnavailable, err)
	}

	photo := response_models.PlacePhoto{ContentType: res.ContentType, Data: buf.Bytes()}
	if photo.ContentType == "" {
		photo.ContentType = "image/jpeg"
	}
	s.photos.SetDefault(ref, photo)
	return &photo, nil
}

func (s *PlaceService) toResponse(d *db_models.PlaceDetail) *response_models.PlaceResponse {
	types := []string(d.Types)
	if types == nil {
		types = []string{}
	}
	return &response_models.PlaceResponse{
		PlaceID:  d.PlaceID,
		Name:     d.Name,
		Address:  d.Address,
		Rating:   d.Rating,
		PhotoURL: s.photoURL(d.PhotoReference),
		Types:    types,
	}
}

func (s *PlaceService) photoURL(ref string) string {
	if ref == "" {
		return ""
	}
	s.issued.SetDefault(ref, struct{}{})
	q := url.Values{}
	q.Set("ref", ref)
	return PlacePhotoPath + "?" + q.Encode()
}

func placeCacheKey(name, location string) string {
	return strings.ToLower(name) + "|" + strings.ToLower(location)
}
