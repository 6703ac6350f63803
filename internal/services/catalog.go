package services

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"

	"rentwheels/internal/models"
)

const catalogCacheKey = "catalog:active-cars"

// CatalogService lists bookable cars with display-ready image URLs.
type CatalogService struct {
	db               *gorm.DB
	cache            *RedisCache
	storageBaseURL   string
	placeholderImage string
	cacheTTL         time.Duration
}

func NewCatalogService(db *gorm.DB, cache *RedisCache, storageBaseURL, placeholderImage string, cacheTTL time.Duration) *CatalogService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &CatalogService{
		db:               db,
		cache:            cache,
		storageBaseURL:   storageBaseURL,
		placeholderImage: placeholderImage,
		cacheTTL:         cacheTTL,
	}
}

// CarListing is the catalog entry served to the storefront.
type CarListing struct {
	CarID        string  `json:"car_id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	DailyRate    float64 `json:"daily_rate"`
	Seats        int     `json:"seats"`
	Transmission string  `json:"transmission"`
	FuelType     string  `json:"fuel_type"`
	ImageURL     string  `json:"image_url"`
}

// ListActiveCars returns active cars ordered by ascending daily rate,
// served from Redis when a cache is configured.
func (s *CatalogService) ListActiveCars(ctx context.Context) ([]CarListing, error) {
	if s.cache != nil {
		return GetOrSet(s.cache, ctx, catalogCacheKey, s.cacheTTL, func() ([]CarListing, error) {
			return s.listFromDB()
		})
	}
	return s.listFromDB()
}

func (s *CatalogService) listFromDB() ([]CarListing, error) {
	var cars []models.Car
	err := s.db.Where("status = ?", models.CarStatusActive).Order("daily_rate asc").Find(&cars).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cars: %w", err)
	}

	listings := make([]CarListing, 0, len(cars))
	for _, car := range cars {
		listings = append(listings, CarListing{
			CarID:        car.Code,
			Name:         car.Name,
			Category:     car.Category,
			DailyRate:    car.DailyRate,
			Seats:        car.Seats,
			Transmission: car.Transmission,
			FuelType:     car.FuelType,
			ImageURL:     s.ResolveImageURL(car.ImageRef),
		})
	}
	return listings, nil
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".avif": true,
}

// Hosts that serve images without a file extension in the path
var allowedImageHosts = []string{
	"res.cloudinary.com",
	"images.unsplash.com",
	"lh3.googleusercontent.com",
}

// ResolveImageURL turns a stored media reference into a display URL.
// Absolute URLs must pass a permissive extension/CDN allowlist;
// storage-relative paths are joined onto the storage base URL; anything
// empty or unparseable falls back to the placeholder.
func (s *CatalogService) ResolveImageURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return s.placeholderImage
	}

	u, err := url.Parse(ref)
	if err != nil {
		return s.placeholderImage
	}

	if u.Scheme == "http" || u.Scheme == "https" {
		if allowedImageExts[strings.ToLower(path.Ext(u.Path))] {
			return ref
		}
		for _, host := range allowedImageHosts {
			if strings.EqualFold(u.Host, host) {
				return ref
			}
		}
		return s.placeholderImage
	}
	if u.Scheme != "" {
		// Non-HTTP scheme, not displayable
		return s.placeholderImage
	}

	if s.storageBaseURL == "" {
		return s.placeholderImage
	}
	return strings.TrimSuffix(s.storageBaseURL, "/") + "/" + strings.TrimPrefix(ref, "/")
}
