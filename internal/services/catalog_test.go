package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"rentwheels/internal/models"
)

func TestResolveImageURL(t *testing.T) {
	svc := NewCatalogService(nil, nil, "https://storage.example.com/cars", "/static/img/car-placeholder.png", 0)

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{
			name: "empty reference",
			ref:  "",
			want: "/static/img/car-placeholder.png",
		},
		{
			name: "absolute url with allowed extension",
			ref:  "https://cdn.example.com/fleet/corolla.png",
			want: "https://cdn.example.com/fleet/corolla.png",
		},
		{
			name: "absolute url with uppercase extension",
			ref:  "https://cdn.example.com/fleet/corolla.JPG",
			want: "https://cdn.example.com/fleet/corolla.JPG",
		},
		{
			name: "allowlisted cdn host without extension",
			ref:  "https://res.cloudinary.com/demo/image/upload/v12/corolla",
			want: "https://res.cloudinary.com/demo/image/upload/v12/corolla",
		},
		{
			name: "absolute url failing allowlist",
			ref:  "https://evil.example.com/script",
			want: "/static/img/car-placeholder.png",
		},
		{
			name: "non-http scheme",
			ref:  "ftp://cdn.example.com/corolla.png",
			want: "/static/img/car-placeholder.png",
		},
		{
			name: "unparseable reference",
			ref:  "://bad",
			want: "/static/img/car-placeholder.png",
		},
		{
			name: "storage relative path",
			ref:  "fleet/corolla.webp",
			want: "https://storage.example.com/cars/fleet/corolla.webp",
		},
		{
			name: "storage relative path with leading slash",
			ref:  "/fleet/corolla.webp",
			want: "https://storage.example.com/cars/fleet/corolla.webp",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.ResolveImageURL(tt.ref)
			if got != tt.want {
				t.Errorf("ResolveImageURL(%q) = %q; want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestResolveImageURLNoStorageBase(t *testing.T) {
	svc := NewCatalogService(nil, nil, "", "/placeholder.png", 0)
	require.Equal(t, "/placeholder.png", svc.ResolveImageURL("fleet/corolla.webp"))
}

func TestListActiveCars(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCatalogService(db, nil, "https://storage.example.com", "/placeholder.png", 0)

	cars := []models.Car{
		{Code: "CAR-003", Name: "Prado", DailyRate: 500, Status: models.CarStatusActive, ImageRef: "fleet/prado.jpg"},
		{Code: "CAR-001", Name: "Corolla", DailyRate: 200, Status: models.CarStatusActive},
		{Code: "CAR-002", Name: "Camry", DailyRate: 300, Status: models.CarStatusInactive},
	}
	for i := range cars {
		require.NoError(t, db.Create(&cars[i]).Error)
	}

	listings, err := svc.ListActiveCars(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2, "inactive cars must not be listed")

	// Ordered by ascending daily rate
	require.Equal(t, "CAR-001", listings[0].CarID)
	require.Equal(t, "CAR-003", listings[1].CarID)

	require.Equal(t, "/placeholder.png", listings[0].ImageURL)
	require.Equal(t, "https://storage.example.com/fleet/prado.jpg", listings[1].ImageURL)
}
