package repository

import (
	"context"

	"github.com/urbexlog/places-service/internal/domain"
)

// PlaceRepository owns the canonical place rows.
type PlaceRepository interface {
	// List returns all places ordered by id descending (most recent first).
	List(ctx context.Context) ([]*domain.Place, error)

	// GetByID returns the place or errors.ErrPlaceNotFound.
	GetByID(ctx context.Context, id int64) (*domain.Place, error)

	// Create persists a new place and fills in its assigned id.
	Create(ctx context.Context, place *domain.Place) (*domain.Place, error)

	// Update replaces the mutable columns of an existing row.
	Update(ctx context.Context, place *domain.Place) (*domain.Place, error)

	// Delete removes the row or returns errors.ErrPlaceNotFound.
	Delete(ctx context.Context, id int64) error
}
