package service

import (
	"context"
	"errors"

	"github.com/flexoffice/booking-service/internal/domain"
	"github.com/flexoffice/booking-service/internal/repository"
	apperrors "github.com/flexoffice/booking-service/pkg/util"
)

// SpaceCatalog is the read-only view of bookable spaces.
type SpaceCatalog struct {
	spaces repository.SpaceRepository
}

// NewSpaceCatalog constructs the catalog.
func NewSpaceCatalog(spaces repository.SpaceRepository) *SpaceCatalog {
	return &SpaceCatalog{spaces: spaces}
}

// Get returns a space or NOT_FOUND.
func (c *SpaceCatalog) Get(ctx context.Context, spaceID string) (*domain.Space, error) {
	space, err := c.spaces.GetByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("space", map[string]any{"space_id": spaceID})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return space, nil
}

// List returns every space in seeding order.
func (c *SpaceCatalog) List(ctx context.Context) ([]domain.Space, error) {
	spaces, err := c.spaces.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return spaces, nil
}
