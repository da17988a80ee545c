package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/urbexlog/places-service/internal/domain"
	"github.com/urbexlog/places-service/internal/domain/repository"
	"github.com/urbexlog/places-service/internal/pkg/errors"
	"github.com/urbexlog/places-service/internal/pkg/sanitize"
	"github.com/urbexlog/places-service/internal/pkg/utils"
	"github.com/urbexlog/places-service/internal/pkg/validator"
	"github.com/urbexlog/places-service/internal/usecase/dto"
)

const placesCacheKey = "places:all"

// placeholderImageURL is assigned on the quick status promote, where no photo
// accompanies the transition yet.
const placeholderImageURL = "https://picsum.photos/seed/%d/400/300"

// PlaceUseCase applies every mutation against the store and the upload sink.
// Status is the pivot of validity: image and visit date are re-derived from it
// on each write path instead of trusting client-supplied combinations.
type PlaceUseCase struct {
	placeRepo repository.PlaceRepository
	fileRepo  repository.FileRepository
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	cacheTTL  time.Duration
}

func NewPlaceUseCase(
	placeRepo repository.PlaceRepository,
	fileRepo repository.FileRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *PlaceUseCase {
	return &PlaceUseCase{
		placeRepo: placeRepo,
		fileRepo:  fileRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// List returns all places, most recent first. Reads go through the cache;
// cache failures degrade to the store.
func (uc *PlaceUseCase) List(ctx context.Context) ([]*domain.Place, error) {
	if data, err := uc.cacheRepo.Get(ctx, placesCacheKey); err == nil && data != nil {
		var places []*domain.Place
		if err := json.Unmarshal(data, &places); err != nil {
			uc.logger.Warn("Failed to unmarshal cached places, falling back to store", zap.Error(err))
		} else {
			return places, nil
		}
	}

	places, err := uc.placeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(places); err == nil {
		if err := uc.cacheRepo.Set(ctx, placesCacheKey, data, uc.cacheTTL); err != nil {
			uc.logger.Warn("Failed to cache place list", zap.Error(err))
		}
	}

	return places, nil
}

// Create persists a new place. Status defaults to suggestion; a place is born
// without an image.
func (uc *PlaceUseCase) Create(ctx context.Context, req dto.CreatePlaceRequest) (*domain.Place, error) {
	if err := validator.Validate(&req); err != nil {
		return nil, errors.ErrMissingFields
	}

	name := sanitize.Text(req.Name)
	if name == "" {
		return nil, errors.ErrMissingFields
	}

	status := req.Status
	if status == "" {
		status = domain.StatusSuggestion
	}
	if !status.IsValid() {
		return nil, errors.ErrInvalidStatus
	}

	if !utils.ValidateCoordinates(*req.Location.Lat, *req.Location.Lng) {
		return nil, errors.ErrInvalidCoordinates
	}

	place := &domain.Place{
		Name:        name,
		Description: sanitize.Text(req.Description),
		Lat:         *req.Location.Lat,
		Lng:         *req.Location.Lng,
		Status:      status,
	}
	if status == domain.StatusVisited {
		today := domain.Today()
		place.VisitedDate = &today
	}

	created, err := uc.placeRepo.Create(ctx, place)
	if err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx)
	uc.logger.Info("Place created",
		zap.Int64("id", created.ID),
		zap.String("status", string(created.Status)),
	)
	return created, nil
}

// UpdateStatus is the narrow mutation behind PUT /:id/status. Promotion to
// visited stamps today's date and a placeholder image; any other status
// clears both.
func (uc *PlaceUseCase) UpdateStatus(ctx context.Context, id int64, newStatus domain.PlaceStatus) (*domain.Place, error) {
	if !newStatus.IsValid() {
		return nil, errors.ErrInvalidStatus
	}

	place, err := uc.placeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	place.Status = newStatus
	if newStatus == domain.StatusVisited {
		imageURL := fmt.Sprintf(placeholderImageURL, id)
		today := domain.Today()
		place.ImageURL = &imageURL
		place.VisitedDate = &today
	} else {
		place.ImageURL = nil
		place.VisitedDate = nil
	}

	updated, err := uc.placeRepo.Update(ctx, place)
	if err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx)
	uc.logger.Info("Place status updated",
		zap.Int64("id", id),
		zap.String("status", string(newStatus)),
	)
	return updated, nil
}

// UpdateFull is the full-replace mutation. Coordinates only move when both
// lat and lng are present and parse; the image follows the attached file, or
// the status when there is none.
func (uc *PlaceUseCase) UpdateFull(ctx context.Context, id int64, form dto.UpdatePlaceForm) (*domain.Place, error) {
	status := domain.PlaceStatus(form.Status)
	if !status.IsValid() {
		return nil, errors.ErrInvalidStatus
	}

	name := sanitize.Text(form.Name)
	if name == "" || utf8.RuneCountInString(form.Name) > domain.MaxNameLen {
		return nil, errors.ErrInvalidName
	}

	place, err := uc.placeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	place.Name = name
	place.Description = sanitize.Text(form.Description)
	place.Status = status

	if status == domain.StatusVisited {
		date := form.VisitedDate
		if date == "" {
			date = domain.Today()
		}
		place.VisitedDate = &date
	} else {
		place.VisitedDate = nil
	}

	if form.LatRaw != "" && form.LngRaw != "" {
		lat, latErr := strconv.ParseFloat(form.LatRaw, 64)
		lng, lngErr := strconv.ParseFloat(form.LngRaw, 64)
		if latErr == nil && lngErr == nil {
			if !utils.ValidateCoordinates(lat, lng) {
				return nil, errors.ErrInvalidCoordinates
			}
			place.Lat = lat
			place.Lng = lng
		}
	}

	if form.Picture != nil {
		url, err := uc.fileRepo.Save(ctx, form.Picture)
		if err != nil {
			return nil, err
		}
		place.ImageURL = &url
	} else if status != domain.StatusVisited {
		place.ImageURL = nil
	}

	updated, err := uc.placeRepo.Update(ctx, place)
	if err != nil {
		return nil, err
	}

	uc.invalidateCache(ctx)
	uc.logger.Info("Place updated", zap.Int64("id", id))
	return updated, nil
}

// Delete removes the place. Deleting a nonexistent id is a NotFound, never a
// silent success.
func (uc *PlaceUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.placeRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidateCache(ctx)
	uc.logger.Info("Place deleted", zap.Int64("id", id))
	return nil
}

func (uc *PlaceUseCase) invalidateCache(ctx context.Context) {
	if err := uc.cacheRepo.Delete(ctx, placesCacheKey); err != nil {
		uc.logger.Warn("Failed to invalidate place cache", zap.Error(err))
	}
}
