package dto

import (
	"mime/multipart"

	"github.com/urbexlog/places-service/internal/domain"
)

// LocationPayload is the nested coordinate object accepted on create. Both
// fields are pointers so a missing lat or lng is distinguishable from zero.
type LocationPayload struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

// CreatePlaceRequest is the JSON body of POST /api/places.
type CreatePlaceRequest struct {
	Name        string             `json:"name" validate:"required,max=255"`
	Description string             `json:"description"`
	Location    *LocationPayload   `json:"location" validate:"required"`
	Status      domain.PlaceStatus `json:"status"`
}

// UpdateStatusRequest is the JSON body of PUT /api/places/:id/status.
type UpdateStatusRequest struct {
	NewStatus domain.PlaceStatus `json:"newStatus" validate:"required"`
}

// UpdatePlaceForm carries the multipart fields of PUT /api/places/:id.
// LatRaw/LngRaw stay raw strings: coordinates only move when both parse as
// numbers, so partial location updates fall through to the stored values.
type UpdatePlaceForm struct {
	Name        string
	Description string
	Status      string
	VisitedDate string
	LatRaw      string
	LngRaw      string
	Picture     *multipart.FileHeader
}
