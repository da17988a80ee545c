package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/urbexlog/places-service/internal/pkg/errors"
	"github.com/urbexlog/places-service/internal/pkg/utils"
	"github.com/urbexlog/places-service/internal/pkg/validator"
	"github.com/urbexlog/places-service/internal/usecase"
	"github.com/urbexlog/places-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// PlaceHandler binds the place lifecycle to the REST surface. Place JSON is
// flat on the wire (top-level lat/lng); the client reshapes it.
type PlaceHandler struct {
	placeUC     *usecase.PlaceUseCase
	uploadField string
	logger      *zap.Logger
}

func NewPlaceHandler(placeUC *usecase.PlaceUseCase, uploadField string, logger *zap.Logger) *PlaceHandler {
	return &PlaceHandler{
		placeUC:     placeUC,
		uploadField: uploadField,
		logger:      logger,
	}
}

// List handles GET /api/places.
func (h *PlaceHandler) List(c *fiber.Ctx) error {
	places, err := h.placeUC.List(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(places)
}

// Create handles POST /api/places.
func (h *PlaceHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrMissingFields)
	}

	place, err := h.placeUC.Create(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(place)
}

// UpdateStatus handles PUT /api/places/:id/status.
func (h *PlaceHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidStatus)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidStatus)
	}

	place, err := h.placeUC.UpdateStatus(c.Context(), id, req.NewStatus)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(place)
}

// UpdateFull handles PUT /api/places/:id (multipart form with optional file).
func (h *PlaceHandler) UpdateFull(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	form := dto.UpdatePlaceForm{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Status:      c.FormValue("status"),
		VisitedDate: c.FormValue("visitedDate"),
		LatRaw:      c.FormValue("location[lat]"),
		LngRaw:      c.FormValue("location[lng]"),
	}

	// The picture is optional; its absence is not an error.
	if file, err := c.FormFile(h.uploadField); err == nil {
		form.Picture = file
	}

	place, err := h.placeUC.UpdateFull(c.Context(), id, form)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(place)
}

// Delete handles DELETE /api/places/:id.
func (h *PlaceHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.placeUC.Delete(c.Context(), id); err != nil {
		return utils.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.ErrPlaceNotFound
	}
	return id, nil
}
