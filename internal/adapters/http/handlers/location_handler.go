package handlers

import (
	"errors"
	"strconv"

	"aeroclean/internal/adapters/persistence/models"
	"aeroclean/internal/adapters/persistence/repositories"
	"aeroclean/internal/core/services"
	"aeroclean/internal/pkg/pagination"
	"aeroclean/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LocationHandler handles location endpoints
type LocationHandler struct {
	locationService  *services.LocationService
	dashboardService *services.DashboardService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(
	locationService *services.LocationService,
	dashboardService *services.DashboardService,
) *LocationHandler {
	return &LocationHandler{
		locationService:  locationService,
		dashboardService: dashboardService,
	}
}

// List lists locations
// @Summary List locations
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (active|inactive)"
// @Param search query string false "Search by name"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Page
// @Router /cleanings/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := repositories.LocationFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	locations, total, err := h.locationService.ListLocations(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list locations.")
	}

	results := make([]*models.LocationResponse, 0, len(locations))
	for _, l := range locations {
		results = append(results, l.ToResponse())
	}
	return response.List(c, results, total)
}

// Get returns one location with its checklist items
// @Summary Get location
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Success 200 {object} models.LocationResponse
// @Failure 404 {object} response.ErrorBody
// @Router /cleanings/locations/{id} [get]
func (h *LocationHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid location ID.")
	}

	location, err := h.locationService.GetLocation(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrLocationNotFound) {
			return response.NotFound(c, "Not found.")
		}
		return response.InternalServerError(c, "Failed to get location.")
	}
	return response.OK(c, location.ToResponse())
}

// Create creates a location (admin only)
// @Summary Create location
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.LocationInput true "Location data"
// @Success 201 {object} models.LocationResponse
// @Failure 400 {object} response.ErrorBody
// @Router /cleanings/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var input services.LocationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body.")
	}

	location, err := h.locationService.CreateLocation(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingName), errors.Is(err, services.ErrInvalidStatus):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create location.")
		}
	}
	return response.Created(c, location.ToResponse())
}

// Update updates a location (admin only)
// @Summary Update location
// @Tags Locations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Param body body services.LocationInput true "Fields to update"
// @Success 200 {object} models.LocationResponse
// @Failure 404 {object} response.ErrorBody
// @Router /cleanings/locations/{id} [patch]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid location ID.")
	}

	var input services.LocationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body.")
	}

	location, err := h.locationService.UpdateLocation(c.Context(), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLocationNotFound):
			return response.NotFound(c, "Not found.")
		case errors.Is(err, services.ErrInvalidStatus):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to update location.")
		}
	}
	return response.OK(c, location.ToResponse())
}

// Delete soft-deletes a location (admin only)
// @Summary Delete location
// @Tags Locations
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /cleanings/locations/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid location ID.")
	}

	if err := h.locationService.DeleteLocation(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrLocationNotFound) {
			return response.NotFound(c, "Not found.")
		}
		return response.InternalServerError(c, "Failed to delete location.")
	}
	return response.NoContent(c)
}

// Stats returns per-location submission stats
// @Summary Location stats
// @Tags Locations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Location ID"
// @Param days query int false "Lookback window in days (default 30)"
// @Success 200 {object} services.LocationStats
// @Router /cleanings/locations/{id}/stats [get]
func (h *LocationHandler) Stats(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid location ID.")
	}

	if _, err := h.locationService.GetLocation(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrLocationNotFound) {
			return response.NotFound(c, "Not found.")
		}
		return response.InternalServerError(c, "Failed to get location.")
	}

	days, _ := strconv.Atoi(c.Query("days", "30"))
	stats, err := h.dashboardService.GetLocationStats(c.Context(), id, days)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute stats.")
	}
	return response.OK(c, stats)
}
