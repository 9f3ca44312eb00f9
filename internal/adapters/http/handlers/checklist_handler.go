package handlers

import (
	"errors"
	"strconv"

	"aeroclean/internal/core/services"
	"aeroclean/internal/pkg/pagination"
	"aeroclean/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ChecklistHandler handles checklist item endpoints
type ChecklistHandler struct {
	locationService *services.LocationService
}

// NewChecklistHandler creates a new checklist handler
func NewChecklistHandler(locationService *services.LocationService) *ChecklistHandler {
	return &ChecklistHandler{locationService: locationService}
}

// List lists checklist items, optionally filtered by location
// @Summary List checklist items
// @Tags Checklist
// @Produce json
// @Security BearerAuth
// @Param location query int false "Filter by location ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Page
// @Router /cleanings/checklist-items [get]
func (h *ChecklistHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	locationID, _ := strconv.ParseUint(c.Query("location", "0"), 10, 32)

	items, total, err := h.locationService.ListChecklistItems(c.Context(), uint(locationID), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list checklist items.")
	}
	return response.List(c, items, total)
}

// Get returns one checklist item
// @Summary Get checklist item
// @Tags Checklist
// @Produce json
// @Security BearerAuth
// @Param id path int true "Checklist item ID"
// @Success 200 {object} models.ChecklistItem
// @Failure 404 {object} response.ErrorBody
// @Router /cleanings/checklist-items/{id} [get]
func (h *ChecklistHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid checklist item ID.")
	}

	item, err := h.locationService.GetChecklistItem(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrChecklistItemNotFound) {
			return response.NotFound(c, "Not found.")
		}
		return response.InternalServerError(c, "Failed to get checklist item.")
	}
	return response.OK(c, item)
}

// Create creates a checklist item (admin only)
// @Summary Create checklist item
// @Tags Checklist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChecklistItemInput true "Checklist item data"
// @Success 201 {object} models.ChecklistItem
// @Failure 400 {object} response.ErrorBody
// @Router /cleanings/checklist-items [post]
func (h *ChecklistHandler) Create(c *fiber.Ctx) error {
	var input services.ChecklistItemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body.")
	}

	item, err := h.locationService.CreateChecklistItem(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingTitle):
			return response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrLocationNotFound):
			return response.BadRequest(c, "Location does not exist.")
		default:
			return response.InternalServerError(c, "Failed to create checklist item.")
		}
	}
	return response.Created(c, item)
}

// Update updates a checklist item's titles (admin only)
// @Summary Update checklist item
// @Tags Checklist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Checklist item ID"
// @Param body body services.ChecklistItemInput true "Fields to update"
// @Success 200 {object} models.ChecklistItem
// @Failure 404 {object} response.ErrorBody
// @Router /cleanings/checklist-items/{id} [patch]
func (h *ChecklistHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid checklist item ID.")
	}

	var input services.ChecklistItemInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body.")
	}

	item, err := h.locationService.UpdateChecklistItem(c.Context(), id, &input)
	if err != nil {
		if errors.Is(err, services.ErrChecklistItemNotFound) {
			return response.NotFound(c, "Not found.")
		}
		return response.InternalServerError(c, "Failed to update checklist item.")
	}
	return response.OK(c, item)
}

// Delete deletes a checklist item (admin only)
// @Summary Delete checklist item
// @Tags Checklist
// @Security BearerAuth
// @Param id path int true "Checklist item ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /cleanings/checklist-items/{id} [delete]
func (h *ChecklistHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid checklist item ID.")
	}

	if err := h.locationService.DeleteChecklistItem(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrChecklistItemNotFound) {
			return response.NotFound(c, "Not found.")
		}
		return response.InternalServerError(c, "Failed to delete checklist item.")
	}
	return response.NoContent(c)
}
