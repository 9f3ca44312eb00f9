package handlers

import (
	"errors"
	"strconv"
	"time"

	"aeroclean/internal/adapters/persistence/models"
	"aeroclean/internal/adapters/persistence/repositories"
	"aeroclean/internal/core/domain"
	"aeroclean/internal/core/services"
	"aeroclean/internal/pkg/pagination"
	"aeroclean/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SubmissionHandler handles submission endpoints
type SubmissionHandler struct {
	submissionService *services.SubmissionService
	dashboardService  *services.DashboardService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(
	submissionService *services.SubmissionService,
	dashboardService *services.DashboardService,
) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		dashboardService:  dashboardService,
	}
}

// Create creates a submission from a multipart form
// @Summary Create submission
// @Description Submit a cleaning report: location, date, task_ratings_data JSON and photo parts
// @Tags Submissions
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param location formData int true "Location ID"
// @Param date formData string true "Date (YYYY-MM-DD)"
// @Param task_ratings_data formData string true "JSON array of ratings"
// @Success 201 {object} models.SubmissionResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /cleanings/submissions [post]
func (h *SubmissionHandler) Create(c *fiber.Ctx) error {
	staffID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Authentication credentials were not provided.")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Expected a multipart form.")
	}

	input, err := services.ParseSubmissionForm(form)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	submission, err := h.submissionService.Create(c.Context(), staffID, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateSubmission):
			return response.BadRequest(c, "Submission already exists for this location and date.")
		case errors.Is(err, services.ErrLocationNotFound):
			return response.BadRequest(c, "Location does not exist.")
		case errors.Is(err, domain.ErrRatingOutOfRange),
			errors.Is(err, domain.ErrUnknownChecklistItem):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create submission.")
		}
	}

	return response.Created(c, submission.ToResponse(language(c)))
}

// List lists submissions. Staff see their own, admins see everything.
// @Summary List submissions
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param location query int false "Filter by location ID"
// @Param date query string false "Filter by exact date (YYYY-MM-DD)"
// @Param from query string false "Filter from date (YYYY-MM-DD)"
// @Param to query string false "Filter to date (YYYY-MM-DD)"
// @Param staff query int false "Filter by staff ID (admin only)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Page
// @Router /cleanings/submissions [get]
func (h *SubmissionHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter, err := h.buildFilter(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	submissions, total, err := h.submissionService.List(c.Context(), *filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list submissions.")
	}

	results := make([]*models.SubmissionListResponse, 0, len(submissions))
	for _, s := range submissions {
		results = append(results, s.ToListResponse())
	}
	return response.List(c, results, total)
}

// Get returns one submission with ratings and photos
// @Summary Get submission
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.SubmissionResponse
// @Failure 404 {object} response.ErrorBody
// @Router /cleanings/submissions/{id} [get]
func (h *SubmissionHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid submission ID.")
	}

	submission, err := h.submissionService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			return response.NotFound(c, "Not found.")
		}
		return response.InternalServerError(c, "Failed to get submission.")
	}

	if !h.canAccess(c, submission) {
		return response.Forbidden(c, "You do not have permission to perform this action.")
	}
	return response.OK(c, submission.ToResponse(language(c)))
}

// Update updates a submission's ratings and appends photos
// @Summary Update submission
// @Tags Submissions
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.SubmissionResponse
// @Failure 404 {object} response.ErrorBody
// @Router /cleanings/submissions/{id} [patch]
func (h *SubmissionHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid submission ID.")
	}

	existing, err := h.submissionService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			return response.NotFound(c, "Not found.")
		}
		return response.InternalServerError(c, "Failed to get submission.")
	}
	if !h.canAccess(c, existing) {
		return response.Forbidden(c, "You do not have permission to perform this action.")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Expected a multipart form.")
	}
	input, err := services.ParseSubmissionForm(form)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	submission, err := h.submissionService.Update(c.Context(), id, input)
	if err != nil {
		return response.InternalServerError(c, "Failed to update submission.")
	}
	return response.OK(c, submission.ToResponse(language(c)))
}

// Delete removes a submission
// @Summary Delete submission
// @Tags Submissions
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /cleanings/submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid submission ID.")
	}

	existing, err := h.submissionService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSubmissionNotFound) {
			return response.NotFound(c, "Not found.")
		}
		return response.InternalServerError(c, "Failed to get submission.")
	}
	if !h.canAccess(c, existing) {
		return response.Forbidden(c, "You do not have permission to perform this action.")
	}

	if err := h.submissionService.Delete(c.Context(), id); err != nil {
		return response.InternalServerError(c, "Failed to delete submission.")
	}
	return response.NoContent(c)
}

// Today lists today's submissions
// @Summary Today's submissions
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SubmissionListResponse
// @Router /cleanings/submissions/today [get]
func (h *SubmissionHandler) Today(c *fiber.Ctx) error {
	submissions, err := h.submissionService.Today(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list today's submissions.")
	}

	results := make([]*models.SubmissionListResponse, 0, len(submissions))
	for _, s := range submissions {
		results = append(results, s.ToListResponse())
	}
	return response.OK(c, results)
}

// Stats returns dashboard stats over a lookback window
// @Summary Submission stats
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param days query int false "Lookback window in days (default 30)"
// @Success 200 {object} services.DashboardStats
// @Router /cleanings/submissions/stats [get]
func (h *SubmissionHandler) Stats(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "30"))

	stats, err := h.dashboardService.GetStats(c.Context(), days)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute stats.")
	}
	return response.OK(c, stats)
}

// buildFilter builds the submission list filter from query params,
// scoping staff accounts to their own submissions
func (h *SubmissionHandler) buildFilter(c *fiber.Ctx) (*repositories.SubmissionFilter, error) {
	filter := &repositories.SubmissionFilter{}

	if v := c.Query("location"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, errors.New("invalid location filter")
		}
		filter.LocationID = uint(id)
	}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{
		{"date", &filter.Date},
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		if v := c.Query(q.name); v != "" {
			t, err := time.Parse(models.DateLayout, v)
			if err != nil {
				return nil, errors.New("invalid " + q.name + " filter, expected YYYY-MM-DD")
			}
			*q.dst = &t
		}
	}

	if isAdmin(c) {
		if v := c.Query("staff"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return nil, errors.New("invalid staff filter")
			}
			filter.StaffID = uint(id)
		}
	} else {
		userID, _ := c.Locals("userID").(uint)
		filter.StaffID = userID
	}

	return filter, nil
}

// canAccess reports whether the caller may read or modify a submission
func (h *SubmissionHandler) canAccess(c *fiber.Ctx, submission *models.Submission) bool {
	if isAdmin(c) {
		return true
	}
	userID, _ := c.Locals("userID").(uint)
	return submission.StaffID == userID
}

func isAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == models.RoleAdmin
}

// language returns the response language for localized titles
func language(c *fiber.Ctx) string {
	switch lang := c.Query("lang", "en"); lang {
	case "am", "ru":
		return lang
	default:
		return "en"
	}
}
