package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"aeroclean/internal/adapters/persistence/models"
	"aeroclean/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Location errors
var (
	ErrChecklistItemNotFound = errors.New("checklist item not found")
	ErrMissingName           = errors.New("name is required")
	ErrMissingTitle          = errors.New("title_en is required")
	ErrInvalidStatus         = errors.New("status must be active or inactive")
)

// LocationService handles location and checklist item business logic
type LocationService struct {
	locationRepo  repositories.LocationRepository
	checklistRepo repositories.ChecklistItemRepository
}

// NewLocationService creates a new location service
func NewLocationService(
	locationRepo repositories.LocationRepository,
	checklistRepo repositories.ChecklistItemRepository,
) *LocationService {
	return &LocationService{
		locationRepo:  locationRepo,
		checklistRepo: checklistRepo,
	}
}

// LocationInput represents location create/update input
type LocationInput struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ChecklistItemInput represents checklist item create/update input
type ChecklistItemInput struct {
	LocationID uint   `json:"location"`
	TitleEN    string `json:"title_en"`
	TitleAM    string `json:"title_am"`
	TitleRU    string `json:"title_ru"`
}

// CreateLocation creates a new location
func (s *LocationService) CreateLocation(ctx context.Context, input *LocationInput) (*models.Location, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	status := input.Status
	if status == "" {
		status = models.LocationActive
	}
	if status != models.LocationActive && status != models.LocationInactive {
		return nil, ErrInvalidStatus
	}

	location := &models.Location{Name: name, Status: status}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}

	log.Printf("✅ Location created: %s", location.Name)
	return location, nil
}

// GetLocation gets a location with its checklist items
func (s *LocationService) GetLocation(ctx context.Context, id uint) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return location, nil
}

// UpdateLocation updates a location's name and status
func (s *LocationService) UpdateLocation(ctx context.Context, id uint, input *LocationInput) (*models.Location, error) {
	location, err := s.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		location.Name = name
	}
	if input.Status != "" {
		if input.Status != models.LocationActive && input.Status != models.LocationInactive {
			return nil, ErrInvalidStatus
		}
		location.Status = input.Status
	}

	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// DeleteLocation soft-deletes a location
func (s *LocationService) DeleteLocation(ctx context.Context, id uint) error {
	if _, err := s.GetLocation(ctx, id); err != nil {
		return err
	}
	return s.locationRepo.Delete(ctx, id)
}

// ListLocations lists locations with status/search filters and pagination
func (s *LocationService) ListLocations(ctx context.Context, filter repositories.LocationFilter, offset, limit int) ([]*models.Location, int64, error) {
	return s.locationRepo.List(ctx, filter, offset, limit)
}

// CreateChecklistItem creates a checklist item under a location
func (s *LocationService) CreateChecklistItem(ctx context.Context, input *ChecklistItemInput) (*models.ChecklistItem, error) {
	if strings.TrimSpace(input.TitleEN) == "" {
		return nil, ErrMissingTitle
	}
	if _, err := s.GetLocation(ctx, input.LocationID); err != nil {
		return nil, err
	}

	item := &models.ChecklistItem{
		LocationID: input.LocationID,
		TitleEN:    strings.TrimSpace(input.TitleEN),
		TitleAM:    strings.TrimSpace(input.TitleAM),
		TitleRU:    strings.TrimSpace(input.TitleRU),
	}
	if err := s.checklistRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	log.Printf("✅ Checklist item created: %s (location %d)", item.TitleEN, item.LocationID)
	return item, nil
}

// GetChecklistItem gets a checklist item by ID
func (s *LocationService) GetChecklistItem(ctx context.Context, id uint) (*models.ChecklistItem, error) {
	item, err := s.checklistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChecklistItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// UpdateChecklistItem updates a checklist item's titles
func (s *LocationService) UpdateChecklistItem(ctx context.Context, id uint, input *ChecklistItemInput) (*models.ChecklistItem, error) {
	item, err := s.GetChecklistItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.TitleEN); title != "" {
		item.TitleEN = title
	}
	if title := strings.TrimSpace(input.TitleAM); title != "" {
		item.TitleAM = title
	}
	if title := strings.TrimSpace(input.TitleRU); title != "" {
		item.TitleRU = title
	}

	if err := s.checklistRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteChecklistItem deletes a checklist item
func (s *LocationService) DeleteChecklistItem(ctx context.Context, id uint) error {
	if _, err := s.GetChecklistItem(ctx, id); err != nil {
		return err
	}
	return s.checklistRepo.Delete(ctx, id)
}

// ListChecklistItems lists checklist items, optionally scoped to a location
func (s *LocationService) ListChecklistItems(ctx context.Context, locationID uint, offset, limit int) ([]*models.ChecklistItem, int64, error) {
	return s.checklistRepo.List(ctx, locationID, offset, limit)
}
