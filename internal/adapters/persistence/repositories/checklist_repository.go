package repositories

import (
	"context"

	"aeroclean/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// checklistItemRepository implements ChecklistItemRepository interface
type checklistItemRepository struct {
	db *gorm.DB
}

// NewChecklistItemRepository creates a new checklist item repository
func NewChecklistItemRepository(db *gorm.DB) ChecklistItemRepository {
	return &checklistItemRepository{db: db}
}

// Create creates a new checklist item
func (r *checklistItemRepository) Create(ctx context.Context, item *models.ChecklistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetByID gets a checklist item by ID
func (r *checklistItemRepository) GetByID(ctx context.Context, id uint) (*models.ChecklistItem, error) {
	var item models.ChecklistItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update updates a checklist item
func (r *checklistItemRepository) Update(ctx context.Context, item *models.ChecklistItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete deletes a checklist item
func (r *checklistItemRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ChecklistItem{}, id).Error
}

// List lists checklist items with pagination, optionally scoped to a location.
// Ordered by ID so clients see items in creation order.
func (r *checklistItemRepository) List(ctx context.Context, locationID uint, offset, limit int) ([]*models.ChecklistItem, int64, error) {
	var items []*models.ChecklistItem
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ChecklistItem{})
	if locationID != 0 {
		query = query.Where("location_id = ?", locationID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListByLocation lists every checklist item of a location in creation order
func (r *checklistItemRepository) ListByLocation(ctx context.Context, locationID uint) ([]*models.ChecklistItem, error) {
	var items []*models.ChecklistItem
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
