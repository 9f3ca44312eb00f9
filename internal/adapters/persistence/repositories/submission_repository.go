package repositories

import (
	"context"
	"time"

	"aeroclean/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// submissionRepository implements SubmissionRepository interface
type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create creates a submission together with its task ratings and photos
func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(submission).Error
	})
}

// GetByID gets a submission with ratings, photos and related names preloaded
func (r *submissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Staff").
		Preload("TaskRatings", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_ratings.checklist_item_id ASC")
		}).
		Preload("TaskRatings.ChecklistItem").
		Preload("TaskRatings.Photos").
		Where("id = ?", id).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// Update updates the submission row
func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(submission).Error
}

// Delete deletes a submission and its dependents
func (r *submissionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ratingIDs []uint
		if err := tx.Model(&models.TaskRating{}).
			Where("submission_id = ?", id).
			Pluck("id", &ratingIDs).Error; err != nil {
			return err
		}
		if len(ratingIDs) > 0 {
			if err := tx.Where("task_rating_id IN ?", ratingIDs).Delete(&models.Photo{}).Error; err != nil {
				return err
			}
			if err := tx.Where("submission_id = ?", id).Delete(&models.TaskRating{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Submission{}, id).Error
	})
}

func applySubmissionFilter(query *gorm.DB, filter SubmissionFilter) *gorm.DB {
	if filter.LocationID != 0 {
		query = query.Where("location_id = ?", filter.LocationID)
	}
	if filter.StaffID != 0 {
		query = query.Where("staff_id = ?", filter.StaffID)
	}
	if filter.Date != nil {
		query = query.Where("date = ?", filter.Date.Format(models.DateLayout))
	}
	if filter.From != nil {
		query = query.Where("date >= ?", filter.From.Format(models.DateLayout))
	}
	if filter.To != nil {
		query = query.Where("date <= ?", filter.To.Format(models.DateLayout))
	}
	return query
}

// List lists submissions newest-date-first with pagination.
// Task ratings are preloaded so completion rates can be computed.
func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter, offset, limit int) ([]*models.Submission, int64, error) {
	var submissions []*models.Submission
	var total int64

	query := applySubmissionFilter(r.db.WithContext(ctx).Model(&models.Submission{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Location").
		Preload("Staff").
		Preload("TaskRatings").
		Order("date DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&submissions).Error
	if err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

// ListAll lists every matching submission without pagination (stats, today)
func (r *submissionRepository) ListAll(ctx context.Context, filter SubmissionFilter) ([]*models.Submission, error) {
	var submissions []*models.Submission
	query := applySubmissionFilter(r.db.WithContext(ctx).Model(&models.Submission{}), filter)

	err := query.
		Preload("Location").
		Preload("Staff").
		Preload("TaskRatings").
		Order("date DESC, id DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// ExistsFor checks the one-submission-per-location/staff/date constraint
func (r *submissionRepository) ExistsFor(ctx context.Context, locationID, staffID uint, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("location_id = ? AND staff_id = ? AND date = ?", locationID, staffID, date.Format(models.DateLayout)).
		Count(&count).Error
	return count > 0, err
}

// UpsertTaskRating creates or updates the rating of one checklist item
func (r *submissionRepository) UpsertTaskRating(ctx context.Context, rating *models.TaskRating) error {
	var existing models.TaskRating
	err := r.db.WithContext(ctx).
		Where("submission_id = ? AND checklist_item_id = ?", rating.SubmissionID, rating.ChecklistItemID).
		First(&existing).Error
	if err == nil {
		existing.Rating = rating.Rating
		existing.Notes = rating.Notes
		if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return err
		}
		rating.ID = existing.ID
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.WithContext(ctx).Create(rating).Error
}

// AddPhoto attaches a stored photo to a task rating
func (r *submissionRepository) AddPhoto(ctx context.Context, photo *models.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}
