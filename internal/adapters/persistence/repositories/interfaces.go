package repositories

import (
	"context"
	"time"

	"aeroclean/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// LocationFilter narrows location listings
type LocationFilter struct {
	Status string
	Search string
}

// LocationRepository defines location repository interface
type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id uint) (*models.Location, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter LocationFilter, offset, limit int) ([]*models.Location, int64, error)
}

// ChecklistItemRepository defines checklist item repository interface
type ChecklistItemRepository interface {
	Create(ctx context.Context, item *models.ChecklistItem) error
	GetByID(ctx context.Context, id uint) (*models.ChecklistItem, error)
	Update(ctx context.Context, item *models.ChecklistItem) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, locationID uint, offset, limit int) ([]*models.ChecklistItem, int64, error)
	ListByLocation(ctx context.Context, locationID uint) ([]*models.ChecklistItem, error)
}

// SubmissionFilter narrows submission listings
type SubmissionFilter struct {
	LocationID uint
	StaffID    uint
	Date       *time.Time
	From       *time.Time
	To         *time.Time
}

// SubmissionRepository defines submission repository interface
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	Update(ctx context.Context, submission *models.Submission) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter SubmissionFilter, offset, limit int) ([]*models.Submission, int64, error)
	ListAll(ctx context.Context, filter SubmissionFilter) ([]*models.Submission, error)
	ExistsFor(ctx context.Context, locationID, staffID uint, date time.Time) (bool, error)
	UpsertTaskRating(ctx context.Context, rating *models.TaskRating) error
	AddPhoto(ctx context.Context, photo *models.Photo) error
}
