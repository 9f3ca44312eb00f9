package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"aeroclean/internal/adapters/persistence/models"
	"aeroclean/internal/adapters/persistence/repositories"
	"aeroclean/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission errors
var (
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrLocationNotFound    = errors.New("location not found")
	ErrMissingLocation     = errors.New("location is required")
	ErrMissingDate         = errors.New("date is required (YYYY-MM-DD)")
	ErrMissingTaskRatings  = errors.New("task_ratings_data is required")
	ErrMalformedTaskData   = errors.New("task_ratings_data must be a JSON array")
	ErrDuplicateSubmission = domain.ErrDuplicateSubmission
)

// taskRatingsField is the multipart field carrying the JSON-encoded ratings.
// Photo parts are keyed task_ratings_data[<taskIndex>].uploaded_images[<photoIndex>];
// the receiving side rebuilds the photo/task association purely from the
// task index, which must match the entry's position in the JSON array.
const taskRatingsField = "task_ratings_data"

// TaskRatingData is one entry of the task_ratings_data JSON array
type TaskRatingData struct {
	ChecklistItem uint   `json:"checklist_item"`
	Rating        int    `json:"rating"`
	Notes         string `json:"notes"`
}

// TaskRatingInput couples one parsed entry with its uploaded photos
type TaskRatingInput struct {
	TaskRatingData
	Photos []*multipart.FileHeader
}

// SubmissionInput is a fully parsed submission create/update payload
type SubmissionInput struct {
	LocationID uint
	Date       time.Time
	Tasks      []TaskRatingInput
}

// PhotoPartKey builds the multipart part name for one uploaded photo
func PhotoPartKey(taskIndex, photoIndex int) string {
	return fmt.Sprintf("%s[%d].uploaded_images[%d]", taskRatingsField, taskIndex, photoIndex)
}

// ParseSubmissionForm decodes the multipart wire format into a SubmissionInput.
// Tasks keep the JSON array order; photos are collected per task index so a
// task without photos still occupies its slot.
func ParseSubmissionForm(form *multipart.Form) (*SubmissionInput, error) {
	input := &SubmissionInput{}

	locationStr := firstValue(form, "location")
	if locationStr == "" {
		return nil, ErrMissingLocation
	}
	locationID, err := strconv.ParseUint(locationStr, 10, 32)
	if err != nil || locationID == 0 {
		return nil, ErrMissingLocation
	}
	input.LocationID = uint(locationID)

	dateStr := firstValue(form, "date")
	if dateStr == "" {
		return nil, ErrMissingDate
	}
	date, err := time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return nil, ErrMissingDate
	}
	input.Date = date

	rawTasks := firstValue(form, taskRatingsField)
	if rawTasks == "" {
		return nil, ErrMissingTaskRatings
	}
	var entries []TaskRatingData
	if err := json.Unmarshal([]byte(rawTasks), &entries); err != nil {
		return nil, ErrMalformedTaskData
	}

	for i, entry := range entries {
		if entry.Rating < 1 || entry.Rating > 10 {
			return nil, fmt.Errorf("%w (checklist item %d)", domain.ErrRatingOutOfRange, entry.ChecklistItem)
		}

		task := TaskRatingInput{TaskRatingData: entry}
		for j := 0; ; j++ {
			files, ok := form.File[PhotoPartKey(i, j)]
			if !ok || len(files) == 0 {
				break
			}
			task.Photos = append(task.Photos, files[0])
		}
		input.Tasks = append(input.Tasks, task)
	}

	return input, nil
}

func firstValue(form *multipart.Form, key string) string {
	if values, ok := form.Value[key]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

// SubmissionService handles submission business logic
type SubmissionService struct {
	submissionRepo repositories.SubmissionRepository
	locationRepo   repositories.LocationRepository
	checklistRepo  repositories.ChecklistItemRepository
	uploadDir      string
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(
	submissionRepo repositories.SubmissionRepository,
	locationRepo repositories.LocationRepository,
	checklistRepo repositories.ChecklistItemRepository,
	uploadDir string,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		locationRepo:   locationRepo,
		checklistRepo:  checklistRepo,
		uploadDir:      uploadDir,
	}
}

// Create creates a submission with its ratings and stores uploaded photos
func (s *SubmissionService) Create(ctx context.Context, staffID uint, input *SubmissionInput) (*models.Submission, error) {
	// 1. Location must exist
	if _, err := s.locationRepo.GetByID(ctx, input.LocationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}

	// 2. Every rated item must belong to the location
	if err := s.checkItemMembership(ctx, input); err != nil {
		return nil, err
	}

	// 3. One submission per location/staff/date
	exists, err := s.submissionRepo.ExistsFor(ctx, input.LocationID, staffID, input.Date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateSubmission
	}

	// 4. Create submission with ratings
	submission := &models.Submission{
		LocationID: input.LocationID,
		StaffID:    staffID,
		Date:       input.Date,
	}
	for _, task := range input.Tasks {
		submission.TaskRatings = append(submission.TaskRatings, models.TaskRating{
			ChecklistItemID: task.ChecklistItem,
			Rating:          task.Rating,
			Notes:           task.Notes,
		})
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}

	// 5. Store photos now that the submission ID is known
	for i, task := range input.Tasks {
		if err := s.storePhotos(ctx, submission, submission.TaskRatings[i].ID, task.Photos); err != nil {
			return nil, err
		}
	}

	log.Printf("✅ Submission created: location %d, date %s, staff %d",
		submission.LocationID, submission.Date.Format(models.DateLayout), staffID)

	return s.submissionRepo.GetByID(ctx, submission.ID)
}

// Update updates a submission's ratings and appends any new photos
func (s *SubmissionService) Update(ctx context.Context, id uint, input *SubmissionInput) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	if input.LocationID != 0 {
		submission.LocationID = input.LocationID
	}
	if !input.Date.IsZero() {
		submission.Date = input.Date
	}
	if err := s.submissionRepo.Update(ctx, submission); err != nil {
		return nil, err
	}

	for _, task := range input.Tasks {
		rating := &models.TaskRating{
			SubmissionID:    submission.ID,
			ChecklistItemID: task.ChecklistItem,
			Rating:          task.Rating,
			Notes:           task.Notes,
		}
		if err := s.submissionRepo.UpsertTaskRating(ctx, rating); err != nil {
			return nil, err
		}
		if err := s.storePhotos(ctx, submission, rating.ID, task.Photos); err != nil {
			return nil, err
		}
	}

	return s.submissionRepo.GetByID(ctx, submission.ID)
}

// Get returns one submission with everything preloaded
func (s *SubmissionService) Get(ctx context.Context, id uint) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return submission, nil
}

// Delete removes a submission, its ratings and its stored photo files
func (s *SubmissionService) Delete(ctx context.Context, id uint) error {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	if err := s.submissionRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Remove the whole photo directory of this submission
	dir := filepath.Join(s.uploadDir, "submissions",
		submission.Date.Format(models.DateLayout), strconv.FormatUint(uint64(id), 10))
	if err := os.RemoveAll(dir); err != nil {
		log.Printf("⚠️ Failed to remove photo dir %s: %v", dir, err)
	}

	return nil
}

// List lists submissions with filters and pagination
func (s *SubmissionService) List(ctx context.Context, filter repositories.SubmissionFilter, offset, limit int) ([]*models.Submission, int64, error) {
	return s.submissionRepo.List(ctx, filter, offset, limit)
}

// Today lists today's submissions
func (s *SubmissionService) Today(ctx context.Context) ([]*models.Submission, error) {
	today := time.Now().Truncate(24 * time.Hour)
	return s.submissionRepo.ListAll(ctx, repositories.SubmissionFilter{Date: &today})
}

// checkItemMembership verifies all rated items belong to the input location
func (s *SubmissionService) checkItemMembership(ctx context.Context, input *SubmissionInput) error {
	items, err := s.checklistRepo.ListByLocation(ctx, input.LocationID)
	if err != nil {
		return err
	}
	known := make(map[uint]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}
	for _, task := range input.Tasks {
		if !known[task.ChecklistItem] {
			return fmt.Errorf("%w (checklist item %d)", domain.ErrUnknownChecklistItem, task.ChecklistItem)
		}
	}
	return nil
}

// storePhotos writes uploaded files under
// uploads/submissions/<date>/<submission_id>/<uuid>.<ext> and records them
func (s *SubmissionService) storePhotos(ctx context.Context, submission *models.Submission, ratingID uint, photos []*multipart.FileHeader) error {
	if len(photos) == 0 {
		return nil
	}

	dir := filepath.Join(s.uploadDir, "submissions",
		submission.Date.Format(models.DateLayout), strconv.FormatUint(uint64(submission.ID), 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, header := range photos {
		ext := filepath.Ext(header.Filename)
		name := uuid.New().String() + ext

		if err := saveUploadedFile(header, filepath.Join(dir, name)); err != nil {
			return err
		}

		photo := &models.Photo{
			TaskRatingID: ratingID,
			Image: path.Join("/media/submissions",
				submission.Date.Format(models.DateLayout),
				strconv.FormatUint(uint64(submission.ID), 10), name),
		}
		if err := s.submissionRepo.AddPhoto(ctx, photo); err != nil {
			return err
		}
	}

	return nil
}

func saveUploadedFile(header *multipart.FileHeader, dst string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
