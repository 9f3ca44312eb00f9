package client

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the wire format for submission dates
const DateLayout = "2006-01-02"

// Rating bounds
const (
	MinRating     = 1
	MaxRating     = 10
	DefaultRating = 5
)

// Draft errors
var (
	ErrRatingRange = errors.New("rating must be between 1 and 10")
	ErrUnknownItem = errors.New("checklist item is not part of this draft")
)

// Photo is one image attached to a draft task
type Photo struct {
	Filename string
	Data     []byte
}

// DraftTask is the in-progress rating of one checklist item
type DraftTask struct {
	Item   ChecklistItem
	Rating int
	Notes  string
	Photos []Photo
}

// Draft is an in-progress submission for one location and date.
// Tasks keep the checklist order they were created with; that order is
// what the wire encoding's positional photo keys are built from.
type Draft struct {
	LocationID uint
	Date       time.Time

	tasks []DraftTask
	index map[uint]int
}

// NewDraft starts a draft over the location's checklist.
// Every item begins at the default rating with no notes or photos.
func NewDraft(locationID uint, date time.Time, items []ChecklistItem) *Draft {
	d := &Draft{
		LocationID: locationID,
		Date:       date,
		tasks:      make([]DraftTask, 0, len(items)),
		index:      make(map[uint]int, len(items)),
	}
	for _, item := range items {
		d.index[item.ID] = len(d.tasks)
		d.tasks = append(d.tasks, DraftTask{
			Item:   item,
			Rating: DefaultRating,
		})
	}
	return d
}

// SetRating sets the rating of one checklist item.
// Out-of-range values are rejected, not clamped.
func (d *Draft) SetRating(itemID uint, rating int) error {
	i, ok := d.index[itemID]
	if !ok {
		return fmt.Errorf("%w (item %d)", ErrUnknownItem, itemID)
	}
	if rating < MinRating || rating > MaxRating {
		return ErrRatingRange
	}
	d.tasks[i].Rating = rating
	return nil
}

// SetNotes sets the notes of one checklist item
func (d *Draft) SetNotes(itemID uint, notes string) error {
	i, ok := d.index[itemID]
	if !ok {
		return fmt.Errorf("%w (item %d)", ErrUnknownItem, itemID)
	}
	d.tasks[i].Notes = notes
	return nil
}

// AddPhotos appends photos to one checklist item
func (d *Draft) AddPhotos(itemID uint, photos ...Photo) error {
	i, ok := d.index[itemID]
	if !ok {
		return fmt.Errorf("%w (item %d)", ErrUnknownItem, itemID)
	}
	d.tasks[i].Photos = append(d.tasks[i].Photos, photos...)
	return nil
}

// Tasks returns the draft tasks in checklist order
func (d *Draft) Tasks() []DraftTask {
	tasks := make([]DraftTask, len(d.tasks))
	copy(tasks, d.tasks)
	return tasks
}

// Len returns the number of tasks in the draft
func (d *Draft) Len() int {
	return len(d.tasks)
}

// PhotoCount returns the total number of attached photos
func (d *Draft) PhotoCount() int {
	n := 0
	for _, t := range d.tasks {
		n += len(t.Photos)
	}
	return n
}

// CompletionRate scores the draft as the server will:
// round(100 * sum(rating) / (count * 10)), 0 for an empty checklist.
func (d *Draft) CompletionRate() int {
	if len(d.tasks) == 0 {
		return 0
	}

	total := 0
	for _, t := range d.tasks {
		total += t.Rating
	}

	possible := len(d.tasks) * MaxRating
	return int(math.Round(float64(total) / float64(possible) * 100))
}
