package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
)

// Encoding errors
var (
	ErrEmptyDraft      = errors.New("draft has no tasks to encode")
	ErrIndexMisaligned = errors.New("photo keys out of step with task order")
)

// taskRatingEntry is one element of the task_ratings_data JSON array
type taskRatingEntry struct {
	ChecklistItem uint   `json:"checklist_item"`
	Rating        int    `json:"rating"`
	Notes         string `json:"notes"`
}

// EncodedSubmission is a draft serialized to the multipart wire format
type EncodedSubmission struct {
	Body        []byte
	ContentType string
}

// photoKey builds the positional part name for one photo. The task index
// must equal the entry's position in the task_ratings_data array; the
// server reassociates photos with tasks purely by that index.
func photoKey(taskIndex, photoIndex int) string {
	return fmt.Sprintf("task_ratings_data[%d].uploaded_images[%d]", taskIndex, photoIndex)
}

// EncodeSubmission turns a draft into the multipart form the API expects:
// fields location, date and task_ratings_data (a JSON array in draft
// order), then one file part per photo under its positional key.
func EncodeSubmission(draft *Draft) (*EncodedSubmission, error) {
	if draft.Len() == 0 {
		return nil, ErrEmptyDraft
	}

	tasks := draft.Tasks()

	entries := make([]taskRatingEntry, 0, len(tasks))
	for _, t := range tasks {
		if t.Rating < MinRating || t.Rating > MaxRating {
			return nil, ErrRatingRange
		}
		entries = append(entries, taskRatingEntry{
			ChecklistItem: t.Item.ID,
			Rating:        t.Rating,
			Notes:         t.Notes,
		})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("location", fmt.Sprintf("%d", draft.LocationID)); err != nil {
		return nil, err
	}
	if err := w.WriteField("date", draft.Date.Format(DateLayout)); err != nil {
		return nil, err
	}
	if err := w.WriteField("task_ratings_data", string(data)); err != nil {
		return nil, err
	}

	written := 0
	for i, t := range tasks {
		// The JSON entry at position i must describe the same item as
		// the photo parts keyed with task index i
		if entries[i].ChecklistItem != t.Item.ID {
			return nil, ErrIndexMisaligned
		}
		for j, photo := range t.Photos {
			part, err := w.CreateFormFile(photoKey(i, j), photo.Filename)
			if err != nil {
				return nil, err
			}
			if _, err := part.Write(photo.Data); err != nil {
				return nil, err
			}
			written++
		}
	}
	if written != draft.PhotoCount() {
		return nil, ErrIndexMisaligned
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return &EncodedSubmission{
		Body:        buf.Bytes(),
		ContentType: w.FormDataContentType(),
	}, nil
}
