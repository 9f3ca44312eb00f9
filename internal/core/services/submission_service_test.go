package services

import (
	"errors"
	"mime/multipart"
	"testing"

	"aeroclean/internal/core/domain"
)

func form(values map[string]string) *multipart.Form {
	f := &multipart.Form{
		Value: make(map[string][]string, len(values)),
		File:  make(map[string][]*multipart.FileHeader),
	}
	for k, v := range values {
		f.Value[k] = []string{v}
	}
	return f
}

func TestParseSubmissionForm(t *testing.T) {
	f := form(map[string]string{
		"location":          "4",
		"date":              "2026-09-01",
		"task_ratings_data": `[{"checklist_item":10,"rating":8,"notes":""},{"checklist_item":11,"rating":3,"notes":"dusty"}]`,
	})

	input, err := ParseSubmissionForm(f)
	if err != nil {
		t.Fatalf("ParseSubmissionForm: %v", err)
	}
	if input.LocationID != 4 {
		t.Errorf("LocationID = %d, want 4", input.LocationID)
	}
	if got := input.Date.Format("2006-01-02"); got != "2026-09-01" {
		t.Errorf("Date = %q", got)
	}
	if len(input.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(input.Tasks))
	}
	if input.Tasks[1].Rating != 3 || input.Tasks[1].Notes != "dusty" {
		t.Errorf("task 1 = %+v", input.Tasks[1].TaskRatingData)
	}
}

func TestParseSubmissionFormErrors(t *testing.T) {
	valid := map[string]string{
		"location":          "4",
		"date":              "2026-09-01",
		"task_ratings_data": `[{"checklist_item":10,"rating":8,"notes":""}]`,
	}

	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr error
	}{
		{"missing location", func(m map[string]string) { delete(m, "location") }, ErrMissingLocation},
		{"zero location", func(m map[string]string) { m["location"] = "0" }, ErrMissingLocation},
		{"non-numeric location", func(m map[string]string) { m["location"] = "hall" }, ErrMissingLocation},
		{"missing date", func(m map[string]string) { delete(m, "date") }, ErrMissingDate},
		{"bad date format", func(m map[string]string) { m["date"] = "01/09/2026" }, ErrMissingDate},
		{"missing ratings", func(m map[string]string) { delete(m, "task_ratings_data") }, ErrMissingTaskRatings},
		{"ratings not json", func(m map[string]string) { m["task_ratings_data"] = "not json" }, ErrMalformedTaskData},
		{"ratings not an array", func(m map[string]string) { m["task_ratings_data"] = `{"checklist_item":1}` }, ErrMalformedTaskData},
		{"rating too high", func(m map[string]string) {
			m["task_ratings_data"] = `[{"checklist_item":10,"rating":11,"notes":""}]`
		}, domain.ErrRatingOutOfRange},
		{"rating zero", func(m map[string]string) {
			m["task_ratings_data"] = `[{"checklist_item":10,"rating":0,"notes":""}]`
		}, domain.ErrRatingOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make(map[string]string, len(valid))
			for k, v := range valid {
				values[k] = v
			}
			tt.mutate(values)

			_, err := ParseSubmissionForm(form(values))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseSubmissionFormCollectsPhotosByTaskIndex(t *testing.T) {
	f := form(map[string]string{
		"location":          "4",
		"date":              "2026-09-01",
		"task_ratings_data": `[{"checklist_item":10,"rating":5,"notes":""},{"checklist_item":11,"rating":5,"notes":""}]`,
	})
	// Two photos on the second task, none on the first
	f.File["task_ratings_data[1].uploaded_images[0]"] = []*multipart.FileHeader{{Filename: "a.jpg"}}
	f.File["task_ratings_data[1].uploaded_images[1]"] = []*multipart.FileHeader{{Filename: "b.jpg"}}

	input, err := ParseSubmissionForm(f)
	if err != nil {
		t.Fatalf("ParseSubmissionForm: %v", err)
	}
	if len(input.Tasks[0].Photos) != 0 {
		t.Errorf("task 0 photos = %d, want 0", len(input.Tasks[0].Photos))
	}
	if len(input.Tasks[1].Photos) != 2 {
		t.Errorf("task 1 photos = %d, want 2", len(input.Tasks[1].Photos))
	}
	if input.Tasks[1].Photos[0].Filename != "a.jpg" {
		t.Errorf("photo order: got %q first", input.Tasks[1].Photos[0].Filename)
	}
}

func TestPhotoPartKey(t *testing.T) {
	if got := PhotoPartKey(2, 0); got != "task_ratings_data[2].uploaded_images[0]" {
		t.Errorf("PhotoPartKey(2, 0) = %q", got)
	}
}
