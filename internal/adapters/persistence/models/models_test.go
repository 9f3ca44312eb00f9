package models

import (
	"testing"
	"time"
)

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    int
	}{
		{"no ratings", nil, 0},
		{"all fives", []int{5, 5, 5}, 50},
		{"all tens", []int{10, 10}, 100},
		{"all ones", []int{1, 1}, 10},
		{"rounds", []int{1, 1, 2}, 13},            // 4/30 -> 13.33
		{"rounds half up", []int{1, 1, 1, 2}, 13}, // 5/40 -> 12.5
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Submission{}
			for _, r := range tt.ratings {
				s.TaskRatings = append(s.TaskRatings, TaskRating{Rating: r})
			}
			if got := s.CompletionRate(); got != tt.want {
				t.Errorf("CompletionRate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChecklistItemTitle(t *testing.T) {
	full := &ChecklistItem{TitleEN: "Floor", TitleAM: "Հատակ", TitleRU: "Пол"}
	englishOnly := &ChecklistItem{TitleEN: "Floor"}

	tests := []struct {
		name     string
		item     *ChecklistItem
		language string
		want     string
	}{
		{"english", full, "en", "Floor"},
		{"armenian", full, "am", "Հատակ"},
		{"russian", full, "ru", "Пол"},
		{"unknown language falls back", full, "de", "Floor"},
		{"missing translation falls back", englishOnly, "am", "Floor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Title(tt.language); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.language, got, tt.want)
			}
		})
	}
}

func TestSubmissionToResponse(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	s := &Submission{
		ID:         3,
		LocationID: 4,
		StaffID:    7,
		Date:       date,
		Location:   &Location{ID: 4, Name: "Departure Hall"},
		Staff:      &User{ID: 7, Username: "anna"},
		TaskRatings: []TaskRating{
			{ID: 1, SubmissionID: 3, ChecklistItemID: 10, Rating: 8,
				ChecklistItem: &ChecklistItem{ID: 10, TitleEN: "Floor", TitleRU: "Пол"}},
			{ID: 2, SubmissionID: 3, ChecklistItemID: 11, Rating: 2},
		},
	}

	resp := s.ToResponse("ru")
	if resp.Date != "2026-09-01" {
		t.Errorf("Date = %q, want 2026-09-01", resp.Date)
	}
	if resp.LocationName != "Departure Hall" {
		t.Errorf("LocationName = %q", resp.LocationName)
	}
	if resp.StaffUsername != "anna" {
		t.Errorf("StaffUsername = %q", resp.StaffUsername)
	}
	if resp.CompletionRate != 50 {
		t.Errorf("CompletionRate = %d, want 50", resp.CompletionRate)
	}
	if len(resp.TaskRatings) != 2 {
		t.Fatalf("TaskRatings = %d, want 2", len(resp.TaskRatings))
	}
	if resp.TaskRatings[0].ChecklistItemTitle != "Пол" {
		t.Errorf("title = %q, want Пол", resp.TaskRatings[0].ChecklistItemTitle)
	}
	// Photos never serialize as null
	if resp.TaskRatings[1].Photos == nil {
		t.Error("Photos should be an empty slice, not nil")
	}
}

func TestUserResponseHidesPassword(t *testing.T) {
	u := &User{ID: 1, Username: "anna", Password: "bcrypt-hash", Role: RoleStaff}
	resp := u.ToResponse()

	if resp.Username != "anna" || resp.Role != RoleStaff {
		t.Errorf("resp = %+v", resp)
	}
	if u.IsAdmin() {
		t.Error("staff should not be admin")
	}
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin role not detected")
	}
}
