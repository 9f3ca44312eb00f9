package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// User is the profile of an account
type User struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

// IsAdmin returns true for administrator accounts
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// Location is a cleaning location with its checklist
type Location struct {
	ID                  uint            `json:"id"`
	Name                string          `json:"name"`
	Status              string          `json:"status"`
	ChecklistItems      []ChecklistItem `json:"checklist_items"`
	ChecklistItemsCount int             `json:"checklist_items_count"`
}

// ChecklistItem is one inspectable task with localized titles
type ChecklistItem struct {
	ID       uint   `json:"id"`
	Location uint   `json:"location"`
	TitleEN  string `json:"title_en"`
	TitleAM  string `json:"title_am"`
	TitleRU  string `json:"title_ru"`
}

// Title returns the localized title with English fallback
func (ci *ChecklistItem) Title(language string) string {
	switch language {
	case "am":
		if ci.TitleAM != "" {
			return ci.TitleAM
		}
	case "ru":
		if ci.TitleRU != "" {
			return ci.TitleRU
		}
	}
	return ci.TitleEN
}

// SubmissionPhoto is a stored photo reference
type SubmissionPhoto struct {
	ID    uint   `json:"id"`
	Image string `json:"image"`
}

// TaskRating is one rated checklist item inside a submission
type TaskRating struct {
	ID                 uint              `json:"id"`
	ChecklistItem      uint              `json:"checklist_item"`
	ChecklistItemTitle string            `json:"checklist_item_title"`
	Rating             int               `json:"rating"`
	Notes              string            `json:"notes"`
	Photos             []SubmissionPhoto `json:"photos"`
}

// Submission is a filed cleaning report
type Submission struct {
	ID             uint         `json:"id"`
	Location       uint         `json:"location"`
	LocationName   string       `json:"location_name"`
	Staff          uint         `json:"staff"`
	StaffUsername  string       `json:"staff_username"`
	Date           string       `json:"date"`
	TaskRatings    []TaskRating `json:"task_ratings"`
	CompletionRate int          `json:"completion_rate"`
}

// LocationCount is one entry of the per-location breakdown
type LocationCount struct {
	LocationName string `json:"location__name"`
	Count        int64  `json:"count"`
}

// Stats is the dashboard aggregate
type Stats struct {
	SubmissionCount       int64           `json:"submission_count"`
	AvgCompletionRate     float64         `json:"avg_completion_rate"`
	ActiveUsers           int             `json:"active_users"`
	SubmissionsByLocation []LocationCount `json:"submissions_by_location"`
}

// page is the server's list envelope
type page struct {
	Count   int64           `json:"count"`
	Results json.RawMessage `json:"results"`
}

// tokenPair is the login response
type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login authenticates, stores the token pair and caches the profile.
// It never triggers a token refresh: a 401 here means bad credentials.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login/", "application/json", payload, 0)
	if err != nil {
		return nil, err
	}

	var pair tokenPair
	if err := decodeJSON(resp, &pair); err != nil {
		return nil, err
	}
	if err := c.store.SetPair(pair.Access, pair.Refresh); err != nil {
		return nil, err
	}

	user, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout revokes the refresh token on the server and clears the session
func (c *Client) Logout(ctx context.Context) error {
	if refresh := c.store.Refresh(); refresh != "" {
		payload, err := json.Marshal(map[string]string{"refresh": refresh})
		if err != nil {
			return err
		}
		resp, err := c.do(ctx, http.MethodPost, "/api/auth/logout/", "application/json", payload, authRetryBudget)
		if err == nil {
			_ = decodeJSON(resp, nil)
		}
	}
	return c.store.Clear()
}

// Me fetches the current profile and caches it in the token store
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/api/auth/me/", &user); err != nil {
		return nil, err
	}
	if err := c.store.SetUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Locations lists cleaning locations
func (c *Client) Locations(ctx context.Context) ([]Location, error) {
	var pg page
	if err := c.getJSON(ctx, "/api/cleanings/locations/?limit=100", &pg); err != nil {
		return nil, err
	}
	var locations []Location
	if err := json.Unmarshal(pg.Results, &locations); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	return locations, nil
}

// Location fetches one location with its checklist
func (c *Client) Location(ctx context.Context, id uint) (*Location, error) {
	var location Location
	if err := c.getJSON(ctx, fmt.Sprintf("/api/cleanings/locations/%d/", id), &location); err != nil {
		return nil, err
	}
	return &location, nil
}

// ChecklistItems lists the checklist of one location in checklist order
func (c *Client) ChecklistItems(ctx context.Context, locationID uint) ([]ChecklistItem, error) {
	var pg page
	path := fmt.Sprintf("/api/cleanings/checklist-items/?location=%d&limit=100", locationID)
	if err := c.getJSON(ctx, path, &pg); err != nil {
		return nil, err
	}
	var items []ChecklistItem
	if err := json.Unmarshal(pg.Results, &items); err != nil {
		return nil, fmt.Errorf("decode checklist items: %w", err)
	}
	return items, nil
}

// LocationInput is the create/update payload for a location
type LocationInput struct {
	Name   string `json:"name,omitempty"`
	Status string `json:"status,omitempty"`
}

// CreateLocation creates a cleaning location (admin)
func (c *Client) CreateLocation(ctx context.Context, input LocationInput) (*Location, error) {
	var location Location
	if err := c.postJSON(ctx, "/api/cleanings/locations/", input, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

// UpdateLocation patches a location's name or status (admin)
func (c *Client) UpdateLocation(ctx context.Context, id uint, input LocationInput) (*Location, error) {
	var location Location
	path := fmt.Sprintf("/api/cleanings/locations/%d/", id)
	if err := c.patchJSON(ctx, path, input, &location); err != nil {
		return nil, err
	}
	return &location, nil
}

// DeleteLocation removes a location (admin)
func (c *Client) DeleteLocation(ctx context.Context, id uint) error {
	return c.deleteJSON(ctx, fmt.Sprintf("/api/cleanings/locations/%d/", id))
}

// ChecklistItemInput is the create/update payload for a checklist item
type ChecklistItemInput struct {
	Location uint   `json:"location,omitempty"`
	TitleEN  string `json:"title_en,omitempty"`
	TitleAM  string `json:"title_am,omitempty"`
	TitleRU  string `json:"title_ru,omitempty"`
}

// CreateChecklistItem adds a task to a location's checklist (admin)
func (c *Client) CreateChecklistItem(ctx context.Context, input ChecklistItemInput) (*ChecklistItem, error) {
	var item ChecklistItem
	if err := c.postJSON(ctx, "/api/cleanings/checklist-items/", input, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateChecklistItem patches a checklist item's titles (admin)
func (c *Client) UpdateChecklistItem(ctx context.Context, id uint, input ChecklistItemInput) (*ChecklistItem, error) {
	var item ChecklistItem
	path := fmt.Sprintf("/api/cleanings/checklist-items/%d/", id)
	if err := c.patchJSON(ctx, path, input, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteChecklistItem removes a checklist item (admin)
func (c *Client) DeleteChecklistItem(ctx context.Context, id uint) error {
	return c.deleteJSON(ctx, fmt.Sprintf("/api/cleanings/checklist-items/%d/", id))
}

// CreateSubmission encodes and files a draft, returning the stored report
func (c *Client) CreateSubmission(ctx context.Context, draft *Draft) (*Submission, error) {
	encoded, err := EncodeSubmission(draft)
	if err != nil {
		return nil, err
	}

	var submission Submission
	if err := c.postMultipart(ctx, "/api/cleanings/submissions/", encoded.ContentType, encoded.Body, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

// SubmissionFilter narrows submission listings
type SubmissionFilter struct {
	LocationID uint
	Date       string
	From       string
	To         string
	Page       int
	Limit      int
}

// Submissions lists submissions with filters; count is the server total
func (c *Client) Submissions(ctx context.Context, filter SubmissionFilter) ([]Submission, int64, error) {
	q := url.Values{}
	if filter.LocationID != 0 {
		q.Set("location", strconv.FormatUint(uint64(filter.LocationID), 10))
	}
	if filter.Date != "" {
		q.Set("date", filter.Date)
	}
	if filter.From != "" {
		q.Set("from", filter.From)
	}
	if filter.To != "" {
		q.Set("to", filter.To)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	path := "/api/cleanings/submissions/"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var pg page
	if err := c.getJSON(ctx, path, &pg); err != nil {
		return nil, 0, err
	}
	var submissions []Submission
	if err := json.Unmarshal(pg.Results, &submissions); err != nil {
		return nil, 0, fmt.Errorf("decode submissions: %w", err)
	}
	return submissions, pg.Count, nil
}

// Submission fetches one submission with ratings and photos
func (c *Client) Submission(ctx context.Context, id uint) (*Submission, error) {
	var submission Submission
	if err := c.getJSON(ctx, fmt.Sprintf("/api/cleanings/submissions/%d/", id), &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

// Today lists today's submissions
func (c *Client) Today(ctx context.Context) ([]Submission, error) {
	var submissions []Submission
	if err := c.getJSON(ctx, "/api/cleanings/submissions/today/", &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// Stats fetches dashboard stats for the last `days` days (server default 30)
func (c *Client) Stats(ctx context.Context, days int) (*Stats, error) {
	path := "/api/cleanings/submissions/stats/"
	if days > 0 {
		path += "?days=" + strconv.Itoa(days)
	}
	var stats Stats
	if err := c.getJSON(ctx, path, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SubmittedToday reports whether a submission already exists for the
// location and date, used to warn before starting a duplicate draft
func (c *Client) SubmittedToday(ctx context.Context, locationID uint) (bool, error) {
	today := time.Now().Format(DateLayout)
	submissions, _, err := c.Submissions(ctx, SubmissionFilter{
		LocationID: locationID,
		Date:       today,
		Limit:      1,
	})
	if err != nil {
		return false, err
	}
	return len(submissions) > 0, nil
}
