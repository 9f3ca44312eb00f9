package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User roles
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FirstName string         `gorm:"size:50" json:"first_name"`
	LastName  string         `gorm:"size:50" json:"last_name"`
	Phone     string         `gorm:"size:20" json:"phone"`
	Role      string         `gorm:"size:10;default:'staff'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// IsAdmin returns true for administrator accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Cleaning Tables
// ============================================================

// Location statuses
const (
	LocationActive   = "active"
	LocationInactive = "inactive"
)

// Location represents a cleaning location (Departure Hall, Arrival Hall, ...)
type Location struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Status    string         `gorm:"size:10;default:'active'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	ChecklistItems []ChecklistItem `gorm:"foreignKey:LocationID" json:"checklist_items,omitempty"`
}

func (Location) TableName() string {
	return "locations"
}

// LocationResponse DTO
type LocationResponse struct {
	ID                  uint            `json:"id"`
	Name                string          `json:"name"`
	Status              string          `json:"status"`
	ChecklistItems      []ChecklistItem `json:"checklist_items"`
	ChecklistItemsCount int             `json:"checklist_items_count"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (l *Location) ToResponse() *LocationResponse {
	items := l.ChecklistItems
	if items == nil {
		items = []ChecklistItem{}
	}
	return &LocationResponse{
		ID:                  l.ID,
		Name:                l.Name,
		Status:              l.Status,
		ChecklistItems:      items,
		ChecklistItemsCount: len(items),
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}

// ChecklistItem represents one inspectable task of a location, with
// localized titles (English, Armenian, Russian)
type ChecklistItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LocationID uint      `gorm:"index;not null" json:"location"`
	TitleEN    string    `gorm:"size:255;not null" json:"title_en"`
	TitleAM    string    `gorm:"size:255" json:"title_am"`
	TitleRU    string    `gorm:"size:255" json:"title_ru"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ChecklistItem) TableName() string {
	return "checklist_items"
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

// Submission represents one cleaning report by a staff member.
// A staff member files at most one submission per location per date.
type Submission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	LocationID uint      `gorm:"not null;uniqueIndex:idx_submission_unique" json:"location"`
	StaffID    uint      `gorm:"not null;uniqueIndex:idx_submission_unique" json:"staff"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:idx_submission_unique" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Location    *Location    `gorm:"foreignKey:LocationID" json:"-"`
	Staff       *User        `gorm:"foreignKey:StaffID" json:"-"`
	TaskRatings []TaskRating `gorm:"foreignKey:SubmissionID" json:"-"`
}

func (Submission) TableName() string {
	return "submissions"
}

// CompletionRate returns the score percentage of loaded task ratings:
// round(100 * sum(rating) / (count * 10)), 0 when there are none.
func (s *Submission) CompletionRate() int {
	if len(s.TaskRatings) == 0 {
		return 0
	}

	total := 0
	for _, tr := range s.TaskRatings {
		total += tr.Rating
	}

	possible := len(s.TaskRatings) * 10
	return int(math.Round(float64(total) / float64(possible) * 100))
}

// SubmissionResponse DTO for detail views
type SubmissionResponse struct {
	ID             uint                 `json:"id"`
	Location       uint                 `json:"location"`
	LocationName   string               `json:"location_name"`
	Staff          uint                 `json:"staff"`
	StaffUsername  string               `json:"staff_username"`
	Date           string               `json:"date"`
	TaskRatings    []TaskRatingResponse `json:"task_ratings"`
	CompletionRate int                  `json:"completion_rate"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// SubmissionListResponse DTO for list views (no task ratings)
type SubmissionListResponse struct {
	ID             uint      `json:"id"`
	Location       uint      `json:"location"`
	LocationName   string    `json:"location_name"`
	Staff          uint      `json:"staff"`
	StaffUsername  string    `json:"staff_username"`
	Date           string    `json:"date"`
	CompletionRate int       `json:"completion_rate"`
	CreatedAt      time.Time `json:"created_at"`
}

// DateLayout is the wire format for submission dates
const DateLayout = "2006-01-02"

func (s *Submission) ToResponse(language string) *SubmissionResponse {
	resp := &SubmissionResponse{
		ID:             s.ID,
		Location:       s.LocationID,
		Staff:          s.StaffID,
		Date:           s.Date.Format(DateLayout),
		TaskRatings:    make([]TaskRatingResponse, 0, len(s.TaskRatings)),
		CompletionRate: s.CompletionRate(),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.Location != nil {
		resp.LocationName = s.Location.Name
	}
	if s.Staff != nil {
		resp.StaffUsername = s.Staff.Username
	}
	for _, tr := range s.TaskRatings {
		resp.TaskRatings = append(resp.TaskRatings, *tr.ToResponse(language))
	}
	return resp
}

func (s *Submission) ToListResponse() *SubmissionListResponse {
	resp := &SubmissionListResponse{
		ID:             s.ID,
		Location:       s.LocationID,
		Staff:          s.StaffID,
		Date:           s.Date.Format(DateLayout),
		CompletionRate: s.CompletionRate(),
		CreatedAt:      s.CreatedAt,
	}
	if s.Location != nil {
		resp.LocationName = s.Location.Name
	}
	if s.Staff != nil {
		resp.StaffUsername = s.Staff.Username
	}
	return resp
}

// TaskRating represents the rating of one checklist item within a submission
type TaskRating struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SubmissionID    uint      `gorm:"not null;index;uniqueIndex:idx_rating_unique" json:"submission"`
	ChecklistItemID uint      `gorm:"not null;uniqueIndex:idx_rating_unique" json:"checklist_item"`
	Rating          int       `gorm:"not null" json:"rating"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	ChecklistItem *ChecklistItem `gorm:"foreignKey:ChecklistItemID" json:"-"`
	Photos        []Photo        `gorm:"foreignKey:TaskRatingID" json:"photos"`
}

func (TaskRating) TableName() string {
	return "task_ratings"
}

// TaskRatingResponse DTO
type TaskRatingResponse struct {
	ID                 uint    `json:"id"`
	Submission         uint    `json:"submission"`
	ChecklistItem      uint    `json:"checklist_item"`
	ChecklistItemTitle string  `json:"checklist_item_title"`
	Rating             int     `json:"rating"`
	Notes              string  `json:"notes"`
	Photos             []Photo `json:"photos"`
}

func (tr *TaskRating) ToResponse(language string) *TaskRatingResponse {
	resp := &TaskRatingResponse{
		ID:            tr.ID,
		Submission:    tr.SubmissionID,
		ChecklistItem: tr.ChecklistItemID,
		Rating:        tr.Rating,
		Notes:         tr.Notes,
		Photos:        tr.Photos,
	}
	if resp.Photos == nil {
		resp.Photos = []Photo{}
	}
	if tr.ChecklistItem != nil {
		resp.ChecklistItemTitle = tr.ChecklistItem.Title(language)
	}
	return resp
}

// Photo represents a photo attached to a task rating
type Photo struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TaskRatingID uint      `gorm:"not null;index" json:"task_rating"`
	Image        string    `gorm:"size:500;not null" json:"image"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Photo) TableName() string {
	return "photos"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Location{},
		&ChecklistItem{},
		&Submission{},
		&TaskRating{},
		&Photo{},
	)
}
