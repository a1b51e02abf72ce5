package store

import "time"

type User struct {
	ID           string
	DisplayName  string
	Email        string
	PasswordHash string
	IsSuperuser  bool
	IsStaff      bool
	CreatedAt    time.Time
}

type Category struct {
	ID        string
	Name      string
	CreatedBy *string
	CreatedAt time.Time
}

// CategoryAdminAssignment links one user to the set of categories they
// administer. Holding an assignment implies the user's is_staff flag.
type CategoryAdminAssignment struct {
	UserID      string
	CategoryIDs []string
	CreatedAt   time.Time
}

const (
	StatusUnderReview = "under_review"
	StatusAccepted    = "accepted"
	StatusRejected    = "rejected"
)

type Suggestion struct {
	ID          string
	UserID      *string
	IsAnonymous bool
	CategoryID  *string
	Title       string
	Content     string
	Status      string
	Sentiment   *float64
	IsSpam      bool
	// AutoCategory is a free-text label from keyword matching, not a
	// reference to the categories table.
	AutoCategory *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Reply struct {
	ID           string
	SuggestionID string
	AdminID      *string
	AdminName    string
	Content      string
	CreatedAt    time.Time
}
