package domain

import "time"

type User struct {
	ID                int64
	Email             string
	EmailDomain       string
	GoogleSub         string
	DisplayName       string
	Username          string
	UsernameChangedAt *time.Time
	Timezone          string
	PrivacyOptIn      bool
	CreatedAt         time.Time
}

// Name returns the display name, falling back to the username.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

type Subject struct {
	ID        int64
	UserID    int64
	Name      string
	Color     string
	CreatedAt time.Time
}

// GeneralSubjectName is the distinguished per-user subject every user owns.
// Sessions without a subject reference fall into this bucket.
const GeneralSubjectName = "All Subjects"

// GeneralSubjectColor is assigned to the distinguished subject at signup.
const GeneralSubjectColor = "#f59f0a"

// DefaultSubjectColor is used wherever a subject has no stored color.
const DefaultSubjectColor = "#3b82f6"

type FocusSession struct {
	ID         int64
	UserID     int64
	SubjectID  *int64
	StartedAt  time.Time
	EndedAt    time.Time
	DurationMs int64
}

// Session duration bounds enforced at creation, in milliseconds.
const (
	MinSessionDurationMs = 30_000
	MaxSessionDurationMs = 36_000_000
)

type FriendStatus string

const (
	FriendStatusPending  FriendStatus = "pending"
	FriendStatusAccepted FriendStatus = "accepted"
)

type Friend struct {
	ID          int64
	RequesterID int64
	AddresseeID int64
	Status      FriendStatus
	CreatedAt   time.Time
}

type UserSummary struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Username    string `json:"username"`
	EmailDomain string `json:"email_domain"`
}

type FriendListItem struct {
	ID   int64       `json:"id"`
	User UserSummary `json:"user"`
}

type FriendRequest struct {
	ID        int64       `json:"id"`
	User      UserSummary `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}
