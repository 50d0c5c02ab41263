package models

// Feedback represents a single feedback submission. UserID is resolved from
// the username at write time when possible; it is not an enforced foreign
// key and stays nil for anonymous or unknown submitters.
type Feedback struct {
	ID         int64  `json:"id" db:"id"`
	Username   string `json:"username" db:"username"`
	UserID     *int64 `json:"user_id,omitempty" db:"user_id"`
	Feedback   string `json:"feedback" db:"feedback"`
	FeedbackAt string `json:"feedback_at" db:"feedback_at"`
}
