package review

import "time"

// Review is an immutable feedback record. Reviews are submitted without
// authentication, are never edited or deleted, and every creation refreshes
// the owning business's trust score.
type Review struct {
	ID           string
	BusinessID   string
	ReviewerName string
	Rating       int
	Comment      string
	CreatedAt    time.Time
}

// CreateParams contains a submitted review.
type CreateParams struct {
	BusinessID   string
	ReviewerName string
	Rating       int
	Comment      string
}
