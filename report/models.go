package report

import "time"

// Status represents the two-state report lifecycle: a report opens on
// creation and an administrator may close it once. There is no reopening.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Report is a moderation complaint against a business. Open reports count
// against the trust score; closed ones are historical and score-neutral.
type Report struct {
	ID          string
	BusinessID  string
	Reason      string
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateParams contains a submitted report.
type CreateParams struct {
	BusinessID  string
	Reason      string
	Description string
}

// ListFilters narrows the administrative report listing.
type ListFilters struct {
	Status   Status
	Page     int
	PageSize int
}
