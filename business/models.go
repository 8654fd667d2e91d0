package business

import "time"

// Business is the scored directory entity, identified by its WhatsApp number.
// trust_score is derived state: the trust engine owns the column and this
// package never writes it directly.
type Business struct {
	ID             string
	OwnerID        string
	Name           string
	WhatsappNumber string
	Category       string
	City           string
	Address        string
	Verified       bool
	Banned         bool
	TrustScore     int
	ProfileViews   int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateParams contains registration data for a new business.
type CreateParams struct {
	OwnerID        string
	Name           string
	WhatsappNumber string
	Category       string
	City           string
	Address        string
}

// UpdateParams carries owner profile edits. Empty fields are left unchanged.
// None of these affect the trust score.
type UpdateParams struct {
	Name     string
	Category string
	City     string
	Address  string
}

// ListFilters narrows the administrative directory listing.
type ListFilters struct {
	Search   string
	Page     int
	PageSize int
}
