package httpapi

import (
	"time"

	"trustdir/auth"
	"trustdir/business"
	"trustdir/report"
	"trustdir/review"
)

// Wire representations of the domain records. The domain structs carry no
// JSON tags so each surface can shape its own payloads.

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u auth.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type businessResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"businessName"`
	WhatsappNumber string    `json:"whatsappNumber"`
	Category       string    `json:"category"`
	City           string    `json:"city"`
	Address        string    `json:"address"`
	IsVerified     bool      `json:"isVerified"`
	IsBanned       bool      `json:"isBanned"`
	TrustScore     int       `json:"trustScore"`
	ProfileViews   int       `json:"profileViews"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toBusinessResponse(b business.Business) businessResponse {
	return businessResponse{
		ID:             b.ID,
		Name:           b.Name,
		WhatsappNumber: b.WhatsappNumber,
		Category:       b.Category,
		City:           b.City,
		Address:        b.Address,
		IsVerified:     b.Verified,
		IsBanned:       b.Banned,
		TrustScore:     b.TrustScore,
		ProfileViews:   b.ProfileViews,
		CreatedAt:      b.CreatedAt,
	}
}

func toBusinessResponses(list []business.Business) []businessResponse {
	out := make([]businessResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBusinessResponse(b))
	}
	return out
}

type reviewResponse struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"businessId"`
	ReviewerName string    `json:"reviewerName"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toReviewResponse(r review.Review) reviewResponse {
	return reviewResponse{
		ID:           r.ID,
		BusinessID:   r.BusinessID,
		ReviewerName: r.ReviewerName,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
}

func toReviewResponses(list []review.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReviewResponse(r))
	}
	return out
}

type reportResponse struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"businessId"`
	Reason      string    `json:"reason"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toReportResponse(r report.Report) reportResponse {
	return reportResponse{
		ID:          r.ID,
		BusinessID:  r.BusinessID,
		Reason:      r.Reason,
		Description: r.Description,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

func toReportResponses(list []report.Report) []reportResponse {
	out := make([]reportResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReportResponse(r))
	}
	return out
}
