package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"trustdir/review"
)

// ReviewHandler handles public review submission and listing.
type ReviewHandler struct {
	svc *review.Service
	log zerolog.Logger
}

// NewReviewHandler creates a review handler.
func NewReviewHandler(svc *review.Service, log zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, log: log}
}

type createReviewRequest struct {
	BusinessID   string `json:"businessId"`
	ReviewerName string `json:"reviewerName"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rev, err := h.svc.Create(c.Request.Context(), review.CreateParams{
		BusinessID:   req.BusinessID,
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, review.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		case errors.Is(err, review.ErrBusinessNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
		default:
			h.log.Error().Err(err).Msg("add review failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to add review"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": toReviewResponse(rev)})
}

func (h *ReviewHandler) ListByBusiness(c *gin.Context) {
	list, err := h.svc.ListByBusiness(c.Request.Context(), c.Param("businessId"))
	if err != nil {
		h.log.Error().Err(err).Msg("list reviews failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": toReviewResponses(list)})
}
