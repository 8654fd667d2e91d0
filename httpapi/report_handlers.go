package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"trustdir/report"
)

// ReportHandler handles public report submission and the open-report listing.
type ReportHandler struct {
	svc *report.Service
	log zerolog.Logger
}

// NewReportHandler creates a report handler.
func NewReportHandler(svc *report.Service, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, log: log}
}

type createReportRequest struct {
	BusinessID  string `json:"businessId"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rep, err := h.svc.Create(c.Request.Context(), report.CreateParams{
		BusinessID:  req.BusinessID,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, report.ErrBusinessNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
			return
		}
		h.log.Error().Err(err).Msg("add report failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to add report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"report": toReportResponse(rep)})
}

// ListOpenByBusiness returns the few most recent open reports shown on the
// public profile page.
func (h *ReportHandler) ListOpenByBusiness(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))

	list, err := h.svc.ListOpenByBusiness(c.Request.Context(), c.Param("businessId"), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list open reports failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": toReportResponses(list)})
}
