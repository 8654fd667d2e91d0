package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"trustdir/business"
	"trustdir/report"
	"trustdir/trust"
)

// AdminHandler handles moderation: verification, bans, report closure and
// the bulk score repair.
type AdminHandler struct {
	businesses *business.Service
	reports    *report.Service
	scores     *trust.Service
	log        zerolog.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(businesses *business.Service, reports *report.Service, scores *trust.Service, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		businesses: businesses,
		reports:    reports,
		scores:     scores,
		log:        log,
	}
}

func (h *AdminHandler) ListBusinesses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	list, total, err := h.businesses.List(c.Request.Context(), business.ListFilters{
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("list businesses failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch businesses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": toBusinessResponses(list),
		"total":      total,
	})
}

type verifyRequest struct {
	BusinessID string `json:"businessId"`
	IsVerified *bool  `json:"isVerified"`
}

func (h *AdminHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.BindJSON(&req); err != nil || req.BusinessID == "" || req.IsVerified == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business id and verification status are required"})
		return
	}

	biz, err := h.businesses.SetVerified(c.Request.Context(), req.BusinessID, *req.IsVerified)
	if err != nil {
		h.writeBusinessMutationError(c, err, "verify business failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": toBusinessResponse(biz)})
}

type banRequest struct {
	BusinessID string `json:"businessId"`
	IsBanned   *bool  `json:"isBanned"`
}

func (h *AdminHandler) Ban(c *gin.Context) {
	var req banRequest
	if err := c.BindJSON(&req); err != nil || req.BusinessID == "" || req.IsBanned == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business id and ban status are required"})
		return
	}

	biz, err := h.businesses.SetBanned(c.Request.Context(), req.BusinessID, *req.IsBanned)
	if err != nil {
		h.writeBusinessMutationError(c, err, "ban business failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": toBusinessResponse(biz)})
}

func (h *AdminHandler) writeBusinessMutationError(c *gin.Context, err error, msg string) {
	if errors.Is(err, business.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
		return
	}
	h.log.Error().Err(err).Msg(msg)
	// The flag may be committed with the score still stale; the admin retries.
	c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed, trust score may be stale"})
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	list, total, err := h.reports.List(c.Request.Context(), report.ListFilters{
		Status:   report.Status(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("list reports failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": toReportResponses(list),
		"total":   total,
	})
}

type closeReportRequest struct {
	ReportID string `json:"reportId"`
}

func (h *AdminHandler) CloseReport(c *gin.Context) {
	var req closeReportRequest
	if err := c.BindJSON(&req); err != nil || req.ReportID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "report id is required"})
		return
	}

	rep, err := h.reports.Close(c.Request.Context(), req.ReportID)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		case errors.Is(err, report.ErrAlreadyClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "report already closed"})
		default:
			h.log.Error().Err(err).Msg("close report failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "close failed, trust score may be stale"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": toReportResponse(rep)})
}

// Recompute runs the bulk score repair across every business, reporting
// per-business outcomes.
func (h *AdminHandler) Recompute(c *gin.Context) {
	results, err := h.scores.RecomputeAll(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("bulk recompute failed to start")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "bulk recompute failed"})
		return
	}

	type outcome struct {
		BusinessID string `json:"businessId"`
		Score      int    `json:"trustScore"`
		Error      string `json:"error,omitempty"`
	}

	outcomes := make([]outcome, 0, len(results))
	failed := 0
	for _, res := range results {
		o := outcome{BusinessID: res.BusinessID, Score: res.Score}
		if res.Err != nil {
			o.Error = res.Err.Error()
			failed++
		}
		outcomes = append(outcomes, o)
	}

	c.JSON(http.StatusOK, gin.H{
		"results": outcomes,
		"total":   len(outcomes),
		"failed":  failed,
	})
}
