package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"trustdir/business"
)

// BusinessHandler handles directory lookups and owner operations.
type BusinessHandler struct {
	svc *business.Service
	log zerolog.Logger
}

// NewBusinessHandler creates a business handler.
func NewBusinessHandler(svc *business.Service, log zerolog.Logger) *BusinessHandler {
	return &BusinessHandler{svc: svc, log: log}
}

type createBusinessRequest struct {
	Name           string `json:"businessName"`
	WhatsappNumber string `json:"whatsappNumber"`
	Category       string `json:"category"`
	City           string `json:"city"`
	Address        string `json:"address"`
}

func (h *BusinessHandler) Create(c *gin.Context) {
	var req createBusinessRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	biz, err := h.svc.Create(c.Request.Context(), business.CreateParams{
		OwnerID:        callerID(c),
		Name:           req.Name,
		WhatsappNumber: req.WhatsappNumber,
		Category:       req.Category,
		City:           req.City,
		Address:        req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, business.ErrInvalidNumber):
			c.JSON(http.StatusBadRequest, gin.H{"error": "whatsapp number must be 10 digits"})
		case errors.Is(err, business.ErrDuplicateNumber):
			c.JSON(http.StatusConflict, gin.H{"error": "business with this whatsapp number already exists"})
		case errors.Is(err, business.ErrOwnerHasBusiness):
			c.JSON(http.StatusConflict, gin.H{"error": "you already have a registered business"})
		default:
			h.log.Error().Err(err).Msg("create business failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create business"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"business": toBusinessResponse(biz)})
}

type updateBusinessRequest struct {
	Name     string `json:"businessName"`
	Category string `json:"category"`
	City     string `json:"city"`
	Address  string `json:"address"`
}

func (h *BusinessHandler) Update(c *gin.Context) {
	var req updateBusinessRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	biz, err := h.svc.UpdateProfile(c.Request.Context(), callerID(c), business.UpdateParams{
		Name:     req.Name,
		Category: req.Category,
		City:     req.City,
		Address:  req.Address,
	})
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
			return
		}
		h.log.Error().Err(err).Msg("update business failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update business"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": toBusinessResponse(biz)})
}

func (h *BusinessHandler) My(c *gin.Context) {
	biz, err := h.svc.GetByOwner(c.Request.Context(), callerID(c))
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
			return
		}
		h.log.Error().Err(err).Msg("my business lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": toBusinessResponse(biz)})
}

// GetByNumber is the public profile lookup by WhatsApp number.
func (h *BusinessHandler) GetByNumber(c *gin.Context) {
	biz, err := h.svc.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		switch {
		case errors.Is(err, business.ErrInvalidNumber):
			c.JSON(http.StatusBadRequest, gin.H{"error": "whatsapp number must be 10 digits"})
		case errors.Is(err, business.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
		default:
			h.log.Error().Err(err).Msg("business lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"business": toBusinessResponse(biz)})
}
