package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"trustdir/auth"
	"trustdir/business"
	"trustdir/report"
	"trustdir/review"
	"trustdir/trust"
)

// Services bundles everything the router needs.
type Services struct {
	Auth       *auth.Service
	Businesses *business.Service
	Reviews    *review.Service
	Reports    *report.Service
	Scores     *trust.Service
}

// NewRouter wires all handlers onto a gin engine.
func NewRouter(svcs Services, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authHandler := NewAuthHandler(svcs.Auth, log)
	businessHandler := NewBusinessHandler(svcs.Businesses, log)
	reviewHandler := NewReviewHandler(svcs.Reviews, log)
	reportHandler := NewReportHandler(svcs.Reports, log)
	adminHandler := NewAdminHandler(svcs.Businesses, svcs.Reports, svcs.Scores, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", RequireAuth(svcs.Auth), authHandler.Me)

	// Public directory surface: lookups, reviews and reports need no account.
	api.GET("/business/:number", businessHandler.GetByNumber)
	api.GET("/reviews/:businessId", reviewHandler.ListByBusiness)
	api.POST("/reviews", reviewHandler.Create)
	api.GET("/reports/:businessId", reportHandler.ListOpenByBusiness)
	api.POST("/reports", reportHandler.Create)

	owner := api.Group("", RequireAuth(svcs.Auth))
	owner.POST("/business", businessHandler.Create)
	owner.PATCH("/business", businessHandler.Update)
	// Not nested under /business/:number; gin forbids mixing a static
	// segment with the wildcard.
	owner.GET("/my/business", businessHandler.My)

	admin := api.Group("/admin", RequireAuth(svcs.Auth), RequireAdmin())
	admin.GET("/businesses", adminHandler.ListBusinesses)
	admin.PATCH("/business/verify", adminHandler.Verify)
	admin.PATCH("/business/ban", adminHandler.Ban)
	admin.GET("/reports", adminHandler.ListReports)
	admin.PATCH("/report/close", adminHandler.CloseReport)
	admin.POST("/recompute", adminHandler.Recompute)

	return router
}
