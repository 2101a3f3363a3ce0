package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/fundtrail/internal/interfaces/http/handlers"
)

// FundingRouteConfig holds dependencies for donation, allocation and project routes.
type FundingRouteConfig struct {
	DonationHandler   *handlers.DonationHandler
	AllocationHandler *handlers.AllocationHandler
	ProjectHandler    *handlers.ProjectHandler
	SummaryHandler    *handlers.SummaryHandler
	// WriteLimit guards every route that can move funds or change a record. Nil disables it.
	WriteLimit gin.HandlerFunc
}

// SetupFundingRoutes configures the ledger routes.
func SetupFundingRoutes(engine *gin.Engine, cfg *FundingRouteConfig) {
	limit := cfg.WriteLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}

	donations := engine.Group("/donations")
	{
		donations.POST("", limit, cfg.DonationHandler.Donate)
		donations.POST("/record", limit, cfg.DonationHandler.RecordDonation)
		donations.GET("/:id", cfg.DonationHandler.GetDonation)

		donations.POST("/:id/allocations", limit, cfg.AllocationHandler.AppendAllocation)
		donations.POST("/:id/allocations/:allocationId/settle", limit, cfg.AllocationHandler.MarkSettled)
		donations.POST("/:id/allocations/:allocationId/abandon", limit, cfg.AllocationHandler.Abandon)
	}

	engine.POST("/allocations", limit, cfg.AllocationHandler.AllocateToProject)

	organizations := engine.Group("/organizations/:org")
	{
		organizations.GET("/donations", cfg.DonationHandler.ListDonations)
		organizations.GET("/donations/available", cfg.DonationHandler.ListAvailableDonations)
		organizations.GET("/summary", cfg.SummaryHandler.GetOrganizationSummary)
	}

	projects := engine.Group("/projects")
	{
		projects.POST("", limit, cfg.ProjectHandler.CreateProject)
		projects.GET("/:id", cfg.ProjectHandler.GetProject)
		projects.GET("/:id/funded", cfg.ProjectHandler.GetFunded)
		projects.GET("/:id/summary", cfg.ProjectHandler.GetSummary)
	}
}
