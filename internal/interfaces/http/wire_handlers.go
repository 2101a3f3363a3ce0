package http

import (
	"github.com/orris-inc/fundtrail/internal/interfaces/http/handlers"
)

type allHandlers struct {
	donation   *handlers.DonationHandler
	allocation *handlers.AllocationHandler
	project    *handlers.ProjectHandler
	summary    *handlers.SummaryHandler
}

func (c *Container) newHandlers() *allHandlers {
	ucs := c.ucs
	log := c.log.Named("http")

	return &allHandlers{
		donation: handlers.NewDonationHandler(
			ucs.donate,
			ucs.recordDonation,
			ucs.getDonation,
			ucs.listDonations,
			ucs.listAvailable,
			log,
		),
		allocation: handlers.NewAllocationHandler(
			ucs.allocateToProject,
			ucs.appendAllocation,
			ucs.markSettled,
			ucs.abandonAllocation,
			log,
		),
		project: handlers.NewProjectHandler(
			ucs.createProject,
			ucs.getProject,
			ucs.projectFunded,
			ucs.projectSummary,
			log,
		),
		summary: handlers.NewSummaryHandler(ucs.fundingSummary),
	}
}
