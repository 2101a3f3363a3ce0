package http

import (
	allocationUsecases "github.com/orris-inc/fundtrail/internal/application/allocation/usecases"
	reconciliationUsecases "github.com/orris-inc/fundtrail/internal/application/reconciliation/usecases"
	settlementUsecases "github.com/orris-inc/fundtrail/internal/application/settlement/usecases"
	"github.com/orris-inc/fundtrail/internal/infrastructure/cache"
)

type allUseCases struct {
	settle *settlementUsecases.SettleUseCase

	donate            *allocationUsecases.DonateUseCase
	recordDonation    *allocationUsecases.RecordDonationUseCase
	allocateToProject *allocationUsecases.AllocateToProjectUseCase
	appendAllocation  *allocationUsecases.AppendAllocationUseCase
	markSettled       *allocationUsecases.MarkAllocationSettledUseCase
	abandonAllocation *allocationUsecases.AbandonAllocationUseCase
	getDonation       *allocationUsecases.GetDonationUseCase
	listDonations     *allocationUsecases.ListDonationsUseCase
	listAvailable     *allocationUsecases.ListAvailableDonationsUseCase
	createProject     *allocationUsecases.CreateProjectUseCase
	getProject        *allocationUsecases.GetProjectUseCase
	projectFunded     *reconciliationUsecases.PerProjectFundedUseCase
	projectSummary    *reconciliationUsecases.ProjectSummaryUseCase
	fundingSummary    *reconciliationUsecases.FundingSummaryUseCase
}

func (c *Container) newUseCases() *allUseCases {
	log := c.log
	settlementCfg := c.cfg.Settlement
	donationRepo := c.repos.donationRepo
	projectRepo := c.repos.projectRepo

	idempotencyStore := cache.NewSettlementIdempotencyStore(c.redis, settlementCfg.IdempotencyTTL(), log)
	settle := settlementUsecases.NewSettleUseCase(c.ledgerClient, idempotencyStore, c.metrics, log.Named("settlement"))

	// the verifier must stay a nil interface when disabled
	var verifier allocationUsecases.SettlementVerifier
	if settlementCfg.VerifyDonationSettlement {
		verifier = c.ledgerClient
	}
	recordDonation := allocationUsecases.NewRecordDonationUseCase(donationRepo, verifier, log)

	return &allUseCases{
		settle:            settle,
		donate:            allocationUsecases.NewDonateUseCase(settle, recordDonation, donationRepo, log),
		recordDonation:    recordDonation,
		allocateToProject: allocationUsecases.NewAllocateToProjectUseCase(donationRepo, projectRepo, settle, settlementCfg.MaxAppendAttempts, log),
		appendAllocation:  allocationUsecases.NewAppendAllocationUseCase(donationRepo, settlementCfg.MaxAppendAttempts, log),
		markSettled:       allocationUsecases.NewMarkAllocationSettledUseCase(donationRepo, settlementCfg.MaxAppendAttempts, log),
		abandonAllocation: allocationUsecases.NewAbandonAllocationUseCase(donationRepo, settlementCfg.MaxAppendAttempts, log),
		getDonation:       allocationUsecases.NewGetDonationUseCase(donationRepo),
		listDonations:     allocationUsecases.NewListDonationsUseCase(donationRepo),
		listAvailable:     allocationUsecases.NewListAvailableDonationsUseCase(donationRepo),
		createProject:     allocationUsecases.NewCreateProjectUseCase(projectRepo, log),
		getProject:        allocationUsecases.NewGetProjectUseCase(projectRepo),
		projectFunded:     reconciliationUsecases.NewPerProjectFundedUseCase(projectRepo, c.ledgerClient),
		projectSummary:    reconciliationUsecases.NewProjectSummaryUseCase(projectRepo, donationRepo, c.ledgerClient, log),
		fundingSummary:    reconciliationUsecases.NewFundingSummaryUseCase(donationRepo, c.ledgerClient, log),
	}
}
