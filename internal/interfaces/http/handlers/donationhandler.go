package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/fundtrail/internal/interfaces/dto"
	"github.com/orris-inc/fundtrail/internal/shared/errors"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
	"github.com/orris-inc/fundtrail/internal/shared/utils"
)

type DonationHandler struct {
	donateUC         donateUseCase
	recordDonationUC recordDonationUseCase
	getDonationUC    getDonationUseCase
	listDonationsUC  listDonationsUseCase
	listAvailableUC  listDonationsUseCase
	logger           logger.Interface
}

func NewDonationHandler(
	donateUC donateUseCase,
	recordDonationUC recordDonationUseCase,
	getDonationUC getDonationUseCase,
	listDonationsUC listDonationsUseCase,
	listAvailableUC listDonationsUseCase,
	logger logger.Interface,
) *DonationHandler {
	return &DonationHandler{
		donateUC:         donateUC,
		recordDonationUC: recordDonationUC,
		getDonationUC:    getDonationUC,
		listDonationsUC:  listDonationsUC,
		listAvailableUC:  listAvailableUC,
		logger:           logger,
	}
}

// Donate handles POST /donations
func (h *DonationHandler) Donate(c *gin.Context) {
	var req dto.DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for donate", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}
	if req.IdempotencyKey == "" {
		cmd.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	donation, err := h.donateUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnw("donation failed",
			"donor", req.DonorAddress,
			"organization", req.OrganizationAddress,
			"error", err,
		)
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.CreatedResponse(c, dto.ToDonationDTO(donation), "Donation settled and recorded")
}

// RecordDonation handles POST /donations/record
func (h *DonationHandler) RecordDonation(c *gin.Context) {
	var req dto.RecordDonationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	donation, err := h.recordDonationUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.CreatedResponse(c, dto.ToDonationDTO(donation), "Donation recorded")
}

// GetDonation handles GET /donations/:id
func (h *DonationHandler) GetDonation(c *gin.Context) {
	donationID := c.Param("id")
	if err := utils.ValidateID("donation id", donationID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	donation, err := h.getDonationUC.Execute(c.Request.Context(), donationID)
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.ToDonationDTO(donation))
}

// ListDonations handles GET /organizations/:org/donations
func (h *DonationHandler) ListDonations(c *gin.Context) {
	h.list(c, h.listDonationsUC)
}

// ListAvailableDonations handles GET /organizations/:org/donations/available
func (h *DonationHandler) ListAvailableDonations(c *gin.Context) {
	h.list(c, h.listAvailableUC)
}

func (h *DonationHandler) list(c *gin.Context, uc listDonationsUseCase) {
	organization := c.Param("org")
	if err := utils.ValidateID("organization", organization); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	donations, err := uc.Execute(c.Request.Context(), organization)
	if err != nil {
		h.logger.Errorw("failed to list donations", "organization", organization, "error", err)
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.ToDonationDTOs(donations))
}
