package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/fundtrail/internal/application/allocation/usecases"
	vo "github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/interfaces/dto"
	"github.com/orris-inc/fundtrail/internal/shared/errors"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
	"github.com/orris-inc/fundtrail/internal/shared/utils"
)

type AllocationHandler struct {
	allocateUC    allocateToProjectUseCase
	appendUC      appendAllocationUseCase
	markSettledUC markAllocationSettledUseCase
	abandonUC     abandonAllocationUseCase
	logger        logger.Interface
}

func NewAllocationHandler(
	allocateUC allocateToProjectUseCase,
	appendUC appendAllocationUseCase,
	markSettledUC markAllocationSettledUseCase,
	abandonUC abandonAllocationUseCase,
	logger logger.Interface,
) *AllocationHandler {
	return &AllocationHandler{
		allocateUC:    allocateUC,
		appendUC:      appendUC,
		markSettledUC: markSettledUC,
		abandonUC:     abandonUC,
		logger:        logger,
	}
}

// AllocateToProject handles POST /allocations
func (h *AllocationHandler) AllocateToProject(c *gin.Context) {
	var req dto.AllocateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	result, err := h.allocateUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		// the reservation survived, so point the caller at the allocation to reconcile
		if result != nil && result.Allocation != nil {
			h.logger.Warnw("allocation left pending",
				"donation_id", result.DonationID,
				"allocation_id", result.Allocation.ID(),
				"error", err,
			)
			err = withDetails(toAppError(err),
				"donation_id="+result.DonationID,
				"allocation_id="+result.Allocation.ID(),
			)
		}
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.CreatedResponse(c, dto.ToAllocateResultDTO(result), "Allocation settled")
}

// AppendAllocation handles POST /donations/:id/allocations
func (h *AllocationHandler) AppendAllocation(c *gin.Context) {
	donationID := c.Param("id")
	if err := utils.ValidateID("donation id", donationID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AppendAllocationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	amount, err := vo.ParseDisplayAmount(req.Amount)
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	allocation, err := h.appendUC.Execute(c.Request.Context(), usecases.AppendAllocationCommand{
		DonationID: donationID,
		ProjectID:  req.ProjectID,
		Amount:     amount,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.CreatedResponse(c, dto.ToAllocationDTO(allocation), "Allocation reserved")
}

// MarkSettled handles POST /donations/:id/allocations/:allocationId/settle
func (h *AllocationHandler) MarkSettled(c *gin.Context) {
	donationID, allocationID, ok := allocationPath(c)
	if !ok {
		return
	}

	var req dto.SettleAllocationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	allocation, err := h.markSettledUC.Execute(c.Request.Context(), usecases.MarkAllocationSettledCommand{
		DonationID:   donationID,
		AllocationID: allocationID,
		Reference:    req.SettlementReference,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Allocation settled", dto.ToAllocationDTO(allocation))
}

// Abandon handles POST /donations/:id/allocations/:allocationId/abandon
func (h *AllocationHandler) Abandon(c *gin.Context) {
	donationID, allocationID, ok := allocationPath(c)
	if !ok {
		return
	}

	var req dto.AbandonAllocationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	allocation, err := h.abandonUC.Execute(c.Request.Context(), usecases.AbandonAllocationCommand{
		DonationID:   donationID,
		AllocationID: allocationID,
		Reason:       req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Allocation abandoned", dto.ToAllocationDTO(allocation))
}

func allocationPath(c *gin.Context) (string, string, bool) {
	donationID := c.Param("id")
	allocationID := c.Param("allocationId")
	if err := utils.ValidateID("donation id", donationID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return "", "", false
	}
	if err := utils.ValidateID("allocation id", allocationID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return "", "", false
	}
	return donationID, allocationID, true
}

// bindAndValidate writes the error response itself and reports whether to continue.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return false
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return false
	}
	return true
}

func withDetails(err error, details ...string) error {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		appErr = errors.NewInternalError("allocation outcome unknown")
	}
	parts := details
	if appErr.Details != "" {
		parts = append([]string{appErr.Details}, details...)
	}
	return &errors.AppError{
		Type:    appErr.Type,
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: strings.Join(parts, "; "),
	}
}
