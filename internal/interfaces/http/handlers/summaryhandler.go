package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/fundtrail/internal/interfaces/dto"
	"github.com/orris-inc/fundtrail/internal/shared/utils"
)

type SummaryHandler struct {
	fundingSummaryUC fundingSummaryUseCase
}

func NewSummaryHandler(fundingSummaryUC fundingSummaryUseCase) *SummaryHandler {
	return &SummaryHandler{fundingSummaryUC: fundingSummaryUC}
}

// GetOrganizationSummary handles GET /organizations/:org/summary. A summary whose
// balance lookup failed is still returned with partial set.
func (h *SummaryHandler) GetOrganizationSummary(c *gin.Context) {
	organization := c.Param("org")
	if err := utils.ValidateID("organization", organization); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	summary, err := h.fundingSummaryUC.Execute(c.Request.Context(), organization)
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.ToFundingSummaryDTO(summary))
}
