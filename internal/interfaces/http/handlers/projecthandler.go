package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/fundtrail/internal/interfaces/dto"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
	"github.com/orris-inc/fundtrail/internal/shared/utils"
)

type ProjectHandler struct {
	createProjectUC  createProjectUseCase
	getProjectUC     getProjectUseCase
	projectFundedUC  projectFundedUseCase
	projectSummaryUC projectSummaryUseCase
	logger           logger.Interface
}

func NewProjectHandler(
	createProjectUC createProjectUseCase,
	getProjectUC getProjectUseCase,
	projectFundedUC projectFundedUseCase,
	projectSummaryUC projectSummaryUseCase,
	logger logger.Interface,
) *ProjectHandler {
	return &ProjectHandler{
		createProjectUC:  createProjectUC,
		getProjectUC:     getProjectUC,
		projectFundedUC:  projectFundedUC,
		projectSummaryUC: projectSummaryUC,
		logger:           logger,
	}
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !bindAndValidate(c, &req) {
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	project, err := h.createProjectUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.CreatedResponse(c, dto.ToProjectDTO(project), "Project created")
}

// GetProject handles GET /projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := projectPath(c)
	if !ok {
		return
	}

	project, err := h.getProjectUC.Execute(c.Request.Context(), projectID)
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.ToProjectDTO(project))
}

// GetFunded handles GET /projects/:id/funded
func (h *ProjectHandler) GetFunded(c *gin.Context) {
	projectID, ok := projectPath(c)
	if !ok {
		return
	}

	funded, err := h.projectFundedUC.Execute(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Warnw("failed to read project custody balance", "project_id", projectID, "error", err)
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"project_id": projectID,
		"funded":     dto.NewAmountDTO(funded),
	})
}

// GetSummary handles GET /projects/:id/summary
func (h *ProjectHandler) GetSummary(c *gin.Context) {
	projectID, ok := projectPath(c)
	if !ok {
		return
	}

	summary, err := h.projectSummaryUC.Execute(c.Request.Context(), projectID)
	if err != nil {
		utils.ErrorResponseWithError(c, toAppError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.ToProjectSummaryDTO(summary))
}

func projectPath(c *gin.Context) (string, bool) {
	projectID := c.Param("id")
	if err := utils.ValidateID("project id", projectID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return "", false
	}
	return projectID, true
}
