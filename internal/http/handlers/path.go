package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pathwise/pathwise-backend/internal/http/response"
	"github.com/pathwise/pathwise-backend/internal/pkg/dbctx"
	"github.com/pathwise/pathwise-backend/internal/platform/ctxutil"
	"github.com/pathwise/pathwise-backend/internal/platform/logger"
	"github.com/pathwise/pathwise-backend/internal/services"
)

type PathHandler struct {
	log   *logger.Logger
	paths services.PathService
}

func NewPathHandler(log *logger.Logger, paths services.PathService) *PathHandler {
	return &PathHandler{
		log:   log.With("handler", "PathHandler"),
		paths: paths,
	}
}

type generatePathRequest struct {
	RoleID uuid.UUID `json:"role_id" binding:"required"`
}

type submitAssessmentRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func (h *PathHandler) GeneratePath(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}

	var req generatePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	view, err := h.paths.GenerateLearningPath(dbctx.New(c.Request.Context()), userID, req.RoleID)
	if err != nil {
		response.RespondMapped(c, err, "path_generation_failed")
		return
	}
	response.RespondOK(c, view)
}

func (h *PathHandler) ListPaths(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}

	views, err := h.paths.ListPaths(dbctx.New(c.Request.Context()), userID)
	if err != nil {
		response.RespondMapped(c, err, "path_list_failed")
		return
	}
	response.RespondOK(c, gin.H{"paths": views})
}

func (h *PathHandler) GetPath(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}
	pathID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid path id"))
		return
	}

	view, err := h.paths.GetPath(dbctx.New(c.Request.Context()), userID, pathID)
	if err != nil {
		response.RespondMapped(c, err, "path_read_failed")
		return
	}
	response.RespondOK(c, view)
}

func (h *PathHandler) CompleteStep(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}
	stepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid step id"))
		return
	}

	view, err := h.paths.MarkStepComplete(dbctx.New(c.Request.Context()), userID, stepID)
	if err != nil {
		response.RespondMapped(c, err, "step_complete_failed")
		return
	}
	response.RespondOK(c, view)
}

func (h *PathHandler) SubmitAssessment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}
	stepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid step id"))
		return
	}

	var req submitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.paths.SubmitStepAssessment(dbctx.New(c.Request.Context()), userID, stepID, req.Answers)
	if err != nil {
		response.RespondMapped(c, err, "assessment_failed")
		return
	}
	response.RespondOK(c, result)
}

func (h *PathHandler) StepReadiness(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing caller identity"))
		return
	}
	stepID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("invalid step id"))
		return
	}

	readiness, err := h.paths.EvaluateStepReadiness(dbctx.New(c.Request.Context()), userID, stepID)
	if err != nil {
		response.RespondMapped(c, err, "readiness_failed")
		return
	}
	response.RespondOK(c, readiness)
}
