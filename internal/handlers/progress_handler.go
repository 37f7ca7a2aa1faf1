package handlers

import (
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	Service *service.ProgressService
}

func NewProgressHandler(s *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{Service: s}
}

type reportProgressRequest struct {
	WatchedPercent float64 `json:"watched_percent" binding:"min=0"`
}

func (h *ProgressHandler) ReportProgress(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	var req reportProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid progress report", err)
		return
	}
	progress, err := h.Service.ReportProgress(c.Request.Context(), studentID, c.Param("id"), req.WatchedPercent)
	if err != nil {
		utils.FailureResponse(c, "Failed to report progress", err)
		return
	}
	utils.SuccessResponse(c, "Progress recorded", progress)
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	progress, err := h.Service.GetProgress(c.Request.Context(), studentID, c.Param("id"))
	if err != nil {
		utils.FailureResponse(c, "Failed to get progress", err)
		return
	}
	utils.SuccessResponse(c, "Progress retrieved", progress)
}

func (h *ProgressHandler) GetCourseProgress(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	view, err := h.Service.GetCourseProgress(c.Request.Context(), studentID, c.Param("id"))
	if err != nil {
		utils.FailureResponse(c, "Failed to get course progress", err)
		return
	}
	utils.SuccessResponse(c, "Course progress retrieved", view)
}
