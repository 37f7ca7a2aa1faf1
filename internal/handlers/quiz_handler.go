package handlers

import (
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	Service *service.QuizService
}

func NewQuizHandler(s *service.QuizService) *QuizHandler {
	return &QuizHandler{Service: s}
}

type playbackRequest struct {
	PositionSeconds float64 `json:"position_seconds" binding:"min=0"`
}

// ReportPlayback receives periodic playback positions. Crossing the video's
// checkpoint opens the quiz gate; everything else is a cheap status read.
func (h *QuizHandler) ReportPlayback(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	var req playbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid playback report", err)
		return
	}
	status, err := h.Service.ReportPlayback(c.Request.Context(), studentID, c.Param("id"), req.PositionSeconds)
	if err != nil {
		utils.FailureResponse(c, "Failed to report playback", err)
		return
	}
	utils.SuccessResponse(c, "Playback recorded", status)
}

type submitAnswerRequest struct {
	SelectedOption *int `json:"selected_option" binding:"required"`
}

func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid answer submission", err)
		return
	}
	result, status, err := h.Service.SubmitAnswer(c.Request.Context(), studentID, c.Param("id"), *req.SelectedOption)
	if err != nil {
		utils.FailureResponse(c, "Failed to submit answer", err)
		return
	}
	utils.SuccessResponse(c, "Answer evaluated", gin.H{
		"result": result,
		"status": status,
	})
}

func (h *QuizHandler) GateStatus(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	status, err := h.Service.GateStatus(c.Request.Context(), studentID, c.Param("id"))
	if err != nil {
		utils.FailureResponse(c, "Failed to get quiz status", err)
		return
	}
	utils.SuccessResponse(c, "Quiz status retrieved", status)
}
