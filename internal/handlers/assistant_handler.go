package handlers

import (
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	Service *service.AssistantService
}

func NewAssistantHandler(s *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{Service: s}
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

func (h *AssistantHandler) Ask(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid question payload", err)
		return
	}
	answer, err := h.Service.Ask(c.Request.Context(), studentID, c.Param("id"), req.Question)
	if err != nil {
		utils.FailureResponse(c, "Failed to answer question", err)
		return
	}
	utils.SuccessResponse(c, "Question answered", answer)
}

// IndexTranscript re-embeds a video's transcript, admin path.
func (h *AssistantHandler) IndexTranscript(c *gin.Context) {
	count, err := h.Service.IndexTranscript(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.FailureResponse(c, "Failed to index transcript", err)
		return
	}
	utils.SuccessResponse(c, "Transcript indexed", gin.H{"chunks": count})
}
