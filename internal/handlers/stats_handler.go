package handlers

import (
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	Service *service.StatsService
}

func NewStatsHandler(s *service.StatsService) *StatsHandler {
	return &StatsHandler{Service: s}
}

func (h *StatsHandler) Overview(c *gin.Context) {
	stats, err := h.Service.Overview(c.Request.Context())
	if err != nil {
		utils.FailureResponse(c, "Failed to compute stats", err)
		return
	}
	utils.SuccessResponse(c, "Stats retrieved", stats)
}
