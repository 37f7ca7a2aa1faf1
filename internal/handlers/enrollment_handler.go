package handlers

import (
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type EnrollmentHandler struct {
	Service *service.EnrollmentService
}

func NewEnrollmentHandler(s *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{Service: s}
}

func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	enrollment, err := h.Service.Enroll(c.Request.Context(), studentID, c.Param("id"))
	if err != nil {
		utils.FailureResponse(c, "Failed to enroll", err)
		return
	}
	utils.CreatedResponse(c, "Enrolled", enrollment)
}

func (h *EnrollmentHandler) Deactivate(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	if err := h.Service.Deactivate(c.Request.Context(), studentID, c.Param("id")); err != nil {
		utils.FailureResponse(c, "Failed to unenroll", err)
		return
	}
	utils.SuccessResponse(c, "Enrollment deactivated", nil)
}

func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	enrollments, err := h.Service.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		utils.FailureResponse(c, "Failed to list enrollments", err)
		return
	}
	utils.SuccessResponse(c, "Enrollments retrieved", enrollments)
}
