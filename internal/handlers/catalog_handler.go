package handlers

import (
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	Service *service.CatalogService
}

func NewCatalogHandler(s *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.Service.ListCourses(c.Request.Context())
	if err != nil {
		utils.FailureResponse(c, "Failed to list courses", err)
		return
	}
	utils.SuccessResponse(c, "Courses retrieved", courses)
}

func (h *CatalogHandler) GetCourse(c *gin.Context) {
	detail, err := h.Service.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.FailureResponse(c, "Failed to get course", err)
		return
	}
	utils.SuccessResponse(c, "Course retrieved", detail)
}

// GetAccessMap returns the per-video lock map for the requesting student.
// Works without enrollment too: everything past the first video comes back
// locked.
func (h *CatalogHandler) GetAccessMap(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	access, err := h.Service.GetAccessMap(c.Request.Context(), studentID, c.Param("id"))
	if err != nil {
		utils.FailureResponse(c, "Failed to compute access map", err)
		return
	}
	utils.SuccessResponse(c, "Access map computed", access)
}

func (h *CatalogHandler) SyncCourse(c *gin.Context) {
	var input service.CourseSyncInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequestResponse(c, "Invalid sync payload", err)
		return
	}
	detail, err := h.Service.SyncCourse(c.Request.Context(), &input)
	if err != nil {
		utils.FailureResponse(c, "Failed to sync course", err)
		return
	}
	utils.CreatedResponse(c, "Course synced", detail)
}
