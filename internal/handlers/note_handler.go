package handlers

import (
	"learning-service/internal/service"
	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	Service *service.NoteService
}

func NewNoteHandler(s *service.NoteService) *NoteHandler {
	return &NoteHandler{Service: s}
}

type saveNoteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

func (h *NoteHandler) SaveNote(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	var req saveNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid note payload", err)
		return
	}
	note, err := h.Service.SaveNote(c.Request.Context(), studentID, c.Param("id"), req.Title, req.Content, req.Tags)
	if err != nil {
		utils.FailureResponse(c, "Failed to save note", err)
		return
	}
	utils.SuccessResponse(c, "Note saved", note)
}

func (h *NoteHandler) GetNote(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	note, err := h.Service.GetNote(c.Request.Context(), studentID, c.Param("id"))
	if err != nil {
		utils.FailureResponse(c, "Failed to get note", err)
		return
	}
	utils.SuccessResponse(c, "Note retrieved", note)
}

func (h *NoteHandler) ListNotes(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	notes, err := h.Service.ListNotes(c.Request.Context(), studentID)
	if err != nil {
		utils.FailureResponse(c, "Failed to list notes", err)
		return
	}
	utils.SuccessResponse(c, "Notes retrieved", notes)
}

func (h *NoteHandler) DeleteNote(c *gin.Context) {
	studentID := c.GetHeader("X-User-ID")
	if err := h.Service.DeleteNote(c.Request.Context(), studentID, c.Param("id")); err != nil {
		utils.FailureResponse(c, "Failed to delete note", err)
		return
	}
	utils.SuccessResponse(c, "Note deleted", nil)
}
