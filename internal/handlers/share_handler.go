package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"habitboard/internal/services"
)

type ShareHandler struct {
	service services.ShareService
}

func NewShareHandler(service services.ShareService) *ShareHandler {
	return &ShareHandler{service: service}
}

type shareRequest struct {
	// accepts either an email address or a username
	Partner string `json:"partner" binding:"required"`
}

// @Summary      Share your task list with another account
// @Tags         Share
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Router       /share [post]
func (h *ShareHandler) Add(c *gin.Context) {
	userID, _ := getUserID(c)
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[share][add] owner=%d partner=%q", userID, req.Partner)

	if err := h.service.Share(c.Request.Context(), userID, req.Partner); err != nil {
		respondError(c, "share.add", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /tasks/:id/share — same grant, gated on owning the named task
func (h *ShareHandler) AddForTask(c *gin.Context) {
	userID, _ := getUserID(c)
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[share][addForTask] owner=%d task=%d partner=%q", userID, taskID, req.Partner)

	if err := h.service.ShareOwnedTask(c.Request.Context(), userID, taskID, req.Partner); err != nil {
		respondError(c, "share.addForTask", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /share/list — who can view your tasks, and whose tasks you can view
func (h *ShareHandler) List(c *gin.Context) {
	userID, _ := getUserID(c)

	viewers, owners, err := h.service.ListContacts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "share.list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"viewers": viewers, "owners": owners})
}
