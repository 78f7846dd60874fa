package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"habitboard/internal/models"
	"habitboard/internal/services"
)

type TaskHandler struct {
	service services.TaskService
	loc     *time.Location
}

func NewTaskHandler(service services.TaskService, loc *time.Location) *TaskHandler {
	if loc == nil {
		loc = time.Local
	}
	return &TaskHandler{service: service, loc: loc}
}

// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req struct {
		Title             string           `json:"title" binding:"required"`
		Frequency         models.Frequency `json:"frequency" binding:"required"`
		WeeklyDays        []int            `json:"weeklyDays"`
		MonthlyDay        *int             `json:"monthlyDay"`
		DueDate           string           `json:"dueDate"` // YYYY-MM-DD, frequency=once only
		RequireSubmission bool             `json:"requireSubmission"`
	}

	userID, _ := getUserID(c)
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("[task][create] userID=%d title=%q frequency=%q", userID, req.Title, req.Frequency)

	var due *time.Time
	if req.DueDate != "" {
		t, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			log.Printf("[task][create][err] invalid dueDate=%q: %v", req.DueDate, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dueDate (YYYY-MM-DD)"})
			return
		}
		due = &t
	}

	task := &models.Task{
		OwnerID:           userID,
		Title:             req.Title,
		Frequency:         req.Frequency,
		WeeklyDays:        req.WeeklyDays,
		MonthlyDay:        req.MonthlyDay,
		DueDate:           due,
		RequireSubmission: req.RequireSubmission,
	}

	created, err := h.service.Create(c.Request.Context(), task)
	if err != nil {
		respondError(c, "task.create", err)
		return
	}
	log.Printf("[task][create][ok] id=%d owner=%d", created.ID, created.OwnerID)
	c.JSON(http.StatusCreated, gin.H{"task": created})
}

// GET /tasks?date=YYYY-MM-DD — with date: visible tasks due that day;
// without: every visible task.
func (h *TaskHandler) List(c *gin.Context) {
	userID, _ := getUserID(c)

	if _, hasDate := c.GetQuery("date"); hasDate {
		date, err := parseDateParam(c, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (YYYY-MM-DD)"})
			return
		}
		tasks, err := h.service.ListForDate(c.Request.Context(), userID, date)
		if err != nil {
			respondError(c, "task.listForDate", err)
			return
		}
		log.Printf("[task][list] userID=%d date=%s count=%d", userID, date.Format(dateLayout), len(tasks))
		c.JSON(http.StatusOK, gin.H{"date": date.Format(dateLayout), "tasks": tasks})
		return
	}

	tasks, err := h.service.ListVisible(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "task.list", err)
		return
	}
	log.Printf("[task][list] userID=%d count=%d", userID, len(tasks))
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, _ := getUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, "task.getByID", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, _ := getUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, "task.delete", err)
		return
	}
	log.Printf("[task][delete][ok] id=%d by userID=%d", id, userID)
	c.Status(http.StatusNoContent)
}

// GET /tasks/stats — today's progress for the caller
func (h *TaskHandler) Stats(c *gin.Context) {
	userID, _ := getUserID(c)
	date, err := parseDateParam(c, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (YYYY-MM-DD)"})
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, "task.stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /tasks/rankings — submission leaderboard over the visible circle,
// last 30 days
func (h *TaskHandler) Rankings(c *gin.Context) {
	userID, _ := getUserID(c)
	since := time.Now().AddDate(0, 0, -30)

	rankings, err := h.service.Rankings(c.Request.Context(), userID, since)
	if err != nil {
		respondError(c, "task.rankings", err)
		return
	}
	c.JSON(http.StatusOK, rankings)
}
