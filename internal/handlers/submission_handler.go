package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"habitboard/internal/models"
	"habitboard/internal/services"
)

type SubmissionHandler struct {
	service services.SubmissionService
	loc     *time.Location
}

func NewSubmissionHandler(service services.SubmissionService, loc *time.Location) *SubmissionHandler {
	if loc == nil {
		loc = time.Local
	}
	return &SubmissionHandler{service: service, loc: loc}
}

// @Summary      Submit proof of completion
// @Description  JSON body with text/url, or multipart form with a file part
// @Tags         Submissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		h.createFromFile(c)
		return
	}

	var req struct {
		TaskID int64  `json:"taskId" binding:"required"`
		Date   string `json:"date"` // YYYY-MM-DD, defaults to today
		Text   string `json:"text"`
		URL    string `json:"url"`
	}
	userID, _ := getUserID(c)
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[submission][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, ok := h.parseDate(c, req.Date)
	if !ok {
		return
	}

	sub := &models.Submission{
		TaskID:      req.TaskID,
		UserID:      userID,
		Date:        date,
		ContentText: strings.TrimSpace(req.Text),
		LinkURL:     strings.TrimSpace(req.URL),
	}
	created, err := h.service.Submit(c.Request.Context(), sub)
	if err != nil {
		respondError(c, "submission.create", err)
		return
	}
	log.Printf("[submission][create][ok] id=%d task=%d user=%d kind=%s",
		created.ID, created.TaskID, created.UserID, created.Kind)
	c.JSON(http.StatusOK, gin.H{"submissionId": created.ID})
}

func (h *SubmissionHandler) createFromFile(c *gin.Context) {
	userID, _ := getUserID(c)

	taskID, err := strconv.ParseInt(c.PostForm("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid taskId"})
		return
	}
	date, ok := h.parseDate(c, c.PostForm("date"))
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file part is required"})
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		log.Printf("[submission][file][err] open upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer src.Close()

	// the file hits durable storage before the row referencing it
	relPath, err := h.service.StoreUpload(src, fileHeader.Filename)
	if err != nil {
		log.Printf("[submission][file][err] store upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	sub := &models.Submission{
		TaskID:   taskID,
		UserID:   userID,
		Date:     date,
		FilePath: relPath,
	}
	created, err := h.service.Submit(c.Request.Context(), sub)
	if err != nil {
		respondError(c, "submission.file", err)
		return
	}
	log.Printf("[submission][file][ok] id=%d task=%d file=%q", created.ID, created.TaskID, relPath)
	c.JSON(http.StatusOK, gin.H{"submissionId": created.ID, "file": "/uploads/" + relPath})
}

// GET /submissions?date=YYYY-MM-DD
func (h *SubmissionHandler) ListForDate(c *gin.Context) {
	userID, _ := getUserID(c)
	date, err := parseDateParam(c, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (YYYY-MM-DD)"})
		return
	}

	subs, err := h.service.ListForDate(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, "submission.listForDate", err)
		return
	}
	log.Printf("[submission][list] userID=%d date=%s count=%d", userID, date.Format(dateLayout), len(subs))
	c.JSON(http.StatusOK, gin.H{"date": date.Format(dateLayout), "submissions": subs})
}

// GET /submissions/for-task/:taskId
func (h *SubmissionHandler) ListForTask(c *gin.Context) {
	userID, _ := getUserID(c)
	taskID, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid taskId"})
		return
	}

	subs, err := h.service.ListForTask(c.Request.Context(), userID, taskID)
	if err != nil {
		respondError(c, "submission.listForTask", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

// parseDate parses an optional YYYY-MM-DD; empty means "today" is decided
// later by the service in its configured timezone.
func (h *SubmissionHandler) parseDate(c *gin.Context, v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, true
	}
	d, err := time.Parse(dateLayout, v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (YYYY-MM-DD)"})
		return time.Time{}, false
	}
	return d, true
}
