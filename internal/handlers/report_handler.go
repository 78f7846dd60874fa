package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"habitboard/internal/services"
)

type ReportHandler struct {
	service services.ReportService
}

func NewReportHandler(service services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GET /reports/monthly?month=YYYY-MM — streams a PDF of the caller's month
func (h *ReportHandler) Monthly(c *gin.Context) {
	userID, _ := getUserID(c)

	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = time.Now().Format("2006-01")
	}
	anchor, err := time.Parse("2006-01", monthStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month (YYYY-MM)"})
		return
	}

	filename := fmt.Sprintf("habitboard_%s.pdf", monthStr)
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.service.WriteMonthlyReport(c.Request.Context(), c.Writer, userID, anchor.Year(), anchor.Month()); err != nil {
		// headers may already be out; log and abort the stream
		log.Printf("[report][monthly][err] userID=%d month=%s: %v", userID, monthStr, err)
		c.Abort()
		return
	}
	log.Printf("[report][monthly][ok] userID=%d month=%s", userID, monthStr)
}
