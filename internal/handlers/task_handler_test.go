package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"habitboard/internal/models"
	"habitboard/internal/services"
)

// stubTaskService returns canned results so the tests exercise only the
// HTTP mapping: binding, status codes, response shapes.
type stubTaskService struct {
	task  *models.Task
	tasks []models.Task
	stats *models.TaskStats
	err   error
}

func (s *stubTaskService) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	task.ID = 1
	return task, nil
}

func (s *stubTaskService) GetByID(context.Context, int64, int64) (*models.Task, error) {
	return s.task, s.err
}

func (s *stubTaskService) ListVisible(context.Context, int64) ([]models.Task, error) {
	return s.tasks, s.err
}

func (s *stubTaskService) ListForDate(context.Context, int64, time.Time) ([]models.Task, error) {
	return s.tasks, s.err
}

func (s *stubTaskService) Delete(context.Context, int64, int64) error {
	return s.err
}

func (s *stubTaskService) Stats(context.Context, int64, time.Time) (*models.TaskStats, error) {
	return s.stats, s.err
}

func (s *stubTaskService) Rankings(context.Context, int64, time.Time) ([]models.RankingEntry, error) {
	return nil, s.err
}

func newTaskRouter(svc services.TaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", int64(1)) })
	h := NewTaskHandler(svc, time.UTC)
	r.POST("/tasks", h.Create)
	r.GET("/tasks", h.List)
	r.GET("/tasks/stats", h.Stats)
	r.GET("/tasks/:id", h.GetByID)
	r.DELETE("/tasks/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTaskCreateHandler(t *testing.T) {
	r := newTaskRouter(&stubTaskService{})

	w := doJSON(t, r, http.MethodPost, "/tasks", `{"title":"Morning run","frequency":"daily"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Task models.Task `json:"task"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Task.ID != 1 || resp.Task.Title != "Morning run" {
		t.Errorf("task = %+v", resp.Task)
	}
}

func TestTaskCreateHandlerBadRequests(t *testing.T) {
	r := newTaskRouter(&stubTaskService{})

	cases := []struct {
		name, body string
	}{
		{"missing title", `{"frequency":"daily"}`},
		{"missing frequency", `{"title":"x"}`},
		{"bad due date", `{"title":"x","frequency":"once","dueDate":"03.06.2024"}`},
		{"not json", `title=x`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := doJSON(t, r, http.MethodPost, "/tasks", tc.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestTaskHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad weekly day", services.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: not yours", services.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: task 7", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := newTaskRouter(&stubTaskService{err: tc.err})
		if w := doJSON(t, r, http.MethodGet, "/tasks/7", ""); w.Code != tc.want {
			t.Errorf("err %v: status = %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestTaskHandlerInternalErrorIsOpaque(t *testing.T) {
	r := newTaskRouter(&stubTaskService{err: fmt.Errorf("pq: connection refused at 10.0.0.5")})
	w := doJSON(t, r, http.MethodGet, "/tasks/7", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "10.0.0.5") {
		t.Errorf("internal details leaked: %s", w.Body.String())
	}
}

func TestTaskListHandler(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Title: "Morning run", Frequency: models.FrequencyDaily},
		{ID: 2, Title: "Mondays", Frequency: models.FrequencyWeekly, WeeklyDays: []int{1}},
	}
	r := newTaskRouter(&stubTaskService{tasks: tasks})

	w := doJSON(t, r, http.MethodGet, "/tasks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var all struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all.Tasks) != 2 {
		t.Errorf("tasks = %d, want 2", len(all.Tasks))
	}

	w = doJSON(t, r, http.MethodGet, "/tasks?date=2024-06-03", "")
	if w.Code != http.StatusOK {
		t.Fatalf("dated status = %d, want 200", w.Code)
	}
	var dated struct {
		Date  string        `json:"date"`
		Tasks []models.Task `json:"tasks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &dated); err != nil {
		t.Fatalf("decode dated: %v", err)
	}
	if dated.Date != "2024-06-03" {
		t.Errorf("date = %q, want 2024-06-03", dated.Date)
	}

	if w := doJSON(t, r, http.MethodGet, "/tasks?date=garbage", ""); w.Code != http.StatusBadRequest {
		t.Errorf("garbage date: status = %d, want 400", w.Code)
	}
}

func TestTaskDeleteHandler(t *testing.T) {
	r := newTaskRouter(&stubTaskService{})
	if w := doJSON(t, r, http.MethodDelete, "/tasks/1", ""); w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/tasks/abc", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", w.Code)
	}
}

func TestTaskStatsHandler(t *testing.T) {
	r := newTaskRouter(&stubTaskService{stats: &models.TaskStats{InProgress: 2, Completed: 1}})
	w := doJSON(t, r, http.MethodGet, "/tasks/stats?date=2024-06-03", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var stats models.TaskStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.InProgress != 2 || stats.Completed != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
