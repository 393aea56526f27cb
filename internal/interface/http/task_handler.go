package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/application"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/response"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

// dueDateField distinguishes an absent dueDate from an explicit null.
type dueDateField struct {
	Set   bool
	Value *string
}

func (d *dueDateField) UnmarshalJSON(b []byte) error {
	d.Set = true
	if string(b) == "null" {
		d.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	d.Value = &s
	return nil
}

// parse returns the due date to store. Null and "" both mean none.
func (d dueDateField) parse() (*time.Time, error) {
	if d.Value == nil {
		return nil, nil
	}
	return entity.ParseDueDate(*d.Value)
}

type taskRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	DueDate     dueDateField `json:"dueDate"`
}

func invalidDueDate(c *gin.Context) {
	response.Error(c, http.StatusBadRequest, "Invalid due date", map[string]string{"dueDate": entity.ErrInvalidDueDate.Error()})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.Svc.List(c.Request.Context(), c.GetString(middleware.ContextUserID), entity.TaskFilter{
		Status:   entity.TaskStatus(c.Query("status")),
		Priority: entity.TaskPriority(c.Query("priority")),
		Search:   c.Query("search"),
	})
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.List(c, toTasks(tasks), len(tasks))
}

func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"))
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTask(t), "")
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	due, err := req.DueDate.parse()
	if err != nil {
		invalidDueDate(c)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.ContextUserID), application.CreateTaskInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Status:      entity.TaskStatus(deref(req.Status)),
		Priority:    entity.TaskPriority(deref(req.Priority)),
		DueDate:     due,
	})
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toTask(t), "Task created")
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	patch := entity.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		s := entity.TaskStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := entity.TaskPriority(*req.Priority)
		patch.Priority = &p
	}
	if req.DueDate.Set {
		due, err := req.DueDate.parse()
		if err != nil {
			invalidDueDate(c)
			return
		}
		patch.DueDate = &due
	}

	t, err := h.Svc.Update(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), patch)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTask(t), "Task updated")
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id")); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, nil, "Task deleted")
}
