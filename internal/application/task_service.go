package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-task-dashboard/internal/domain/repository"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/apperror"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/helpers"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/validation"
)

var ErrTaskNotFound = apperror.NotFound("Task not found")

type TaskService struct {
	Repo   repo.TaskRepository
	Logger *logrus.Logger
	Index  TaskIndexer

	now   func() time.Time
	newID func() string
}

func NewTaskService(repo repo.TaskRepository, logger *logrus.Logger) *TaskService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &TaskService{
		Repo:   repo,
		Logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(entity.TimePrecision) },
		newID:  uuid.NewString,
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      entity.TaskStatus
	Priority    entity.TaskPriority
	DueDate     *time.Time
}

// taskRules holds the constraints every stored task satisfies, checked on
// create and again after a patch is applied.
type taskRules struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Status      string `json:"status" validate:"taskstatus"`
	Priority    string `json:"priority" validate:"taskpriority"`
}

func validateTask(t *entity.Task) error {
	err := validation.Struct(taskRules{
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
	})
	if err == nil {
		return nil
	}
	details := validation.ToDetails(err)
	if validation.HasTag(err, "title", "required") {
		return apperror.Validation("Title is required", details)
	}
	return apperror.Validation("Invalid task", details)
}

// taskID returns the canonical form of a task id. Anything that is not a
// UUID cannot name a task and is reported as not found.
func taskID(id string) (string, bool) {
	u, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// List returns userID's tasks matching f, newest first.
func (s *TaskService) List(ctx context.Context, userID string, f entity.TaskFilter) ([]entity.Task, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperror.Validation("Invalid status filter", map[string]string{"status": "must be one of: pending, in-progress, completed"})
	}
	if f.Priority != "" && !f.Priority.Valid() {
		return nil, apperror.Validation("Invalid priority filter", map[string]string{"priority": "must be one of: low, medium, high"})
	}
	f.Search = strings.TrimSpace(f.Search)

	tasks, err := s.Repo.List(ctx, userID, f)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID, id string) (*entity.Task, error) {
	id, ok := taskID(id)
	if !ok {
		return nil, ErrTaskNotFound
	}
	t, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, storeError(err)
	}
	return t, nil
}

// Create stores a new task owned by userID. Status defaults to pending and
// priority to medium.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTaskInput) (*entity.Task, error) {
	now := s.now()
	t := &entity.Task{
		ID:          s.newID(),
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     storedDueDate(in.DueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Status == "" {
		t.Status = entity.TaskStatusPending
	}
	if t.Priority == "" {
		t.Priority = entity.TaskPriorityMedium
	}
	if err := validateTask(t); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, apperror.Unexpected(err)
	}
	metricTasksCreated.Add(1)
	s.index(ctx, t)
	return t, nil
}

// Update applies patch to one of userID's tasks and re-validates the result.
func (s *TaskService) Update(ctx context.Context, userID, id string, patch entity.TaskPatch) (*entity.Task, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(t)
	t.DueDate = storedDueDate(t.DueDate)
	if err := validateTask(t); err != nil {
		return nil, err
	}
	t.UpdatedAt = s.now()

	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, storeError(err)
	}
	metricTasksUpdated.Add(1)
	s.index(ctx, t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	id, ok := taskID(id)
	if !ok {
		return ErrTaskNotFound
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return storeError(err)
	}
	metricTasksDeleted.Add(1)

	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("task_id", id).Warn("remove task from index failed")
		}
	}
	return nil
}

func (s *TaskService) index(ctx context.Context, t *entity.Task) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, t); err != nil {
		s.Logger.WithError(err).WithField("task_id", t.ID).Warn("index task failed")
	}
}

// storedDueDate returns d at the precision the store keeps, so the
// returned task matches what a later read yields.
func storedDueDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	v := d.UTC().Truncate(entity.TimePrecision)
	return &v
}

func storeError(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrTaskNotFound
	}
	return apperror.Unexpected(err)
}
