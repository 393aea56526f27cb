package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/repository"
)

const taskColumns = `id, user_id, title, description, status, priority, due_date, created_at, updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, user_id, title, description, status, priority, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.UserID, t.Title, t.Description, string(t.Status), string(t.Priority), t.DueDate, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// listQuery builds the owner-scoped listing. Values are always bound as
// parameters; search uses strpos so LIKE wildcards in the input match
// literally.
func listQuery(userID string, f entity.TaskFilter) (string, []any) {
	var sb strings.Builder
	args := []any{userID}
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		sb.WriteString(" AND status = " + arg(string(f.Status)))
	}
	if f.Priority != "" {
		sb.WriteString(" AND priority = " + arg(string(f.Priority)))
	}
	if f.Search != "" {
		p := arg(f.Search)
		sb.WriteString(" AND (strpos(lower(title), lower(" + p + ")) > 0 OR strpos(lower(description), lower(" + p + ")) > 0)")
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")
	return sb.String(), args
}

func (r *TaskRepository) List(ctx context.Context, userID string, f entity.TaskFilter) ([]entity.Task, error) {
	q, args := listQuery(userID, f)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []entity.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, userID, id string) (*entity.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	return scanTask(row)
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
	`, t.Title, t.Description, string(t.Status), string(t.Priority), t.DueDate, t.UpdatedAt, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var (
		t                entity.Task
		status, priority string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &status, &priority,
		&t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	t.Status = entity.TaskStatus(status)
	t.Priority = entity.TaskPriority(priority)
	return &t, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
