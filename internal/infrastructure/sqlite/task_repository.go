package sqlite

import (
	"context"
	"fmt"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/repository"
)

const taskColumns = `id, user_id, title, description, status, priority, due_date, created_at, updated_at`

type TaskRepository struct {
	store *Store
}

func NewTaskRepository(store *Store) *TaskRepository {
	return &TaskRepository{store: store}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	return r.store.with(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `
			INSERT INTO tasks (`+taskColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{
				t.ID, t.UserID, t.Title, t.Description, string(t.Status), string(t.Priority),
				nullableNanos(t.DueDate), toNanos(t.CreatedAt), toNanos(t.UpdatedAt),
			}})
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		return nil
	})
}

// listQuery mirrors the postgres listing. instr is used instead of LIKE
// so that % and _ in the search text match literally.
func listQuery(userID string, f entity.TaskFilter) (string, []any) {
	var sb strings.Builder
	args := []any{userID}
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`)
	if f.Status != "" {
		sb.WriteString(` AND status = ?`)
		args = append(args, string(f.Status))
	}
	if f.Priority != "" {
		sb.WriteString(` AND priority = ?`)
		args = append(args, string(f.Priority))
	}
	if f.Search != "" {
		sb.WriteString(` AND (instr(lower(title), lower(?)) > 0 OR instr(lower(description), lower(?)) > 0)`)
		args = append(args, f.Search, f.Search)
	}
	sb.WriteString(` ORDER BY created_at DESC, id DESC`)
	return sb.String(), args
}

func (r *TaskRepository) List(ctx context.Context, userID string, f entity.TaskFilter) ([]entity.Task, error) {
	q, args := listQuery(userID, f)
	tasks := []entity.Task{}
	err := r.store.with(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, q, &sqlitex.ExecOptions{
			Args: args,
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tasks = append(tasks, scanTask(stmt))
				return nil
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, userID, id string) (*entity.Task, error) {
	var t *entity.Task
	err := r.store.with(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`,
			&sqlitex.ExecOptions{
				Args: []any{id, userID},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					row := scanTask(stmt)
					t = &row
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("select task: %w", err)
	}
	if t == nil {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	return r.store.with(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `
			UPDATE tasks
			SET title = ?, description = ?, status = ?, priority = ?, due_date = ?, updated_at = ?
			WHERE id = ? AND user_id = ?`,
			&sqlitex.ExecOptions{Args: []any{
				t.Title, t.Description, string(t.Status), string(t.Priority),
				nullableNanos(t.DueDate), toNanos(t.UpdatedAt), t.ID, t.UserID,
			}})
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if conn.Changes() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) error {
	return r.store.with(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `DELETE FROM tasks WHERE id = ? AND user_id = ?`,
			&sqlitex.ExecOptions{Args: []any{id, userID}})
		if err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		if conn.Changes() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func scanTask(stmt *sqlite.Stmt) entity.Task {
	t := entity.Task{
		ID:          stmt.ColumnText(0),
		UserID:      stmt.ColumnText(1),
		Title:       stmt.ColumnText(2),
		Description: stmt.ColumnText(3),
		Status:      entity.TaskStatus(stmt.ColumnText(4)),
		Priority:    entity.TaskPriority(stmt.ColumnText(5)),
		CreatedAt:   fromNanos(stmt.ColumnInt64(7)),
		UpdatedAt:   fromNanos(stmt.ColumnInt64(8)),
	}
	if !stmt.ColumnIsNull(6) {
		due := fromNanos(stmt.ColumnInt64(6))
		t.DueDate = &due
	}
	return t
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
