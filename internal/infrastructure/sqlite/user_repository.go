package sqlite

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/repository"
)

const userColumns = `id, email, password_hash, name, bio, avatar_url, created_at, updated_at`

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return r.store.with(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `
			INSERT INTO users (`+userColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{
				u.ID, u.Email, u.Password, u.Name, u.Bio, u.AvatarURL,
				toNanos(u.CreatedAt), toNanos(u.UpdatedAt),
			}})
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrEmailTaken
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*entity.User, error) {
	var u *entity.User
	err := r.store.with(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT `+userColumns+` FROM users WHERE `+column+` = ?`,
			&sqlitex.ExecOptions{
				Args: []any{value},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					u = &entity.User{
						ID:        stmt.ColumnText(0),
						Email:     stmt.ColumnText(1),
						Password:  stmt.ColumnText(2),
						Name:      stmt.ColumnText(3),
						Bio:       stmt.ColumnText(4),
						AvatarURL: stmt.ColumnText(5),
						CreatedAt: fromNanos(stmt.ColumnInt64(6)),
						UpdatedAt: fromNanos(stmt.ColumnInt64(7)),
					}
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	if u == nil {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	return r.store.with(ctx, func(conn *sqlite.Conn) error {
		err := sqlitex.Execute(conn, `
			UPDATE users SET name = ?, bio = ?, avatar_url = ?, updated_at = ?
			WHERE id = ?`,
			&sqlitex.ExecOptions{Args: []any{u.Name, u.Bio, u.AvatarURL, toNanos(u.UpdatedAt), u.ID}})
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if conn.Changes() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

var _ repository.UserRepository = (*UserRepository)(nil)
