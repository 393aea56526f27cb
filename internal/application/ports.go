package application

import (
	"context"
	"io"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
)

// The interfaces below are optional collaborators. A nil value disables
// the integration; failures are logged and never fail the request.

// ProfileCache keeps recently read profiles close to the API.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*entity.User, bool)
	Set(ctx context.Context, u *entity.User)
	Delete(ctx context.Context, userID string)
}

// Notifier queues user-facing emails.
type Notifier interface {
	Welcome(ctx context.Context, u *entity.User) error
	ProfileUpdated(ctx context.Context, u *entity.User, changed []string) error
}

// TaskIndexer mirrors tasks into a search index.
type TaskIndexer interface {
	Index(ctx context.Context, t *entity.Task) error
	Remove(ctx context.Context, taskID string) error
}

// AvatarStore uploads avatar images and returns their public URL.
type AvatarStore interface {
	Upload(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error)
}
