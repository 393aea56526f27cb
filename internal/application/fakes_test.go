package application

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-task-dashboard/internal/domain/repository"
)

type memUsers struct {
	mu        sync.Mutex
	byID      map[string]entity.User
	err       error
	updateErr error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, x := range m.byID {
		if x.Email == u.Email {
			return repo.ErrEmailTaken
		}
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUsers) UpdateProfile(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	cur, ok := m.byID[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Name, cur.Bio, cur.AvatarURL, cur.UpdatedAt = u.Name, u.Bio, u.AvatarURL, u.UpdatedAt
	m.byID[u.ID] = cur
	return nil
}

type memTasks struct {
	mu   sync.Mutex
	rows map[string]entity.Task
}

func newMemTasks() *memTasks { return &memTasks{rows: map[string]entity.Task{}} }

func (m *memTasks) Create(_ context.Context, t *entity.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[t.ID] = *t
	return nil
}

func (m *memTasks) List(_ context.Context, userID string, f entity.TaskFilter) ([]entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Task
	needle := strings.ToLower(f.Search)
	for _, t := range m.rows {
		if t.UserID != userID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memTasks) Get(_ context.Context, userID, id string) (*entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.UserID != userID {
		return nil, repo.ErrNotFound
	}
	return &t, nil
}

func (m *memTasks) Update(_ context.Context, t *entity.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[t.ID]
	if !ok || cur.UserID != t.UserID {
		return repo.ErrNotFound
	}
	m.rows[t.ID] = *t
	return nil
}

func (m *memTasks) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[id]
	if !ok || cur.UserID != userID {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memCache struct {
	mu    sync.Mutex
	users map[string]entity.User
	hits  int
}

func newMemCache() *memCache { return &memCache{users: map[string]entity.User{}} }

func (c *memCache) Get(_ context.Context, id string) (*entity.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[id]
	if ok {
		c.hits++
	}
	return &u, ok
}

func (c *memCache) Set(_ context.Context, u *entity.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[u.ID] = *u
}

func (c *memCache) Delete(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, id)
}

type recordingNotifier struct {
	welcomed []string
	updated  map[string][]string
	err      error
}

func (n *recordingNotifier) Welcome(_ context.Context, u *entity.User) error {
	n.welcomed = append(n.welcomed, u.Email)
	return n.err
}

func (n *recordingNotifier) ProfileUpdated(_ context.Context, u *entity.User, changed []string) error {
	if n.updated == nil {
		n.updated = map[string][]string{}
	}
	n.updated[u.ID] = changed
	return n.err
}

type recordingIndexer struct {
	indexed []string
	removed []string
}

func (r *recordingIndexer) Index(_ context.Context, t *entity.Task) error {
	r.indexed = append(r.indexed, t.ID)
	return errors.New("index unavailable")
}

func (r *recordingIndexer) Remove(_ context.Context, id string) error {
	r.removed = append(r.removed, id)
	return nil
}

type memAvatars struct{ got []byte }

func (a *memAvatars) Upload(_ context.Context, userID string, r io.Reader, filename, _ string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	a.got = b
	return "https://storage.example/avatars/" + userID + "/" + filename, nil
}

// tickingClock returns a clock that advances one second per call.
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}
