package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-task-dashboard/pkg/mailer/templates"
)

type capturePublisher struct{ jobs []mailer.EmailJob }

func (c *capturePublisher) PublishJSON(_ context.Context, body any) error {
	c.jobs = append(c.jobs, body.(mailer.EmailJob))
	return nil
}

func TestEmailNotifierJobs(t *testing.T) {
	pub := &capturePublisher{}
	n := NewEmailNotifier(pub, mailtpl.Brand{AppName: "Tasks"})
	n.now = func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) }
	u := &entity.User{ID: "u1", Name: "Ana", Email: "ana@example.com"}
	ctx := context.Background()

	if err := n.Welcome(ctx, u); err != nil {
		t.Fatalf("Welcome: %v", err)
	}
	if err := n.ProfileUpdated(ctx, u, []string{"bio"}); err != nil {
		t.Fatalf("ProfileUpdated: %v", err)
	}
	if len(pub.jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(pub.jobs))
	}

	welcome := pub.jobs[0]
	if welcome.To != "ana@example.com" || welcome.Template != mailtpl.Welcome || welcome.Data["AppName"] != "Tasks" {
		t.Errorf("welcome job = %+v", welcome)
	}

	updated := pub.jobs[1]
	if updated.Template != mailtpl.ProfileUpdated || updated.Data["Time"] != "01 June 2026, 09:00 UTC" {
		t.Errorf("profile job = %+v", updated)
	}
	changes, _ := updated.Data["Changes"].([]any)
	if len(changes) != 1 || changes[0] != "bio" {
		t.Errorf("changes = %#v", updated.Data["Changes"])
	}

	// Every queued job must render in the worker.
	for _, job := range pub.jobs {
		if _, _, _, err := mailtpl.Render(job.Template, job.Data); err != nil {
			t.Errorf("render %s: %v", job.Template, err)
		}
	}
}
