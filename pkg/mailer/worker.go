package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	mailtpl "github.com/oksasatya/go-ddd-task-dashboard/pkg/mailer/templates"
)

// Worker turns queued EmailJobs into sent mail.
type Worker struct {
	Sender      Sender
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

// Handle processes one queue message. A non-nil error with requeue=false
// means the message can never succeed and should be dropped.
func (w *Worker) Handle(ctx context.Context, body []byte) (requeue bool, err error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return false, fmt.Errorf("decode job: %w", err)
	}
	if err := job.Normalize(); err != nil {
		return false, err
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		subject, text, html, err = mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return false, fmt.Errorf("render %s: %w", job.Template, err)
		}
	}
	if subject == "" || (text == "" && html == "") {
		return false, fmt.Errorf("job for %s has no content", job.To)
	}

	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		return true, fmt.Errorf("send to %s: %w", job.To, err)
	}
	if w.Logger != nil {
		w.Logger.WithFields(logrus.Fields{"template": job.Template, "to": job.To}).Info("email sent")
	}
	return false, nil
}
