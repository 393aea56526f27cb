package messaging

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-task-dashboard/pkg/mailer/templates"
)

// JSONPublisher is satisfied by RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier queues templated emails for the email worker.
type EmailNotifier struct {
	pub   JSONPublisher
	brand mailtpl.Brand
	now   func() time.Time
}

func NewEmailNotifier(pub JSONPublisher, brand mailtpl.Brand) *EmailNotifier {
	return &EmailNotifier{pub: pub, brand: brand, now: time.Now}
}

func (n *EmailNotifier) Welcome(ctx context.Context, u *entity.User) error {
	return n.pub.PublishJSON(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.NewWelcomeData(n.brand, u.Name, u.Email),
	})
}

func (n *EmailNotifier) ProfileUpdated(ctx context.Context, u *entity.User, changed []string) error {
	return n.pub.PublishJSON(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailtpl.ProfileUpdated,
		Data:     mailtpl.NewProfileUpdatedData(n.brand, u.Name, u.Email, changed, mailtpl.WithTime(n.now())),
	})
}
