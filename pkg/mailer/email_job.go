package mailer

import (
	"errors"
	"strings"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or Subject plus Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome" or "profile_updated"
	Data     map[string]any `json:"data,omitempty"`
}

var ErrNoRecipient = errors.New("email job has no recipient")

// Normalize fills template data from the envelope and checks the job can
// be delivered.
func (j *EmailJob) Normalize() error {
	j.To = strings.TrimSpace(j.To)
	if j.To == "" {
		return ErrNoRecipient
	}
	if j.Template != "" {
		if j.Data == nil {
			j.Data = map[string]any{}
		}
		if v, ok := j.Data["Email"].(string); !ok || v == "" {
			j.Data["Email"] = j.To
		}
	}
	return nil
}
