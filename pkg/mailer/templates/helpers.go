package templates

import (
	"time"
)

// Brand carries the product details every email shows.
type Brand struct {
	AppName    string
	SupportURL string
}

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04 MST") }
}

func WithChanges(fields []string) Option {
	return func(d *EmailData) { d.Changes = fields }
}

func newData(b Brand, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:       name,
		Email:      email,
		AppName:    b.AppName,
		SupportURL: b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(b Brand, name, email string, opts ...Option) map[string]any {
	return ToMap(newData(b, name, email, opts...))
}

func NewProfileUpdatedData(b Brand, name, email string, changes []string, opts ...Option) map[string]any {
	opts = append([]Option{WithChanges(changes)}, opts...)
	return ToMap(newData(b, name, email, opts...))
}
