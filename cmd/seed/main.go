package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/oksasatya/go-ddd-task-dashboard/config"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/application"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/container"
	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-dashboard/pkg/helpers"
)

var demoTasks = []application.CreateTaskInput{
	{Title: "Buy milk", Priority: entity.TaskPriorityLow},
	{Title: "Write weekly report", Description: "Summarize progress for the team", Priority: entity.TaskPriorityHigh},
	{Title: "Book dentist appointment", Status: entity.TaskStatusInProgress},
	{Title: "Renew passport", Description: "Photos are in the drawer", Priority: entity.TaskPriorityHigh},
	{Title: "Water the plants", Status: entity.TaskStatusCompleted, Priority: entity.TaskPriorityLow},
}

func main() {
	var (
		email    = flag.String("email", "demo@example.com", "email of the demo user")
		password = flag.String("password", "password123", "password of the demo user")
		name     = flag.String("name", "Demo User", "display name of the demo user")
		count    = flag.Int("tasks", len(demoTasks), "number of demo tasks to create")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()
	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("startup failed: %v", err)
	}
	defer c.Close()

	if err := seed(ctx, c, *email, *password, *name, *count); err != nil {
		logger.WithError(err).Error("seed failed")
		c.Close()
		os.Exit(1)
	}
}

// seed creates the demo user, or logs in as it when it already exists, and
// adds count tasks cycling through demoTasks.
func seed(ctx context.Context, c *container.Container, email, password, name string, count int) error {
	res, err := c.Users.Signup(ctx, application.SignupInput{Name: name, Email: email, Password: password})
	if errors.Is(err, application.ErrEmailExists) {
		res, err = c.Users.Login(ctx, email, password)
	}
	if err != nil {
		return fmt.Errorf("demo user: %w", err)
	}
	fmt.Printf("user: id=%s email=%s password=%s\n", res.User.ID, res.User.Email, password)

	for i := 0; i < count; i++ {
		in := demoTasks[i%len(demoTasks)]
		t, err := c.Tasks.Create(ctx, res.User.ID, in)
		if err != nil {
			return fmt.Errorf("task %q: %w", in.Title, err)
		}
		fmt.Printf("task: id=%s status=%s priority=%s title=%q\n", t.ID, t.Status, t.Priority, t.Title)
	}
	fmt.Printf("token: %s\n", res.Token)
	return nil
}
