package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hugh/go-tracker/internal/auth"
	"github.com/hugh/go-tracker/internal/database/models"
	"github.com/hugh/go-tracker/internal/tracker"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type SeedOptions struct {
	Name     string
	Email    string
	Password string
	Project  string
}

type SeedResult struct {
	User           *models.User
	UserCreated    bool
	Project        *models.Project
	ProjectCreated bool
}

// Seed makes sure an admin user exists and owns a demo project whose board has
// three stages and one task. Running it twice changes nothing.
func Seed(ctx context.Context, db *gorm.DB, logger *slog.Logger, opts SeedOptions) (*SeedResult, error) {
	result := &SeedResult{}

	// Register never issues tokens, so the JWT services are not needed here.
	users := auth.NewService(db, nil, nil, auth.NewDBTokenStore(db))
	user, err := users.Register(ctx, auth.RegisterInput{
		Name:     opts.Name,
		Email:    opts.Email,
		Password: opts.Password,
	})
	switch {
	case err == nil:
		result.UserCreated = true
	case errors.Is(err, auth.ErrUserExists):
		user = &models.User{}
		email := strings.ToLower(strings.TrimSpace(opts.Email))
		if err := db.WithContext(ctx).Where("email = ?", email).First(user).Error; err != nil {
			return nil, fmt.Errorf("loading existing user: %w", err)
		}
	default:
		return nil, fmt.Errorf("creating user: %w", err)
	}
	result.User = user

	var existing models.Project
	err = db.WithContext(ctx).
		Where("owner_id = ? AND title = ?", user.ID, opts.Project).
		First(&existing).Error
	if err == nil {
		result.Project = &existing
		return result, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up project: %w", err)
	}

	svc := tracker.NewService(db, logger)
	project, err := svc.Projects.CreateProject(ctx, user.ID, tracker.CreateProjectInput{Title: opts.Project})
	if err != nil {
		return nil, err
	}
	result.Project = project
	result.ProjectCreated = true

	boards, err := svc.Workflows.ListWorkflowsWithStages(ctx, user.ID, project.ID)
	if err != nil {
		return nil, err
	}
	if len(boards) == 0 || len(boards[0].Stages) == 0 {
		return nil, fmt.Errorf("project %d has no default board", project.ID)
	}
	board := boards[0]

	for i, name := range []string{"In Progress", "Done"} {
		order := i + 1
		if _, err := svc.Workflows.CreateStage(ctx, user.ID, board.Workflow.ID, name, &order); err != nil {
			return nil, err
		}
	}

	todo := board.Stages[0].ID
	if _, err := svc.Tasks.CreateProjectTask(ctx, user.ID, project.ID, tracker.CreateProjectTaskInput{
		Title:           "Invite your team",
		Priority:        "high",
		AssignedTo:      &user.ID,
		WorkflowStageID: &todo,
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func seedCmd(open Opener) *cobra.Command {
	opts := SeedOptions{
		Name:     envOr("ADMIN_NAME", "Admin"),
		Email:    envOr("ADMIN_EMAIL", "admin@example.com"),
		Password: envOr("ADMIN_PASSWORD", "admin123!"),
		Project:  "Sample Project",
	}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create an admin user and a demo project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(opts.Email) == "" || opts.Password == "" {
				return errors.New("email and password are required")
			}
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				res, err := Seed(ctx, app.DB, app.Logger, opts)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if res.UserCreated {
					printStep(w, okLabel("CREATED"), "user %s (id %d)", res.User.Email, res.User.ID)
				} else {
					printStep(w, skipLabel("EXISTS "), "user %s (id %d)", res.User.Email, res.User.ID)
				}
				if res.ProjectCreated {
					printStep(w, okLabel("CREATED"), "project %q (id %d)", res.Project.Title, res.Project.ID)
				} else {
					printStep(w, skipLabel("EXISTS "), "project %q (id %d)", res.Project.Title, res.Project.ID)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", opts.Name, "admin display name (ADMIN_NAME)")
	cmd.Flags().StringVar(&opts.Email, "email", opts.Email, "admin email (ADMIN_EMAIL)")
	cmd.Flags().StringVar(&opts.Password, "password", opts.Password, "admin password (ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&opts.Project, "project", opts.Project, "title of the demo project")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
