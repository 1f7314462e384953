package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/Madiyar2201/Time_Tracker/internal/config"
	"github.com/Madiyar2201/Time_Tracker/internal/database"
	"github.com/Madiyar2201/Time_Tracker/internal/models"
	"github.com/Madiyar2201/Time_Tracker/internal/repository"
	"github.com/Madiyar2201/Time_Tracker/internal/services"
	"github.com/Madiyar2201/Time_Tracker/pkg/logger"
	"github.com/go-faker/faker/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seeds the database with one demo account (tesla@tesla.dk / password)
// plus clients, projects, tasks and a backdated activity trail spread
// over the past weeks, so the feed and statistics have data to show.
func main() {
	cfg := config.LoadConfig()

	logger.InitLogger()

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	ctx := context.Background()

	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	userService := services.NewUserService(userRepo)
	user, err := userService.RegisterUser(ctx, "Nikola Tesla", "tesla@tesla.dk", "password")
	if err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	seeder := &seeder{
		clients:    clientRepo,
		projects:   projectRepo,
		tasks:      taskRepo,
		activities: activityRepo,
		userID:     user.ID,
	}

	if err := seeder.run(ctx); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println("Database seeded. Login with tesla@tesla.dk / password")
}

type seeder struct {
	clients    *repository.ClientRepository
	projects   *repository.ProjectRepository
	tasks      *repository.TaskRepository
	activities *repository.ActivityRepository
	userID     primitive.ObjectID
}

func (s *seeder) run(ctx context.Context) error {
	for c := 0; c < 10; c++ {
		client, err := s.clients.CreateClient(ctx, &models.Client{
			UserID:      s.userID,
			Name:        faker.Name(),
			Description: faker.Paragraph(),
			VatAbbr:     "DK",
			Vat:         fmt.Sprintf("%d", 10000000+rand.Intn(90000000)),
		})
		if err != nil {
			return err
		}
		if err := s.recordActivity(ctx, client, models.EventCreated, weeksAgo(0)); err != nil {
			return err
		}

		for p := 0; p < 3+rand.Intn(3); p++ {
			project, err := s.projects.CreateProject(ctx, &models.Project{
				UserID:      s.userID,
				ClientID:    client.ID,
				Title:       faker.Sentence(),
				Description: faker.Paragraph(),
			})
			if err != nil {
				return err
			}
			if err := s.recordActivity(ctx, project, models.EventCreated, weeksAgo(0)); err != nil {
				return err
			}

			for t := 0; t < 5+rand.Intn(10); t++ {
				if err := s.seedTask(ctx, project); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *seeder) seedTask(ctx context.Context, project *models.Project) error {
	task, err := s.tasks.CreateTask(ctx, &models.Task{
		UserID:       s.userID,
		ProjectID:    project.ID,
		Title:        faker.Sentence(),
		Description:  faker.Paragraph(),
		HoursSpent:   1 + rand.Intn(50),
		MinutesSpent: rand.Intn(60),
	})
	if err != nil {
		return err
	}

	// Backdate the task and randomly mark it completed and billed so the
	// weekly series have buckets to fill.
	updates := map[string]interface{}{
		"created_at": weeksAgo(rand.Intn(3)),
	}
	if ts := maybeWeeksAgo(); ts != nil {
		updates["completed_at"] = *ts
	}
	if ts := maybeWeeksAgo(); ts != nil {
		updates["billed_at"] = *ts
	}
	if err := s.tasks.UpdateTask(ctx, task.ID, updates); err != nil {
		return err
	}

	return s.recordActivity(ctx, task, models.EventCreated, weeksAgo(rand.Intn(10)))
}

// recordActivity inserts the audit row directly so CreatedAt can be
// spread into the past, which the service layer deliberately does not
// allow.
func (s *seeder) recordActivity(ctx context.Context, entity models.Trackable, event string, createdAt time.Time) error {
	_, err := s.activities.CreateActivity(ctx, &models.Activity{
		UserID:      entity.OwnerUserID(),
		SubjectType: entity.KindName(),
		SubjectID:   entity.TrackableID(),
		Description: fmt.Sprintf("%s_%s", event, entity.KindName()),
		CreatedAt:   createdAt,
	})
	return err
}

func weeksAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -7*n).Add(-time.Duration(rand.Intn(24)) * time.Hour)
}

func maybeWeeksAgo() *time.Time {
	if rand.Intn(2) == 0 {
		return nil
	}
	ts := weeksAgo(rand.Intn(10))
	return &ts
}
