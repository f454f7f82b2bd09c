package main

import (
	"context"
	"fmt"
	"time"

	"github.com/learnhub/lms-backend/internal/config"
	"github.com/learnhub/lms-backend/internal/database"
	"github.com/learnhub/lms-backend/internal/logger"
	"github.com/learnhub/lms-backend/internal/model"
	"github.com/learnhub/lms-backend/internal/repository"
	"github.com/learnhub/lms-backend/internal/service"
)

// seedClasses is the demo catalog. Existing classes with the same name are
// left alone so re-running the seeder is safe.
var seedClasses = []model.Class{
	{
		Name:       "React Fundamentals",
		Instructor: "Dr. Sarah Smith",
		Type:       model.ClassTheory,
		Lessons:    []string{"Components & JSX", "State & Props", "Hooks Overview", "Component Lifecycle"},
		TimeTable:  "Mon, Wed, Fri - 10:00 AM",
		Place:      "Room 201",
		Duration:   "12 weeks",
		Students:   150,
		Color:      "#667eea",
	},
	{
		Name:       "JavaScript Advanced",
		Instructor: "Prof. Mike Johnson",
		Type:       model.ClassTheory,
		Lessons:    []string{"ES6+ Features", "Async Programming", "Closures & Scope", "Prototypes & OOP"},
		TimeTable:  "Tue, Thu - 2:00 PM",
		Place:      "Room 305",
		Duration:   "10 weeks",
		Students:   200,
		Color:      "#764ba2",
	},
	{
		Name:       "React Quick Review",
		Instructor: "Dr. Sarah Smith",
		Type:       model.ClassRevision,
		Lessons:    []string{"Components Review", "Hooks Deep Dive", "Performance Tips", "Common Patterns"},
		TimeTable:  "Sat - 4:00 PM",
		Place:      "Room 201",
		Duration:   "4 weeks",
		Students:   80,
		Color:      "#f5576c",
	},
	{
		Name:       "React Exam Prep",
		Instructor: "Dr. Sarah Smith",
		Type:       model.ClassPaper,
		Lessons:    []string{"Mock Tests", "Practice Questions", "Time Management", "Exam Tips"},
		TimeTable:  "Sun - 10:00 AM",
		Place:      "Room 201",
		Duration:   "2 weeks",
		Students:   140,
		Color:      "#00d4ff",
	},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	classRepo := repository.NewClassRepository(pool)
	classService := service.NewClassService(classRepo, log)

	existing, err := classService.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list classes")
	}
	names := make(map[string]bool, len(existing))
	for _, c := range existing {
		names[c.Name] = true
	}

	fmt.Println("=== Seeding demo classes ===")
	created := 0
	for _, c := range seedClasses {
		if names[c.Name] {
			fmt.Printf("Skipping %q (already present)\n", c.Name)
			continue
		}
		class := c
		if err := classService.Create(ctx, &class); err != nil {
			log.Fatal().Err(err).Str("name", c.Name).Msg("Failed to create class")
		}
		fmt.Printf("Created %q with ID %s\n", class.Name, class.ID)
		created++
	}
	fmt.Printf("Done. %d classes created, %d skipped.\n", created, len(seedClasses)-created)
}
