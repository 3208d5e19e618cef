package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"coursehub/internal/config"
	"coursehub/internal/domain"
	"coursehub/internal/repository/sqlite"
)

type seedCourse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
	Schedule    string `json:"schedule"`
}

// Seeds the course catalog from a JSON data file. Seeded courses carry their
// instructor name directly and have no owning user.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	data, err := os.ReadFile(cfg.Seed.DataFile)
	if err != nil {
		logger.Fatalf("read seed data: %v", err)
	}

	var courses []seedCourse
	if err := json.Unmarshal(data, &courses); err != nil {
		logger.Fatalf("parse seed data: %v", err)
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := sqlite.NewCourseRepository(db)
	if err := repo.Init(ctx); err != nil {
		logger.Fatalf("init course repository: %v", err)
	}

	inserted := 0
	for _, sc := range courses {
		if sc.Title == "" || sc.Description == "" || sc.Instructor == "" || sc.Schedule == "" {
			logger.Warnf("skipping incomplete seed entry %q", sc.Title)
			continue
		}
		course := &domain.Course{
			ID:          uuid.NewString(),
			Title:       sc.Title,
			Description: sc.Description,
			Instructor:  sc.Instructor,
			Schedule:    sc.Schedule,
		}
		if err := repo.Create(ctx, course); err != nil {
			logger.Fatalf("insert course %q: %v", sc.Title, err)
		}
		inserted++
	}

	logger.Infof("seeded %d courses from %s", inserted, cfg.Seed.DataFile)
}
