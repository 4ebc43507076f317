package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nishtha/internal/config"
	"nishtha/internal/logger"
	"nishtha/internal/repository"
	"nishtha/internal/seed"
)

func main() {
	path := flag.String("f", "seed", "YAML fixture file or directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	courses, err := seed.Load(*path)
	if err != nil {
		log.Fatal("failed to load fixtures", "path", *path, "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.Mongo.Database)
	repository.EnsureIndexes(ctx, db, log)
	repo := repository.NewCourseRepo(db)

	for i := range courses {
		c := &courses[i]
		if err := repo.Save(ctx, c); err != nil {
			log.Fatal("failed to save course", "videoId", c.VideoID, "error", err)
		}
		log.Info("seeded course", "id", c.ID, "videoId", c.VideoID, "title", c.CourseTitle, "modules", len(c.Modules))
	}
	log.Info("seeding complete", "courses", len(courses))
}
