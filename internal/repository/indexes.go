package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nishtha/internal/logger"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// email index backs the proof idempotency in LearnerRepo.AddProject.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *logger.Logger) {
	createIndex(ctx, log, db.Collection("users"), bson.D{{Key: "email", Value: 1}}, true)
	createIndex(ctx, log, db.Collection("users"), bson.D{{Key: "verifiedProjects.id", Value: 1}}, false)

	createIndex(ctx, log, db.Collection("courses"), bson.D{{Key: "videoURL", Value: 1}}, true)
	createIndex(ctx, log, db.Collection("courses"), bson.D{{Key: "videoID", Value: 1}}, false)

	createIndex(ctx, log, db.Collection("completions"), bson.D{
		{Key: "email", Value: 1},
		{Key: "updatedAt", Value: -1},
	}, false)

	log.Info("mongo indexes ensured")
}

func createIndex(ctx context.Context, log *logger.Logger, coll *mongo.Collection, keys bson.D, unique bool) {
	opts := options.Index().SetUnique(unique)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: keys, Options: opts})
	if err != nil {
		log.Warn("failed to create index", "collection", coll.Name(), "error", err)
	}
}
