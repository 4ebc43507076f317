package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nishtha/internal/model"
)

// CompletionRepo stores completion sagas
type CompletionRepo interface {
	Save(ctx context.Context, saga *model.CompletionSaga) error
	GetByID(ctx context.Context, id string) (*model.CompletionSaga, error)
	// ListMinted returns unreconciled sagas of a learner whose mint succeeded
	ListMinted(ctx context.Context, email string) ([]model.CompletionSaga, error)
}

type completionRepo struct {
	collection *mongo.Collection
}

// NewCompletionRepo creates a new completion saga repository
func NewCompletionRepo(db *mongo.Database) CompletionRepo {
	return &completionRepo{
		collection: db.Collection("completions"),
	}
}

func (r *completionRepo) Save(ctx context.Context, saga *model.CompletionSaga) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": saga.ID}, saga, opts)
	return err
}

func (r *completionRepo) GetByID(ctx context.Context, id string) (*model.CompletionSaga, error) {
	var saga model.CompletionSaga
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&saga)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &saga, nil
}

func (r *completionRepo) ListMinted(ctx context.Context, email string) ([]model.CompletionSaga, error) {
	filter := bson.M{
		"email":        email,
		"mint.success": true,
		"reconciled":   false,
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sagas []model.CompletionSaga
	if err := cursor.All(ctx, &sagas); err != nil {
		return nil, err
	}
	return sagas, nil
}
