package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nishtha/internal/model"
)

// LearnerRepo handles MongoDB operations for learner profiles and their proofs
type LearnerRepo interface {
	// AddProject appends the proof unless one with the same transaction hash
	// is already recorded; it reports whether the proof was added
	AddProject(ctx context.Context, email, walletAddress string, project *model.VerifiedProject) (bool, error)
	GetByEmail(ctx context.Context, email string) (*model.Learner, error)
	FindProjectByTx(ctx context.Context, email, txHash string) (*model.VerifiedProject, error)
	FindProject(ctx context.Context, projectID string) (*model.Learner, *model.VerifiedProject, error)
}

type learnerRepo struct {
	collection *mongo.Collection
}

// NewLearnerRepo creates a new learner repository
func NewLearnerRepo(db *mongo.Database) LearnerRepo {
	return &learnerRepo{
		collection: db.Collection("users"),
	}
}

func (r *learnerRepo) AddProject(ctx context.Context, email, walletAddress string, project *model.VerifiedProject) (bool, error) {
	filter := bson.M{"email": email}
	if project.TransactionHash != "" {
		filter["verifiedProjects.transactionHash"] = bson.M{"$ne": project.TransactionHash}
	}
	set := bson.M{"email": email}
	if walletAddress != "" {
		set["walletAddress"] = walletAddress
	}
	update := bson.M{
		"$push": bson.M{"verifiedProjects": project},
		"$set":  set,
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// learner exists and already holds this transaction; the upsert
		// collided with the unique email index
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *learnerRepo) GetByEmail(ctx context.Context, email string) (*model.Learner, error) {
	var learner model.Learner
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&learner)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &learner, nil
}

func (r *learnerRepo) FindProjectByTx(ctx context.Context, email, txHash string) (*model.VerifiedProject, error) {
	learner, err := r.GetByEmail(ctx, email)
	if err != nil || learner == nil {
		return nil, err
	}
	for i := range learner.VerifiedProjects {
		if learner.VerifiedProjects[i].TransactionHash == txHash {
			return &learner.VerifiedProjects[i], nil
		}
	}
	return nil, nil
}

func (r *learnerRepo) FindProject(ctx context.Context, projectID string) (*model.Learner, *model.VerifiedProject, error) {
	var learner model.Learner
	err := r.collection.FindOne(ctx, bson.M{"verifiedProjects.id": projectID}).Decode(&learner)
	if err == mongo.ErrNoDocuments {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	for i := range learner.VerifiedProjects {
		if learner.VerifiedProjects[i].ID == projectID {
			return &learner, &learner.VerifiedProjects[i], nil
		}
	}
	return nil, nil, nil
}
