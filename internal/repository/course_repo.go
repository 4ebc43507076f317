package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nishtha/internal/model"
)

// CourseRepo handles MongoDB operations for generated course plans
type CourseRepo interface {
	Save(ctx context.Context, course *model.Course) error
	GetByVideoURL(ctx context.Context, videoURL string) (*model.Course, error)
	GetByVideoID(ctx context.Context, videoID string) (*model.Course, error)
	List(ctx context.Context, limit int64) ([]model.Course, error)
}

type courseRepo struct {
	collection *mongo.Collection
}

// NewCourseRepo creates a new course repository
func NewCourseRepo(db *mongo.Database) CourseRepo {
	return &courseRepo{
		collection: db.Collection("courses"),
	}
}

// Save upserts the course keyed by its video URL
func (r *courseRepo) Save(ctx context.Context, course *model.Course) error {
	if course.ID == "" {
		course.ID = primitive.NewObjectID().Hex()
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"videoURL": course.VideoURL}, course, opts)
	return err
}

func (r *courseRepo) GetByVideoURL(ctx context.Context, videoURL string) (*model.Course, error) {
	return r.findOne(ctx, bson.M{"videoURL": videoURL})
}

func (r *courseRepo) GetByVideoID(ctx context.Context, videoID string) (*model.Course, error) {
	return r.findOne(ctx, bson.M{"videoID": videoID})
}

func (r *courseRepo) List(ctx context.Context, limit int64) ([]model.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var courses []model.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) findOne(ctx context.Context, filter bson.M) (*model.Course, error) {
	var course model.Course
	err := r.collection.FindOne(ctx, filter).Decode(&course)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}
