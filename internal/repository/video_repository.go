package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourusername/video-sharing-platform/internal/models"
)

var ErrVideoNotFound = errors.New("video not found")

type VideoRepository struct {
	collection *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{
		collection: db.Collection("videos"),
	}
}

func (r *VideoRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("owner_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "is_published", Value: 1}},
			Options: options.Index().SetName("published_idx"),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	video.ID = primitive.NewObjectID()
	video.CreatedAt = time.Now()
	video.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, video)
	return err
}

func (r *VideoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var video models.Video
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&video)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &video, nil
}

// UpdateDetails updates title, description and optionally the thumbnail.
func (r *VideoRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, title, description, thumbnailURL string) (*models.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"title":       title,
		"description": description,
		"updated_at":  time.Now(),
	}
	if thumbnailURL != "" {
		set["thumbnail_url"] = thumbnailURL
	}

	var video models.Video
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&video)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrVideoNotFound
	}
	return nil
}

// SetPublished flips the publish flag and returns the updated document.
func (r *VideoRepository) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (*models.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var video models.Video
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_published": published, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&video)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &video, nil
}

// IncrementViews atomically bumps the view counter and returns the new total.
func (r *VideoRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var video models.Video
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&video)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrVideoNotFound
		}
		return 0, err
	}
	return video.Views, nil
}
