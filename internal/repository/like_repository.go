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

var (
	ErrLikeNotFound  = errors.New("like not found")
	ErrDuplicateLike = errors.New("like already exists for subject and user")
)

// LikeRepository stores per-(subject, user) preference records. A partial
// unique index per subject type guarantees at most one record per pair, so
// concurrent first toggles surface as ErrDuplicateLike instead of double
// inserts.
type LikeRepository struct {
	collection *mongo.Collection
}

func NewLikeRepository(db *mongo.Database) *LikeRepository {
	return &LikeRepository{
		collection: db.Collection("likes"),
	}
}

func (r *LikeRepository) EnsureIndexes(ctx context.Context) error {
	indexes := make([]mongo.IndexModel, 0, 3)
	for _, subject := range []models.SubjectType{models.SubjectVideo, models.SubjectComment, models.SubjectTweet} {
		field := subject.Field()
		indexes = append(indexes, mongo.IndexModel{
			Keys: bson.D{
				{Key: field, Value: 1},
				{Key: "liked_by", Value: 1},
			},
			Options: options.Index().
				SetName(field + "_user_idx").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{field: bson.M{"$exists": true}}),
		})
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *LikeRepository) FindBySubjectAndUser(ctx context.Context, subject models.SubjectRef, userID primitive.ObjectID) (*models.Like, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var like models.Like
	err := r.collection.FindOne(ctx, bson.M{
		subject.Type.Field(): subject.ID,
		"liked_by":           userID,
	}).Decode(&like)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrLikeNotFound
		}
		return nil, err
	}
	return &like, nil
}

func (r *LikeRepository) Insert(ctx context.Context, like *models.Like) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	like.ID = primitive.NewObjectID()

	_, err := r.collection.InsertOne(ctx, like)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateLike
	}
	return err
}

// SetLiked flips an existing record between like and dislike.
func (r *LikeRepository) SetLiked(ctx context.Context, id primitive.ObjectID, liked bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"liked": liked}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrLikeNotFound
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrLikeNotFound
	}
	return nil
}

// CountBySubject counts likes (liked=true) or dislikes (liked=false) for a
// subject.
func (r *LikeRepository) CountBySubject(ctx context.Context, subject models.SubjectRef, liked bool) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{
		subject.Type.Field(): subject.ID,
		"liked":              liked,
	})
}
