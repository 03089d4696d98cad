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
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrDuplicateEdge        = errors.New("subscription already exists")
)

type SubscriptionRepository struct {
	collection *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{
		collection: db.Collection("subscriptions"),
	}
}

func (r *SubscriptionRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "subscriber", Value: 1},
				{Key: "channel", Value: 1},
			},
			Options: options.Index().SetName("subscriber_channel_idx").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "channel", Value: 1}},
			Options: options.Index().SetName("channel_idx"),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscriberID, channelID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sub := models.Subscription{
		ID:         primitive.NewObjectID(),
		Subscriber: subscriberID,
		Channel:    channelID,
		CreatedAt:  time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, sub)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEdge
	}
	return err
}

func (r *SubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{
		"subscriber": subscriberID,
		"channel":    channelID,
	})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepository) Exists(ctx context.Context, subscriberID, channelID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"subscriber": subscriberID,
		"channel":    channelID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindSubscribers returns the public profiles of everyone subscribed to a
// channel.
func (r *SubscriptionRepository) FindSubscribers(ctx context.Context, channelID primitive.ObjectID) ([]models.PublicUser, error) {
	return r.joinUsers(ctx, bson.M{"channel": channelID}, "subscriber")
}

// FindSubscribedChannels returns the public profiles of the channels a user
// subscribes to.
func (r *SubscriptionRepository) FindSubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]models.PublicUser, error) {
	return r.joinUsers(ctx, bson.M{"subscriber": subscriberID}, "channel")
}

func (r *SubscriptionRepository) joinUsers(ctx context.Context, match bson.M, localField string) ([]models.PublicUser, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   localField,
			"foreignField": "_id",
			"as":           "user",
			"pipeline": []bson.M{
				{"$project": bson.M{"username": 1, "fullname": 1, "avatar_url": 1}},
			},
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$user"}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.PublicUser
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
