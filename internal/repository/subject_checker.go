package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yourusername/video-sharing-platform/internal/models"
)

// SubjectChecker answers "does this like subject exist" across the three
// subject collections. The toggle engine validates existence before any
// mutation.
type SubjectChecker struct {
	videos   *mongo.Collection
	comments *mongo.Collection
	tweets   *mongo.Collection
}

func NewSubjectChecker(db *mongo.Database) *SubjectChecker {
	return &SubjectChecker{
		videos:   db.Collection("videos"),
		comments: db.Collection("comments"),
		tweets:   db.Collection("tweets"),
	}
}

func (c *SubjectChecker) Exists(ctx context.Context, subject models.SubjectRef) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var collection *mongo.Collection
	switch subject.Type {
	case models.SubjectVideo:
		collection = c.videos
	case models.SubjectComment:
		collection = c.comments
	case models.SubjectTweet:
		collection = c.tweets
	default:
		return false, nil
	}

	count, err := collection.CountDocuments(ctx, bson.M{"_id": subject.ID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
