package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/video-sharing-platform/internal/models"
	"github.com/yourusername/video-sharing-platform/internal/repository"
)

type TweetService struct {
	tweets *repository.TweetRepository
	users  *repository.UserRepository
	logger *logrus.Logger
}

func NewTweetService(tweets *repository.TweetRepository, users *repository.UserRepository, logger *logrus.Logger) *TweetService {
	return &TweetService{
		tweets: tweets,
		users:  users,
		logger: logger,
	}
}

func (s *TweetService) Create(ctx context.Context, ownerID primitive.ObjectID, content string) (*models.Tweet, error) {
	const op = "service/tweet/Create"

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%s: content is required: %w", op, ErrInvalidInput)
	}

	tweet := &models.Tweet{
		Content: content,
		Owner:   ownerID,
	}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		s.logger.WithError(err).Error("tweet create failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return tweet, nil
}

// ListByUser returns a user's tweets, newest first.
func (s *TweetService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Tweet, error) {
	const op = "service/tweet/ListByUser"

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: no user found: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("user lookup failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	tweets, err := s.tweets.FindByOwner(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("tweet list failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if tweets == nil {
		tweets = []models.Tweet{}
	}
	return tweets, nil
}

func (s *TweetService) Update(ctx context.Context, id, callerID primitive.ObjectID, content string) (*models.Tweet, error) {
	const op = "service/tweet/Update"

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%s: content is required: %w", op, ErrInvalidInput)
	}

	if err := s.authorize(ctx, op, id, callerID); err != nil {
		return nil, err
	}

	tweet, err := s.tweets.UpdateContent(ctx, id, content)
	if err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("tweet update failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return tweet, nil
}

func (s *TweetService) Delete(ctx context.Context, id, callerID primitive.ObjectID) error {
	const op = "service/tweet/Delete"

	if err := s.authorize(ctx, op, id, callerID); err != nil {
		return err
	}

	if err := s.tweets.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("tweet delete failed")
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return nil
}

func (s *TweetService) authorize(ctx context.Context, op string, id, callerID primitive.ObjectID) error {
	tweet, err := s.tweets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTweetNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("tweet lookup failed")
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if tweet.Owner != callerID {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	return nil
}
