package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/video-sharing-platform/internal/cache"
	"github.com/yourusername/video-sharing-platform/internal/kafka"
	"github.com/yourusername/video-sharing-platform/internal/models"
	"github.com/yourusername/video-sharing-platform/internal/repository"
)

// SubscriptionService toggles subscriber-to-channel edges. The unique
// compound index keeps the edge set duplicate free under concurrency.
type SubscriptionService struct {
	subscriptions *repository.SubscriptionRepository
	users         *repository.UserRepository
	cache         ReadModelCache
	events        EventPublisher
	metrics       EngagementMetrics
	logger        *logrus.Logger
}

func NewSubscriptionService(subscriptions *repository.SubscriptionRepository, users *repository.UserRepository, readCache ReadModelCache, events EventPublisher, metrics EngagementMetrics, logger *logrus.Logger) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		users:         users,
		cache:         readCache,
		events:        events,
		metrics:       metrics,
		logger:        logger,
	}
}

// Toggle flips the subscription edge from the caller to the channel and
// reports whether the caller is subscribed afterwards. Self-subscription is
// rejected.
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID primitive.ObjectID) (bool, error) {
	const op = "service/subscription/Toggle"

	if subscriberID == channelID {
		return false, fmt.Errorf("%s: cannot subscribe to yourself: %w", op, ErrInvalidInput)
	}

	channel, err := s.users.FindByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, fmt.Errorf("%s: no channel found: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("channel lookup failed")
		return false, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	subscribed, err := s.subscriptions.Exists(ctx, subscriberID, channelID)
	if err != nil {
		s.logger.WithError(err).Error("subscription lookup failed")
		return false, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	var eventType kafka.EventType
	if subscribed {
		err = s.subscriptions.Delete(ctx, subscriberID, channelID)
		// a concurrent unsubscribe already removed the edge; same outcome
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			err = nil
		}
		subscribed = false
		eventType = kafka.EventUnsubscribed
	} else {
		err = s.subscriptions.Create(ctx, subscriberID, channelID)
		// a concurrent subscribe already created the edge; same outcome
		if errors.Is(err, repository.ErrDuplicateEdge) {
			err = nil
		}
		subscribed = true
		eventType = kafka.EventSubscribed
	}
	if err != nil {
		s.logger.WithError(err).Error("subscription toggle failed")
		return false, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if s.cache != nil {
		s.cache.DeleteByPattern(ctx, cache.ChannelProfilePattern(channel.Username))
	}
	if s.metrics != nil {
		result := "unsubscribed"
		if subscribed {
			result = "subscribed"
		}
		s.metrics.RecordSubscriptionToggle(result)
	}
	s.emit(kafka.NewEngagementEvent(eventType, channelID.Hex(), subscriberID.Hex(), nil))

	return subscribed, nil
}

// Subscribers lists the public profiles of a channel's subscribers.
func (s *SubscriptionService) Subscribers(ctx context.Context, channelID primitive.ObjectID) ([]models.PublicUser, error) {
	const op = "service/subscription/Subscribers"

	if _, err := s.users.FindByID(ctx, channelID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: no channel found: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("channel lookup failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	subscribers, err := s.subscriptions.FindSubscribers(ctx, channelID)
	if err != nil {
		s.logger.WithError(err).Error("subscriber list failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if subscribers == nil {
		subscribers = []models.PublicUser{}
	}
	return subscribers, nil
}

// SubscribedChannels lists the public profiles of the channels a user
// subscribes to.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]models.PublicUser, error) {
	const op = "service/subscription/SubscribedChannels"

	channels, err := s.subscriptions.FindSubscribedChannels(ctx, subscriberID)
	if err != nil {
		s.logger.WithError(err).Error("subscribed channel list failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if channels == nil {
		channels = []models.PublicUser{}
	}
	return channels, nil
}

func (s *SubscriptionService) emit(event kafka.EngagementEvent) {
	if s.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.WithError(err).WithField("event_type", event.Type).Warn("event publish failed")
			if s.metrics != nil {
				s.metrics.RecordEventPublishFailure()
			}
		}
	}()
}
