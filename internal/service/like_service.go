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

// LikeStore is the persistence surface the toggle engine drives.
type LikeStore interface {
	FindBySubjectAndUser(ctx context.Context, subject models.SubjectRef, userID primitive.ObjectID) (*models.Like, error)
	Insert(ctx context.Context, like *models.Like) error
	SetLiked(ctx context.Context, id primitive.ObjectID, liked bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountBySubject(ctx context.Context, subject models.SubjectRef, liked bool) (int64, error)
}

// SubjectStore validates that a like subject exists before any mutation.
type SubjectStore interface {
	Exists(ctx context.Context, subject models.SubjectRef) (bool, error)
}

// LikedFeed produces the liked-videos read model.
type LikedFeed interface {
	LikedVideos(ctx context.Context, userID primitive.ObjectID) ([]models.VideoWithOwner, error)
}

// ReadModelCache invalidates cached read models touched by a toggle.
type ReadModelCache interface {
	DeleteByPattern(ctx context.Context, pattern string)
}

// EventPublisher emits engagement events off the request path.
type EventPublisher interface {
	Publish(ctx context.Context, event kafka.EngagementEvent) error
}

// EngagementMetrics counts engagement outcomes for the scrape endpoint.
type EngagementMetrics interface {
	RecordLikeToggle(subjectType, result string)
	RecordSubscriptionToggle(result string)
	RecordVideoView()
	RecordVideoPublished()
	RecordCacheHit(view string)
	RecordCacheMiss(view string)
	RecordEventPublishFailure()
}

// LikeService is the like/dislike toggle engine: a three-state machine per
// (subject, user) pair driven by the requested target.
//
//	NEUTRAL  + like    -> LIKED    (insert liked=true)
//	NEUTRAL  + dislike -> DISLIKED (insert liked=false)
//	LIKED    + like    -> NEUTRAL  (delete record)
//	LIKED    + dislike -> DISLIKED (update liked=false)
//	DISLIKED + like    -> LIKED    (update liked=true)
//	DISLIKED + dislike -> NEUTRAL  (delete record)
type LikeService struct {
	likes    LikeStore
	subjects SubjectStore
	feed     LikedFeed
	cache    ReadModelCache
	events   EventPublisher
	metrics  EngagementMetrics
	logger   *logrus.Logger
}

func NewLikeService(likes LikeStore, subjects SubjectStore, feed LikedFeed, readCache ReadModelCache, events EventPublisher, metrics EngagementMetrics, logger *logrus.Logger) *LikeService {
	return &LikeService{
		likes:    likes,
		subjects: subjects,
		feed:     feed,
		cache:    readCache,
		events:   events,
		metrics:  metrics,
		logger:   logger,
	}
}

// Toggle applies one transition for the caller on the subject and returns
// the resulting state plus fresh like/dislike totals. The subject must
// exist. A concurrent first toggle that loses the unique-index race is
// retried once against the record the winner created.
func (s *LikeService) Toggle(ctx context.Context, subject models.SubjectRef, userID primitive.ObjectID, wantLike bool) (*models.LikeStatus, error) {
	const op = "service/like/Toggle"

	exists, err := s.subjects.Exists(ctx, subject)
	if err != nil {
		s.logger.WithError(err).Error("subject lookup failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if !exists {
		return nil, fmt.Errorf("%s: no %s found: %w", op, subject.Type, ErrNotFound)
	}

	isLiked, isDisLiked, err := s.transition(ctx, subject, userID, wantLike)
	if errors.Is(err, repository.ErrDuplicateLike) {
		isLiked, isDisLiked, err = s.transition(ctx, subject, userID, wantLike)
	}
	if err != nil {
		s.logger.WithError(err).Error("like transition failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	totalLikes, err := s.likes.CountBySubject(ctx, subject, true)
	if err != nil {
		s.logger.WithError(err).Error("like count failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	totalDisLikes, err := s.likes.CountBySubject(ctx, subject, false)
	if err != nil {
		s.logger.WithError(err).Error("dislike count failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if subject.Type == models.SubjectVideo && s.cache != nil {
		s.cache.DeleteByPattern(ctx, cache.VideoDetailPattern(subject.ID.Hex()))
	}
	if s.metrics != nil {
		s.metrics.RecordLikeToggle(string(subject.Type), toggleResult(isLiked, isDisLiked))
	}
	s.emit(kafka.NewEngagementEvent(kafka.EventLikeToggled, subject.ID.Hex(), userID.Hex(), map[string]string{
		"subject_type": string(subject.Type),
		"is_liked":     fmt.Sprintf("%t", isLiked),
		"is_disliked":  fmt.Sprintf("%t", isDisLiked),
	}))

	return &models.LikeStatus{
		IsLiked:       isLiked,
		IsDisLiked:    isDisLiked,
		TotalLikes:    totalLikes,
		TotalDisLikes: totalDisLikes,
	}, nil
}

// transition performs exactly one row of the state table and reports the
// resulting flags.
func (s *LikeService) transition(ctx context.Context, subject models.SubjectRef, userID primitive.ObjectID, wantLike bool) (isLiked, isDisLiked bool, err error) {
	existing, err := s.likes.FindBySubjectAndUser(ctx, subject, userID)
	switch {
	case errors.Is(err, repository.ErrLikeNotFound):
		// neutral: create the record with the requested polarity
		if err := s.likes.Insert(ctx, models.NewLike(subject, userID, wantLike)); err != nil {
			return false, false, err
		}
		return wantLike, !wantLike, nil
	case err != nil:
		return false, false, err
	}

	if existing.Liked == wantLike {
		// requesting the current state again deletes the record, back to
		// neutral
		if err := s.likes.Delete(ctx, existing.ID); err != nil {
			return false, false, err
		}
		return false, false, nil
	}

	// flip polarity in place
	if err := s.likes.SetLiked(ctx, existing.ID, wantLike); err != nil {
		return false, false, err
	}
	return wantLike, !wantLike, nil
}

// LikedVideos returns the caller's liked-videos feed.
func (s *LikeService) LikedVideos(ctx context.Context, userID primitive.ObjectID) ([]models.VideoWithOwner, error) {
	const op = "service/like/LikedVideos"

	videos, err := s.feed.LikedVideos(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("liked videos view failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return videos, nil
}

// toggleResult names the state a toggle landed in.
func toggleResult(isLiked, isDisLiked bool) string {
	switch {
	case isLiked:
		return "liked"
	case isDisLiked:
		return "disliked"
	default:
		return "neutral"
	}
}

// emit publishes an engagement event off the request path.
func (s *LikeService) emit(event kafka.EngagementEvent) {
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
