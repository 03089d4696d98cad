package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/video-sharing-platform/internal/cache"
	"github.com/yourusername/video-sharing-platform/internal/kafka"
	"github.com/yourusername/video-sharing-platform/internal/models"
	"github.com/yourusername/video-sharing-platform/internal/repository"
	"github.com/yourusername/video-sharing-platform/internal/views"
)

// PublishInput carries the upload form plus local temp paths of the video
// file and its thumbnail.
type PublishInput struct {
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

type VideoService struct {
	videos   *repository.VideoRepository
	users    *repository.UserRepository
	composer *views.Composer
	media    MediaHost
	cache    ProfileCache
	events   EventPublisher
	metrics  EngagementMetrics
	logger   *logrus.Logger
}

func NewVideoService(videos *repository.VideoRepository, users *repository.UserRepository, composer *views.Composer, media MediaHost, viewCache ProfileCache, events EventPublisher, metrics EngagementMetrics, logger *logrus.Logger) *VideoService {
	return &VideoService{
		videos:   videos,
		users:    users,
		composer: composer,
		media:    media,
		cache:    viewCache,
		events:   events,
		metrics:  metrics,
		logger:   logger,
	}
}

// List returns one page of the published-video listing. Search terms rank
// title matches above description matches.
func (s *VideoService) List(ctx context.Context, q views.ListQuery) (*models.VideoPage, error) {
	const op = "service/video/List"

	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	page, err := s.composer.ListVideos(ctx, q)
	if err != nil {
		s.logger.WithError(err).Error("video listing failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return page, nil
}

// Publish uploads the video and thumbnail to the media host, probes the
// duration, and creates the document published.
func (s *VideoService) Publish(ctx context.Context, ownerID primitive.ObjectID, in PublishInput) (*models.Video, error) {
	const op = "service/video/Publish"

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%s: title is required: %w", op, ErrInvalidInput)
	}
	if in.VideoPath == "" || in.ThumbnailPath == "" {
		return nil, fmt.Errorf("%s: video and thumbnail files are required: %w", op, ErrInvalidInput)
	}

	videoURL, duration, err := s.media.UploadVideo(ctx, in.VideoPath)
	if err != nil {
		s.logger.WithError(err).Error("video upload failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	thumbnailURL, err := s.media.UploadImage(ctx, in.ThumbnailPath)
	if err != nil {
		s.logger.WithError(err).Error("thumbnail upload failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	video := &models.Video{
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Title:        in.Title,
		Description:  in.Description,
		Duration:     duration,
		Owner:        ownerID,
		IsPublished:  true,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		s.logger.WithError(err).Error("video create failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if s.metrics != nil {
		s.metrics.RecordVideoPublished()
	}
	s.emit(kafka.NewEngagementEvent(kafka.EventVideoPublished, video.ID.Hex(), ownerID.Hex(), map[string]string{
		"title": video.Title,
	}))
	return video, nil
}

// Detail returns the published video read model with like rollups and the
// viewer's flags. viewerID may be primitive.NilObjectID.
func (s *VideoService) Detail(ctx context.Context, videoID, viewerID primitive.ObjectID) (*models.VideoDetail, error) {
	const op = "service/video/Detail"

	key := cache.VideoDetailKey(videoID.Hex(), viewerID.Hex())
	if s.cache != nil {
		var cached models.VideoDetail
		if s.cache.Get(ctx, key, &cached) {
			if s.metrics != nil {
				s.metrics.RecordCacheHit("video_detail")
			}
			return &cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss("video_detail")
		}
	}

	detail, err := s.composer.VideoDetail(ctx, videoID, viewerID)
	if err != nil {
		if errors.Is(err, views.ErrVideoNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("video detail view failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, detail)
	}
	return detail, nil
}

// Update changes the caller's video title, description and optionally its
// thumbnail.
func (s *VideoService) Update(ctx context.Context, videoID, callerID primitive.ObjectID, title, description, thumbnailPath string) (*models.Video, error) {
	const op = "service/video/Update"

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%s: title is required: %w", op, ErrInvalidInput)
	}

	if _, err := s.authorize(ctx, op, videoID, callerID); err != nil {
		return nil, err
	}

	var thumbnailURL string
	if thumbnailPath != "" {
		var err error
		thumbnailURL, err = s.media.UploadImage(ctx, thumbnailPath)
		if err != nil {
			s.logger.WithError(err).Error("thumbnail upload failed")
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	video, err := s.videos.UpdateDetails(ctx, videoID, title, description, thumbnailURL)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("video update failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	s.invalidateDetail(ctx, videoID)
	return video, nil
}

// Delete removes the caller's video document. The media objects stay on the
// external host.
func (s *VideoService) Delete(ctx context.Context, videoID, callerID primitive.ObjectID) error {
	const op = "service/video/Delete"

	if _, err := s.authorize(ctx, op, videoID, callerID); err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, videoID); err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("video delete failed")
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	s.invalidateDetail(ctx, videoID)
	s.emit(kafka.NewEngagementEvent(kafka.EventVideoDeleted, videoID.Hex(), callerID.Hex(), nil))
	return nil
}

// TogglePublish flips the caller's video between published and hidden.
func (s *VideoService) TogglePublish(ctx context.Context, videoID, callerID primitive.ObjectID) (*models.Video, error) {
	const op = "service/video/TogglePublish"

	current, err := s.authorize(ctx, op, videoID, callerID)
	if err != nil {
		return nil, err
	}

	video, err := s.videos.SetPublished(ctx, videoID, !current.IsPublished)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("publish toggle failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	s.invalidateDetail(ctx, videoID)
	return video, nil
}

// RegisterView bumps the view counter and appends the video to the viewer's
// watch history. History keeps repeats; ordering is append order.
func (s *VideoService) RegisterView(ctx context.Context, videoID, viewerID primitive.ObjectID) (int64, error) {
	const op = "service/video/RegisterView"

	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("video lookup failed")
		return 0, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if !video.IsPublished {
		return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	viewTotal, err := s.videos.IncrementViews(ctx, videoID)
	if err != nil {
		s.logger.WithError(err).Error("view increment failed")
		return 0, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if s.metrics != nil {
		s.metrics.RecordVideoView()
	}

	if viewerID != primitive.NilObjectID {
		if err := s.users.AppendWatchHistory(ctx, viewerID, videoID); err != nil {
			// the view already counted; history append is best effort
			s.logger.WithError(err).Warn("watch history append failed")
		}
	}

	s.invalidateDetail(ctx, videoID)
	s.emit(kafka.NewEngagementEvent(kafka.EventVideoViewed, videoID.Hex(), viewerID.Hex(), nil))
	return viewTotal, nil
}

func (s *VideoService) authorize(ctx context.Context, op string, videoID, callerID primitive.ObjectID) (*models.Video, error) {
	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("video lookup failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if video.Owner != callerID {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	return video, nil
}

func (s *VideoService) invalidateDetail(ctx context.Context, videoID primitive.ObjectID) {
	if s.cache != nil {
		s.cache.DeleteByPattern(ctx, cache.VideoDetailPattern(videoID.Hex()))
	}
}

func (s *VideoService) emit(event kafka.EngagementEvent) {
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
