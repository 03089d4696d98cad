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
	"github.com/yourusername/video-sharing-platform/internal/views"
)

type CommentService struct {
	comments *repository.CommentRepository
	videos   *repository.VideoRepository
	logger   *logrus.Logger
}

func NewCommentService(comments *repository.CommentRepository, videos *repository.VideoRepository, logger *logrus.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		videos:   videos,
		logger:   logger,
	}
}

// Add creates a comment on an existing video.
func (s *CommentService) Add(ctx context.Context, videoID, ownerID primitive.ObjectID, content string) (*models.Comment, error) {
	const op = "service/comment/Add"

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%s: content is required: %w", op, ErrInvalidInput)
	}

	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, fmt.Errorf("%s: no video found: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("video lookup failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	comment := &models.Comment{
		Content: content,
		Video:   videoID,
		Owner:   ownerID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.WithError(err).Error("comment create failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return comment, nil
}

// ListByVideo returns one page of a video's comments, newest first.
func (s *CommentService) ListByVideo(ctx context.Context, videoID primitive.ObjectID, page, limit int64) ([]models.CommentWithOwner, *models.Paging, error) {
	const op = "service/comment/ListByVideo"

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, nil, fmt.Errorf("%s: no video found: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("video lookup failed")
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	comments, total, err := s.comments.FindByVideo(ctx, videoID, page, limit)
	if err != nil {
		s.logger.WithError(err).Error("comment list failed")
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if comments == nil {
		comments = []models.CommentWithOwner{}
	}

	paging := views.NewPaging(total, page, limit)
	return comments, &paging, nil
}

func (s *CommentService) Update(ctx context.Context, id, callerID primitive.ObjectID, content string) (*models.Comment, error) {
	const op = "service/comment/Update"

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%s: content is required: %w", op, ErrInvalidInput)
	}

	if err := s.authorize(ctx, op, id, callerID); err != nil {
		return nil, err
	}

	comment, err := s.comments.UpdateContent(ctx, id, content)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("comment update failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, id, callerID primitive.ObjectID) error {
	const op = "service/comment/Delete"

	if err := s.authorize(ctx, op, id, callerID); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("comment delete failed")
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return nil
}

func (s *CommentService) authorize(ctx context.Context, op string, id, callerID primitive.ObjectID) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("comment lookup failed")
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if comment.Owner != callerID {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	return nil
}
