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

// PlaylistStore is the persistence surface for playlists.
type PlaylistStore interface {
	Create(ctx context.Context, playlist *models.Playlist) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error)
	FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Playlist, error)
	UpdateDetails(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Playlist, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error)
	RemoveVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error)
}

// VideoLookup resolves video existence for playlist membership changes.
type VideoLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
}

// PlaylistService applies the ownership-gated mutation pattern: fetch,
// NotFound when absent, Forbidden on owner mismatch, then mutate.
type PlaylistService struct {
	playlists PlaylistStore
	videos    VideoLookup
	logger    *logrus.Logger
}

func NewPlaylistService(playlists PlaylistStore, videos VideoLookup, logger *logrus.Logger) *PlaylistService {
	return &PlaylistService{
		playlists: playlists,
		videos:    videos,
		logger:    logger,
	}
}

func (s *PlaylistService) Create(ctx context.Context, ownerID primitive.ObjectID, name, description string) (*models.Playlist, error) {
	const op = "service/playlist/Create"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: name is required: %w", op, ErrInvalidInput)
	}

	playlist := &models.Playlist{
		Owner:       ownerID,
		Name:        name,
		Description: description,
	}
	if err := s.playlists.Create(ctx, playlist); err != nil {
		s.logger.WithError(err).Error("playlist create failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return playlist, nil
}

func (s *PlaylistService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	const op = "service/playlist/GetByID"

	playlist, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("playlist lookup failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return playlist, nil
}

func (s *PlaylistService) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Playlist, error) {
	const op = "service/playlist/ListByOwner"

	playlists, err := s.playlists.FindByOwner(ctx, ownerID)
	if err != nil {
		s.logger.WithError(err).Error("playlist list failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return playlists, nil
}

func (s *PlaylistService) Update(ctx context.Context, id, callerID primitive.ObjectID, name, description string) (*models.Playlist, error) {
	const op = "service/playlist/Update"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: name is required: %w", op, ErrInvalidInput)
	}

	if _, err := s.authorize(ctx, op, id, callerID); err != nil {
		return nil, err
	}

	playlist, err := s.playlists.UpdateDetails(ctx, id, name, description)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("playlist update failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, id, callerID primitive.ObjectID) error {
	const op = "service/playlist/Delete"

	if _, err := s.authorize(ctx, op, id, callerID); err != nil {
		return err
	}

	if err := s.playlists.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("playlist delete failed")
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return nil
}

// AddVideo inserts a video into the caller's playlist. The insert is
// duplicate-safe set semantics.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, callerID primitive.ObjectID) (*models.Playlist, error) {
	const op = "service/playlist/AddVideo"

	if _, err := s.authorize(ctx, op, playlistID, callerID); err != nil {
		return nil, err
	}

	if _, err := s.videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			return nil, fmt.Errorf("%s: no video found: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("video lookup failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	playlist, err := s.playlists.AddVideo(ctx, playlistID, videoID)
	if err != nil {
		s.logger.WithError(err).Error("playlist add video failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return playlist, nil
}

// RemoveVideo removes a video from the caller's playlist. Removing a video
// that is not a member fails with NotFound and leaves the set unchanged.
func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, callerID primitive.ObjectID) (*models.Playlist, error) {
	const op = "service/playlist/RemoveVideo"

	playlist, err := s.authorize(ctx, op, playlistID, callerID)
	if err != nil {
		return nil, err
	}

	if !playlist.Contains(videoID) {
		return nil, fmt.Errorf("%s: video not in playlist: %w", op, ErrNotFound)
	}

	updated, err := s.playlists.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		s.logger.WithError(err).Error("playlist remove video failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return updated, nil
}

// authorize fetches the playlist and enforces the ownership gate.
func (s *PlaylistService) authorize(ctx context.Context, op string, id, callerID primitive.ObjectID) (*models.Playlist, error) {
	playlist, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("playlist lookup failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if playlist.Owner != callerID {
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	return playlist, nil
}
