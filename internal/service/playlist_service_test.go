package service

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/video-sharing-platform/internal/models"
	"github.com/yourusername/video-sharing-platform/internal/repository"
)

type fakePlaylistStore struct {
	playlists map[primitive.ObjectID]*models.Playlist
}

func newFakePlaylistStore() *fakePlaylistStore {
	return &fakePlaylistStore{playlists: make(map[primitive.ObjectID]*models.Playlist)}
}

func (f *fakePlaylistStore) Create(_ context.Context, playlist *models.Playlist) error {
	playlist.ID = primitive.NewObjectID()
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}
	stored := *playlist
	f.playlists[playlist.ID] = &stored
	return nil
}

func (f *fakePlaylistStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	p, ok := f.playlists[id]
	if !ok {
		return nil, repository.ErrPlaylistNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePlaylistStore) FindByOwner(_ context.Context, ownerID primitive.ObjectID) ([]models.Playlist, error) {
	var out []models.Playlist
	for _, p := range f.playlists {
		if p.Owner == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePlaylistStore) UpdateDetails(_ context.Context, id primitive.ObjectID, name, description string) (*models.Playlist, error) {
	p, ok := f.playlists[id]
	if !ok {
		return nil, repository.ErrPlaylistNotFound
	}
	p.Name = name
	p.Description = description
	clone := *p
	return &clone, nil
}

func (f *fakePlaylistStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.playlists[id]; !ok {
		return repository.ErrPlaylistNotFound
	}
	delete(f.playlists, id)
	return nil
}

func (f *fakePlaylistStore) AddVideo(_ context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error) {
	p, ok := f.playlists[playlistID]
	if !ok {
		return nil, repository.ErrPlaylistNotFound
	}
	if !p.Contains(videoID) {
		p.Videos = append(p.Videos, videoID)
	}
	clone := *p
	return &clone, nil
}

func (f *fakePlaylistStore) RemoveVideo(_ context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error) {
	p, ok := f.playlists[playlistID]
	if !ok {
		return nil, repository.ErrPlaylistNotFound
	}
	kept := p.Videos[:0]
	for _, v := range p.Videos {
		if v != videoID {
			kept = append(kept, v)
		}
	}
	p.Videos = kept
	clone := *p
	return &clone, nil
}

type fakeVideoLookup struct {
	existing map[primitive.ObjectID]bool
}

func (f *fakeVideoLookup) FindByID(_ context.Context, id primitive.ObjectID) (*models.Video, error) {
	if !f.existing[id] {
		return nil, repository.ErrVideoNotFound
	}
	return &models.Video{ID: id}, nil
}

func newPlaylistFixture(t *testing.T) (*PlaylistService, *fakePlaylistStore, *fakeVideoLookup, primitive.ObjectID) {
	t.Helper()

	store := newFakePlaylistStore()
	videos := &fakeVideoLookup{existing: make(map[primitive.ObjectID]bool)}
	owner := primitive.NewObjectID()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewPlaylistService(store, videos, logger), store, videos, owner
}

func TestPlaylistCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with empty video set", func(t *testing.T) {
		svc, _, _, owner := newPlaylistFixture(t)

		playlist, err := svc.Create(ctx, owner, "Watch later", "queue")
		require.NoError(t, err)

		assert.Equal(t, owner, playlist.Owner)
		assert.NotNil(t, playlist.Videos)
		assert.Empty(t, playlist.Videos)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		svc, _, _, owner := newPlaylistFixture(t)

		_, err := svc.Create(ctx, owner, "   ", "")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestPlaylistOwnershipGate(t *testing.T) {
	ctx := context.Background()
	svc, _, _, owner := newPlaylistFixture(t)
	stranger := primitive.NewObjectID()

	playlist, err := svc.Create(ctx, owner, "Mine", "")
	require.NoError(t, err)

	t.Run("update by non-owner is forbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, playlist.ID, stranger, "Stolen", "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("delete by non-owner is forbidden", func(t *testing.T) {
		err := svc.Delete(ctx, playlist.ID, stranger)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing playlist is not found before forbidden", func(t *testing.T) {
		_, err := svc.Update(ctx, primitive.NewObjectID(), stranger, "x", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("owner may update", func(t *testing.T) {
		updated, err := svc.Update(ctx, playlist.ID, owner, "Renamed", "desc")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
	})
}

func TestPlaylistAddVideo(t *testing.T) {
	ctx := context.Background()
	svc, _, videos, owner := newPlaylistFixture(t)

	playlist, err := svc.Create(ctx, owner, "Mix", "")
	require.NoError(t, err)

	videoID := primitive.NewObjectID()
	videos.existing[videoID] = true

	t.Run("add is duplicate-safe", func(t *testing.T) {
		updated, err := svc.AddVideo(ctx, playlist.ID, videoID, owner)
		require.NoError(t, err)
		assert.Len(t, updated.Videos, 1)

		updated, err = svc.AddVideo(ctx, playlist.ID, videoID, owner)
		require.NoError(t, err)
		assert.Len(t, updated.Videos, 1)
	})

	t.Run("missing video is not found", func(t *testing.T) {
		_, err := svc.AddVideo(ctx, playlist.ID, primitive.NewObjectID(), owner)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("non-owner may not add", func(t *testing.T) {
		_, err := svc.AddVideo(ctx, playlist.ID, videoID, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestPlaylistRemoveVideo(t *testing.T) {
	ctx := context.Background()
	svc, _, videos, owner := newPlaylistFixture(t)

	playlist, err := svc.Create(ctx, owner, "Mix", "")
	require.NoError(t, err)

	videoID := primitive.NewObjectID()
	videos.existing[videoID] = true
	_, err = svc.AddVideo(ctx, playlist.ID, videoID, owner)
	require.NoError(t, err)

	t.Run("removing a non-member fails and leaves the set unchanged", func(t *testing.T) {
		_, err := svc.RemoveVideo(ctx, playlist.ID, primitive.NewObjectID(), owner)
		assert.ErrorIs(t, err, ErrNotFound)

		current, err := svc.GetByID(ctx, playlist.ID)
		require.NoError(t, err)
		assert.Len(t, current.Videos, 1)
	})

	t.Run("add then remove round-trips to the original set", func(t *testing.T) {
		updated, err := svc.RemoveVideo(ctx, playlist.ID, videoID, owner)
		require.NoError(t, err)
		assert.Empty(t, updated.Videos)
	})
}
