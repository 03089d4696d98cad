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

type fakeLikeStore struct {
	records map[primitive.ObjectID]*models.Like
	// when set, the next Insert fails with ErrDuplicateLike once
	duplicateOnce bool
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{records: make(map[primitive.ObjectID]*models.Like)}
}

func (f *fakeLikeStore) subjectMatches(l *models.Like, subject models.SubjectRef) bool {
	switch subject.Type {
	case models.SubjectVideo:
		return l.Video != nil && *l.Video == subject.ID
	case models.SubjectComment:
		return l.Comment != nil && *l.Comment == subject.ID
	case models.SubjectTweet:
		return l.Tweet != nil && *l.Tweet == subject.ID
	}
	return false
}

func (f *fakeLikeStore) FindBySubjectAndUser(_ context.Context, subject models.SubjectRef, userID primitive.ObjectID) (*models.Like, error) {
	for _, l := range f.records {
		if l.LikedBy == userID && f.subjectMatches(l, subject) {
			clone := *l
			return &clone, nil
		}
	}
	return nil, repository.ErrLikeNotFound
}

func (f *fakeLikeStore) Insert(_ context.Context, like *models.Like) error {
	if f.duplicateOnce {
		f.duplicateOnce = false
		return repository.ErrDuplicateLike
	}
	like.ID = primitive.NewObjectID()
	stored := *like
	f.records[like.ID] = &stored
	return nil
}

func (f *fakeLikeStore) SetLiked(_ context.Context, id primitive.ObjectID, liked bool) error {
	l, ok := f.records[id]
	if !ok {
		return repository.ErrLikeNotFound
	}
	l.Liked = liked
	return nil
}

func (f *fakeLikeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.records[id]; !ok {
		return repository.ErrLikeNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeLikeStore) CountBySubject(_ context.Context, subject models.SubjectRef, liked bool) (int64, error) {
	var n int64
	for _, l := range f.records {
		if l.Liked == liked && f.subjectMatches(l, subject) {
			n++
		}
	}
	return n, nil
}

type fakeSubjectStore struct {
	existing map[primitive.ObjectID]bool
}

func (f *fakeSubjectStore) Exists(_ context.Context, subject models.SubjectRef) (bool, error) {
	return f.existing[subject.ID], nil
}

type fakeEngagementRecorder struct {
	likeToggles []string
}

func (f *fakeEngagementRecorder) RecordLikeToggle(subjectType, result string) {
	f.likeToggles = append(f.likeToggles, subjectType+"/"+result)
}

func (f *fakeEngagementRecorder) RecordSubscriptionToggle(string) {}
func (f *fakeEngagementRecorder) RecordVideoView()                {}
func (f *fakeEngagementRecorder) RecordVideoPublished()           {}
func (f *fakeEngagementRecorder) RecordCacheHit(string)           {}
func (f *fakeEngagementRecorder) RecordCacheMiss(string)          {}
func (f *fakeEngagementRecorder) RecordEventPublishFailure()      {}

func newToggleFixture(t *testing.T) (*LikeService, *fakeLikeStore, models.SubjectRef, primitive.ObjectID) {
	t.Helper()

	store := newFakeLikeStore()
	subject := models.SubjectRef{Type: models.SubjectVideo, ID: primitive.NewObjectID()}
	subjects := &fakeSubjectStore{existing: map[primitive.ObjectID]bool{subject.ID: true}}
	userID := primitive.NewObjectID()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := NewLikeService(store, subjects, nil, nil, nil, nil, logger)
	return svc, store, subject, userID
}

func TestToggleFromNeutral(t *testing.T) {
	ctx := context.Background()

	t.Run("like creates a liked record", func(t *testing.T) {
		svc, store, subject, userID := newToggleFixture(t)

		status, err := svc.Toggle(ctx, subject, userID, true)
		require.NoError(t, err)

		assert.True(t, status.IsLiked)
		assert.False(t, status.IsDisLiked)
		assert.Equal(t, int64(1), status.TotalLikes)
		assert.Equal(t, int64(0), status.TotalDisLikes)
		assert.Len(t, store.records, 1)
	})

	t.Run("dislike creates a disliked record", func(t *testing.T) {
		svc, store, subject, userID := newToggleFixture(t)

		status, err := svc.Toggle(ctx, subject, userID, false)
		require.NoError(t, err)

		assert.False(t, status.IsLiked)
		assert.True(t, status.IsDisLiked)
		assert.Equal(t, int64(0), status.TotalLikes)
		assert.Equal(t, int64(1), status.TotalDisLikes)
		assert.Len(t, store.records, 1)
	})
}

func TestToggleRepeatReturnsToNeutral(t *testing.T) {
	ctx := context.Background()

	t.Run("like then like deletes the record", func(t *testing.T) {
		svc, store, subject, userID := newToggleFixture(t)

		_, err := svc.Toggle(ctx, subject, userID, true)
		require.NoError(t, err)

		status, err := svc.Toggle(ctx, subject, userID, true)
		require.NoError(t, err)

		assert.False(t, status.IsLiked)
		assert.False(t, status.IsDisLiked)
		assert.Equal(t, int64(0), status.TotalLikes)
		assert.Equal(t, int64(0), status.TotalDisLikes)
		assert.Empty(t, store.records)
	})

	t.Run("dislike then dislike deletes the record", func(t *testing.T) {
		svc, store, subject, userID := newToggleFixture(t)

		_, err := svc.Toggle(ctx, subject, userID, false)
		require.NoError(t, err)

		status, err := svc.Toggle(ctx, subject, userID, false)
		require.NoError(t, err)

		assert.False(t, status.IsLiked)
		assert.False(t, status.IsDisLiked)
		assert.Empty(t, store.records)
	})
}

func TestToggleFlipsPolarityInPlace(t *testing.T) {
	ctx := context.Background()

	t.Run("liked then dislike", func(t *testing.T) {
		svc, store, subject, userID := newToggleFixture(t)

		_, err := svc.Toggle(ctx, subject, userID, true)
		require.NoError(t, err)

		status, err := svc.Toggle(ctx, subject, userID, false)
		require.NoError(t, err)

		assert.False(t, status.IsLiked)
		assert.True(t, status.IsDisLiked)
		assert.Equal(t, int64(0), status.TotalLikes)
		assert.Equal(t, int64(1), status.TotalDisLikes)
		// the record flipped, it was not recreated
		assert.Len(t, store.records, 1)
	})

	t.Run("disliked then like", func(t *testing.T) {
		svc, store, subject, userID := newToggleFixture(t)

		_, err := svc.Toggle(ctx, subject, userID, false)
		require.NoError(t, err)

		status, err := svc.Toggle(ctx, subject, userID, true)
		require.NoError(t, err)

		assert.True(t, status.IsLiked)
		assert.False(t, status.IsDisLiked)
		assert.Len(t, store.records, 1)
	})
}

func TestToggleAtMostOneRecordPerUser(t *testing.T) {
	ctx := context.Background()
	svc, store, subject, userID := newToggleFixture(t)

	// arbitrary toggle sequence never leaves more than one record
	for _, wantLike := range []bool{true, false, false, true, true, false} {
		_, err := svc.Toggle(ctx, subject, userID, wantLike)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(store.records), 1)
	}
}

func TestToggleSubjectMissing(t *testing.T) {
	ctx := context.Background()
	svc, _, _, userID := newToggleFixture(t)

	missing := models.SubjectRef{Type: models.SubjectComment, ID: primitive.NewObjectID()}
	_, err := svc.Toggle(ctx, missing, userID, true)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleRetriesLostInsertRace(t *testing.T) {
	ctx := context.Background()
	svc, store, subject, userID := newToggleFixture(t)

	// losing the unique-index race surfaces a duplicate error once; the
	// retry re-reads and still converges
	store.duplicateOnce = true

	status, err := svc.Toggle(ctx, subject, userID, true)
	require.NoError(t, err)

	assert.True(t, status.IsLiked)
	assert.Len(t, store.records, 1)
}

func TestToggleRecordsOutcomes(t *testing.T) {
	ctx := context.Background()

	store := newFakeLikeStore()
	subject := models.SubjectRef{Type: models.SubjectVideo, ID: primitive.NewObjectID()}
	subjects := &fakeSubjectStore{existing: map[primitive.ObjectID]bool{subject.ID: true}}
	recorder := &fakeEngagementRecorder{}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := NewLikeService(store, subjects, nil, nil, nil, recorder, logger)
	userID := primitive.NewObjectID()

	_, err := svc.Toggle(ctx, subject, userID, true)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, subject, userID, false)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, subject, userID, false)
	require.NoError(t, err)

	// every transition lands in the counter with its resulting state
	assert.Equal(t, []string{"video/liked", "video/disliked", "video/neutral"}, recorder.likeToggles)
}

func TestToggleIndependentUsers(t *testing.T) {
	ctx := context.Background()
	svc, _, subject, userA := newToggleFixture(t)
	userB := primitive.NewObjectID()

	_, err := svc.Toggle(ctx, subject, userA, true)
	require.NoError(t, err)

	status, err := svc.Toggle(ctx, subject, userB, false)
	require.NoError(t, err)

	// userB's record does not disturb userA's like
	assert.Equal(t, int64(1), status.TotalLikes)
	assert.Equal(t, int64(1), status.TotalDisLikes)
	assert.False(t, status.IsLiked)
	assert.True(t, status.IsDisLiked)
}
