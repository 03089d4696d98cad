package views

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yourusername/video-sharing-platform/internal/models"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrVideoNotFound   = errors.New("video not found or not published")
	ErrUserNotFound    = errors.New("user not found")
)

// Composer assembles denormalized read models by joining across the
// content-store collections. It never exposes write-side internals: owner
// references come back as public field projections, credentials are never
// selected.
type Composer struct {
	users         *mongo.Collection
	videos        *mongo.Collection
	likes         *mongo.Collection
	subscriptions *mongo.Collection
}

func NewComposer(db *mongo.Database) *Composer {
	return &Composer{
		users:         db.Collection("users"),
		videos:        db.Collection("videos"),
		likes:         db.Collection("likes"),
		subscriptions: db.Collection("subscriptions"),
	}
}

// ChannelProfile returns the channel view for a username, with subscription
// counts and the viewer's subscription flag. Pass primitive.NilObjectID as
// viewerID for anonymous viewers.
func (c *Composer) ChannelProfile(ctx context.Context, username string, viewerID primitive.ObjectID) (*models.ChannelProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	username = strings.ToLower(strings.TrimSpace(username))

	cursor, err := c.users.Aggregate(ctx, ChannelProfilePipeline(username, viewerID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.ChannelProfile
	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrChannelNotFound
	}
	return &profiles[0], nil
}

// VideoDetail returns the published video with like/dislike rollups and the
// viewer's flags.
func (c *Composer) VideoDetail(ctx context.Context, videoID, viewerID primitive.ObjectID) (*models.VideoDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := c.videos.Aggregate(ctx, VideoDetailPipeline(videoID, viewerID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var details []models.VideoDetail
	if err = cursor.All(ctx, &details); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrVideoNotFound
	}
	return &details[0], nil
}

// watchHistoryDoc is the intermediate decode target for the history join.
type watchHistoryDoc struct {
	WatchHistory []primitive.ObjectID    `bson:"watch_history"`
	Videos       []models.VideoWithOwner `bson:"videos"`
}

// WatchHistory resolves the user's watch history to videos annotated with
// owner public fields, in stored history order.
func (c *Composer) WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]models.VideoWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := c.users.Aggregate(ctx, WatchHistoryPipeline(userID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []watchHistoryDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrUserNotFound
	}

	return orderByHistory(docs[0].WatchHistory, docs[0].Videos), nil
}

// orderByHistory restores stored history order over the joined videos.
// Repeated references resolve to the same video document each time;
// unpublished or deleted references are dropped.
func orderByHistory(history []primitive.ObjectID, videos []models.VideoWithOwner) []models.VideoWithOwner {
	byID := make(map[primitive.ObjectID]models.VideoWithOwner, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	ordered := make([]models.VideoWithOwner, 0, len(history))
	for _, id := range history {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered
}

// LikedVideos returns the caller's liked-videos feed: published videos the
// user has liked, each with owner public fields.
func (c *Composer) LikedVideos(ctx context.Context, userID primitive.ObjectID) ([]models.VideoWithOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := c.likes.Aggregate(ctx, LikedVideosPipeline(userID))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []struct {
		Videos []models.VideoWithOwner `bson:"videos"`
	}
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return []models.VideoWithOwner{}, nil
	}
	return groups[0].Videos, nil
}

// ListVideos returns one page of the video listing view plus paging
// metadata.
func (c *Composer) ListVideos(ctx context.Context, q ListQuery) (*models.VideoPage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := c.videos.Aggregate(ctx, ListVideosPipeline(q))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	videos := []models.VideoWithOwner{}
	if err = cursor.All(ctx, &videos); err != nil {
		return nil, err
	}

	total, err := c.videos.CountDocuments(ctx, q.Filter())
	if err != nil {
		return nil, err
	}

	return &models.VideoPage{
		Videos: videos,
		Paging: NewPaging(total, q.Page, q.Limit),
	}, nil
}

// NewPaging computes the paging metadata block for a listing page.
func NewPaging(total, page, limit int64) models.Paging {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return models.Paging{
		TotalDocs:   total,
		TotalPages:  totalPages,
		Page:        page,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
