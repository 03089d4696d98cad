package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourusername/video-sharing-platform/internal/models"
)

var ErrPlaylistNotFound = errors.New("playlist not found")

type PlaylistRepository struct {
	collection *mongo.Collection
}

func NewPlaylistRepository(db *mongo.Database) *PlaylistRepository {
	return &PlaylistRepository{
		collection: db.Collection("playlists"),
	}
}

func (r *PlaylistRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("owner_created_idx"),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	playlist.ID = primitive.NewObjectID()
	playlist.CreatedAt = time.Now()
	playlist.UpdatedAt = time.Now()
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, playlist)
	return err
}

func (r *PlaylistRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var playlist models.Playlist
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&playlist)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	return &playlist, nil
}

func (r *PlaylistRepository) FindByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(
		ctx,
		bson.M{"owner": ownerID},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var playlists []models.Playlist
	if err = cursor.All(ctx, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (r *PlaylistRepository) UpdateDetails(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var playlist models.Playlist
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name, "description": description, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&playlist)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	return &playlist, nil
}

func (r *PlaylistRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// AddVideo inserts the video into the playlist's set. $addToSet keeps the
// operation duplicate-safe.
func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var playlist models.Playlist
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": playlistID},
		bson.M{
			"$addToSet": bson.M{"videos": videoID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&playlist)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	return &playlist, nil
}

// RemoveVideo pulls the video from the playlist's set.
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID primitive.ObjectID) (*models.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var playlist models.Playlist
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": playlistID},
		bson.M{
			"$pull": bson.M{"videos": videoID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&playlist)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	return &playlist, nil
}
