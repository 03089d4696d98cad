package views

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ownerPublicProjection is the whitelisted owner field set joined into
// every video read model.
var ownerPublicProjection = bson.M{"username": 1, "fullname": 1, "avatar_url": 1}

// ownerLookupStages joins a one-to-one owner reference and flattens it to a
// single embedded document (left-outer-join + unwind).
func ownerLookupStages() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "owner",
			"foreignField": "_id",
			"as":           "owner",
			"pipeline": []bson.M{
				{"$project": ownerPublicProjection},
			},
		}}},
		{{Key: "$unwind", Value: "$owner"}},
	}
}

// ChannelProfilePipeline builds the channel profile read model: the user
// document joined with both directions of the subscription edge set plus
// the viewer's own membership flag.
func ChannelProfilePipeline(username string, viewerID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"username": username}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "subscriptions",
			"localField":   "_id",
			"foreignField": "channel",
			"as":           "subscribers",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "subscriptions",
			"localField":   "_id",
			"foreignField": "subscriber",
			"as":           "subscribed_to",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"subscriber_count":    bson.M{"$size": "$subscribers"},
			"subscribed_to_count": bson.M{"$size": "$subscribed_to"},
			"is_subscribed": bson.M{"$cond": bson.M{
				"if":   bson.M{"$in": bson.A{viewerID, "$subscribers.subscriber"}},
				"then": true,
				"else": false,
			}},
		}}},
		{{Key: "$project", Value: bson.M{
			"username":            1,
			"fullname":            1,
			"email":               1,
			"avatar_url":          1,
			"cover_image_url":     1,
			"subscriber_count":    1,
			"subscribed_to_count": 1,
			"is_subscribed":       1,
		}}},
	}
}

// VideoDetailPipeline builds the single-video read model: like and dislike
// owner sets gathered through two lookups on the likes collection, then
// flattened into totals and per-viewer flags, plus the owner join.
func VideoDetailPipeline(videoID, viewerID primitive.ObjectID) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"_id":          videoID,
			"is_published": true,
		}}},
		// all like owners
		{{Key: "$lookup", Value: bson.M{
			"from":         "likes",
			"localField":   "_id",
			"foreignField": "video",
			"as":           "likes",
			"pipeline": []bson.M{
				{"$match": bson.M{"liked": true}},
				{"$group": bson.M{
					"_id":         "$liked",
					"like_owners": bson.M{"$push": "$liked_by"},
				}},
			},
		}}},
		// all dislike owners
		{{Key: "$lookup", Value: bson.M{
			"from":         "likes",
			"localField":   "_id",
			"foreignField": "video",
			"as":           "dislikes",
			"pipeline": []bson.M{
				{"$match": bson.M{"liked": false}},
				{"$group": bson.M{
					"_id":            "$liked",
					"dislike_owners": bson.M{"$push": "$liked_by"},
				}},
			},
		}}},
		// flatten the one-element group arrays into plain owner id arrays
		{{Key: "$addFields", Value: bson.M{
			"likes": bson.M{"$cond": bson.M{
				"if":   bson.M{"$gt": bson.A{bson.M{"$size": "$likes"}, 0}},
				"then": bson.M{"$first": "$likes.like_owners"},
				"else": bson.A{},
			}},
			"dislikes": bson.M{"$cond": bson.M{
				"if":   bson.M{"$gt": bson.A{bson.M{"$size": "$dislikes"}, 0}},
				"then": bson.M{"$first": "$dislikes.dislike_owners"},
				"else": bson.A{},
			}},
		}}},
	}

	pipeline = append(pipeline, ownerLookupStages()...)

	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.M{
		"video_url":      1,
		"thumbnail_url":  1,
		"title":          1,
		"description":    1,
		"duration":       1,
		"views":          1,
		"owner":          1,
		"created_at":     1,
		"updated_at":     1,
		"total_likes":    bson.M{"$size": "$likes"},
		"total_dislikes": bson.M{"$size": "$dislikes"},
		"is_liked": bson.M{"$cond": bson.M{
			"if":   bson.M{"$in": bson.A{viewerID, "$likes"}},
			"then": true,
			"else": false,
		}},
		"is_disliked": bson.M{"$cond": bson.M{
			"if":   bson.M{"$in": bson.A{viewerID, "$dislikes"}},
			"then": true,
			"else": false,
		}},
	}}})

	return pipeline
}

// WatchHistoryPipeline resolves a user's watch history references to video
// documents with owner public fields. Order is restored from the stored
// reference list after execution since $lookup does not preserve it.
func WatchHistoryPipeline(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": userID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "videos",
			"localField":   "watch_history",
			"foreignField": "_id",
			"as":           "videos",
			"pipeline": []bson.M{
				{"$match": bson.M{"is_published": true}},
				{"$lookup": bson.M{
					"from":         "users",
					"localField":   "owner",
					"foreignField": "_id",
					"as":           "owner",
					"pipeline": []bson.M{
						{"$project": ownerPublicProjection},
					},
				}},
				{"$unwind": "$owner"},
			},
		}}},
		{{Key: "$project", Value: bson.M{
			"watch_history": 1,
			"videos":        1,
		}}},
	}
}

// LikedVideosPipeline builds the liked-videos feed: the caller's positive
// like records joined to their published videos (one-to-many gathered back
// with a group stage).
func LikedVideosPipeline(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"liked_by": userID,
			"liked":    true,
			"video":    bson.M{"$ne": nil},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "videos",
			"localField":   "video",
			"foreignField": "_id",
			"as":           "video",
			"pipeline": []bson.M{
				{"$lookup": bson.M{
					"from":         "users",
					"localField":   "owner",
					"foreignField": "_id",
					"as":           "owner",
					"pipeline": []bson.M{
						{"$project": ownerPublicProjection},
					},
				}},
				{"$unwind": "$owner"},
			},
		}}},
		{{Key: "$unwind", Value: "$video"}},
		{{Key: "$match", Value: bson.M{"video.is_published": true}}},
		{{Key: "$sort", Value: bson.M{"created_at": -1}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$liked_by",
			"videos": bson.M{"$push": "$video"},
		}}},
	}
}

// ListQuery describes one page of the video listing view.
type ListQuery struct {
	Page      int64
	Limit     int64
	Search    string
	SortBy    string
	SortOrder int // 1 ascending, -1 descending
	OwnerID   *primitive.ObjectID
}

// Filter is the match document shared by the pipeline and the total count.
func (q ListQuery) Filter() bson.M {
	filter := bson.M{"is_published": true}
	if q.OwnerID != nil {
		filter["owner"] = *q.OwnerID
	}
	return filter
}

// matchCountField counts how many search tokens appear as words in the
// given field, as a derived per-document field.
func matchCountField(tokens []string, field string) bson.M {
	return bson.M{"$size": bson.M{"$filter": bson.M{
		"input": tokens,
		"as":    "word",
		"cond": bson.M{"$in": bson.A{
			"$$word",
			bson.M{"$split": bson.A{bson.M{"$toLower": field}, " "}},
		}},
	}}}
}

// ListVideosPipeline builds the listing view. With search active the page
// is ranked by title word matches; otherwise by the explicit sort pair or
// creation time descending.
func ListVideosPipeline(q ListQuery) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: q.Filter()}},
	}

	sort := bson.D{}
	tokens := Tokenize(q.Search)
	if len(tokens) > 0 {
		pipeline = append(pipeline,
			bson.D{{Key: "$addFields", Value: bson.M{
				"title_match_word_count": matchCountField(tokens, "$title"),
			}}},
			bson.D{{Key: "$addFields", Value: bson.M{
				"description_match_word_count": matchCountField(tokens, "$description"),
			}}},
		)
		sort = append(sort, bson.E{Key: "title_match_word_count", Value: -1})
	}

	if q.SortBy != "" {
		order := q.SortOrder
		if order != 1 && order != -1 {
			order = -1
		}
		sort = append(sort, bson.E{Key: q.SortBy, Value: order})
	} else if len(tokens) == 0 {
		sort = append(sort, bson.E{Key: "created_at", Value: -1})
	}

	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
	pipeline = append(pipeline, ownerLookupStages()...)
	pipeline = append(pipeline,
		bson.D{{Key: "$skip", Value: (q.Page - 1) * q.Limit}},
		bson.D{{Key: "$limit", Value: q.Limit}},
	)

	return pipeline
}
