package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video is a published or draft video document. VideoURL points at the
// streaming manifest on the media host, ThumbnailURL at the poster image.
type Video struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner        primitive.ObjectID `bson:"owner" json:"owner"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	VideoURL     string             `bson:"video_url" json:"video_url"`
	ThumbnailURL string             `bson:"thumbnail_url" json:"thumbnail_url"`
	Duration     float64            `bson:"duration" json:"duration"`
	Views        int64              `bson:"views" json:"views"`
	IsPublished  bool               `bson:"is_published" json:"is_published"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// VideoWithOwner is a video annotated with its owner's public fields,
// the shape produced by the owner lookup in every video read model.
type VideoWithOwner struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Owner        PublicUser         `bson:"owner" json:"owner"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	VideoURL     string             `bson:"video_url" json:"video_url"`
	ThumbnailURL string             `bson:"thumbnail_url" json:"thumbnail_url"`
	Duration     float64            `bson:"duration" json:"duration"`
	Views        int64              `bson:"views" json:"views"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// VideoDetail is the single-video read model with like/dislike rollups
// relative to the viewer.
type VideoDetail struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Owner         PublicUser         `bson:"owner" json:"owner"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	VideoURL      string             `bson:"video_url" json:"video_url"`
	ThumbnailURL  string             `bson:"thumbnail_url" json:"thumbnail_url"`
	Duration      float64            `bson:"duration" json:"duration"`
	Views         int64              `bson:"views" json:"views"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
	TotalLikes    int64              `bson:"total_likes" json:"totalLikes"`
	TotalDisLikes int64              `bson:"total_dislikes" json:"totalDisLikes"`
	IsLiked       bool               `bson:"is_liked" json:"isLiked"`
	IsDisLiked    bool               `bson:"is_disliked" json:"isDisLiked"`
}

// Paging is the metadata block returned alongside a listing page.
type Paging struct {
	TotalDocs   int64 `json:"totalDocs"`
	TotalPages  int64 `json:"totalPages"`
	Page        int64 `json:"page"`
	Limit       int64 `json:"limit"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// VideoPage is one page of the video listing view.
type VideoPage struct {
	Videos []VideoWithOwner `json:"videos"`
	Paging Paging           `json:"pagingInfo"`
}
