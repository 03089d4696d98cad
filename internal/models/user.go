package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the identity document. Username is stored lowercase; the password
// hash and refresh token never leave the server.
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username      string               `bson:"username" json:"username"`
	FullName      string               `bson:"fullname" json:"fullname"`
	Email         string               `bson:"email" json:"email"`
	PasswordHash  string               `bson:"password_hash" json:"-"`
	RefreshToken  string               `bson:"refresh_token,omitempty" json:"-"`
	AvatarURL     string               `bson:"avatar_url" json:"avatar_url"`
	CoverImageURL string               `bson:"cover_image_url,omitempty" json:"cover_image_url,omitempty"`
	WatchHistory  []primitive.ObjectID `bson:"watch_history,omitempty" json:"-"`
	CreatedAt     time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the owner projection joined into read models.
type PublicUser struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Username  string             `bson:"username" json:"username"`
	FullName  string             `bson:"fullname" json:"fullname"`
	AvatarURL string             `bson:"avatar_url" json:"avatar_url"`
}

// ChannelProfile is the denormalized channel view returned for
// GET /users/c/:username. Only whitelisted fields plus the three
// computed subscription fields.
type ChannelProfile struct {
	ID                primitive.ObjectID `bson:"_id" json:"id"`
	Username          string             `bson:"username" json:"username"`
	FullName          string             `bson:"fullname" json:"fullname"`
	Email             string             `bson:"email" json:"email"`
	AvatarURL         string             `bson:"avatar_url" json:"avatar_url"`
	CoverImageURL     string             `bson:"cover_image_url" json:"cover_image_url"`
	SubscriberCount   int64              `bson:"subscriber_count" json:"subscriberCount"`
	SubscribedToCount int64              `bson:"subscribed_to_count" json:"subscribedToCount"`
	IsSubscribed      bool               `bson:"is_subscribed" json:"isSubscribed"`
}
