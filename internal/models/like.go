package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubjectType identifies the entity a like attaches to.
type SubjectType string

const (
	SubjectVideo   SubjectType = "video"
	SubjectComment SubjectType = "comment"
	SubjectTweet   SubjectType = "tweet"
)

// Field returns the bson field a like stores its subject reference under.
func (t SubjectType) Field() string {
	return string(t)
}

// SubjectRef pairs a subject type with its document id.
type SubjectRef struct {
	Type SubjectType
	ID   primitive.ObjectID
}

// Like is a per-(subject, user) preference record. Exactly one of Video,
// Comment or Tweet is set. Liked=true is a like, Liked=false a dislike;
// no record at all means neutral. At most one record may exist per
// (subject, user) pair.
type Like struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Video     *primitive.ObjectID `bson:"video,omitempty" json:"video,omitempty"`
	Comment   *primitive.ObjectID `bson:"comment,omitempty" json:"comment,omitempty"`
	Tweet     *primitive.ObjectID `bson:"tweet,omitempty" json:"tweet,omitempty"`
	LikedBy   primitive.ObjectID  `bson:"liked_by" json:"liked_by"`
	Liked     bool                `bson:"liked" json:"liked"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// NewLike builds a like record for the given subject.
func NewLike(subject SubjectRef, userID primitive.ObjectID, liked bool) *Like {
	l := &Like{
		LikedBy:   userID,
		Liked:     liked,
		CreatedAt: time.Now(),
	}
	id := subject.ID
	switch subject.Type {
	case SubjectVideo:
		l.Video = &id
	case SubjectComment:
		l.Comment = &id
	case SubjectTweet:
		l.Tweet = &id
	}
	return l
}

// LikeStatus is returned after a toggle: the caller's resulting state plus
// fresh totals for the subject.
type LikeStatus struct {
	IsLiked       bool  `json:"isLiked"`
	IsDisLiked    bool  `json:"isDisLiked"`
	TotalLikes    int64 `json:"totalLikes"`
	TotalDisLikes int64 `json:"totalDisLikes"`
}
