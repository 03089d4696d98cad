package kafka

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventVideoPublished EventType = "video.published"
	EventVideoViewed    EventType = "video.viewed"
	EventVideoDeleted   EventType = "video.deleted"
	EventLikeToggled    EventType = "like.toggled"
	EventSubscribed     EventType = "channel.subscribed"
	EventUnsubscribed   EventType = "channel.unsubscribed"
)

// EngagementEvent is the single event envelope for the platform's activity
// stream. SubjectID is the video/comment/tweet/channel the action touched.
type EngagementEvent struct {
	EventID   string            `json:"event_id"` // UUID for idempotency
	Type      EventType         `json:"type"`
	SubjectID string            `json:"subject_id"`
	UserID    string            `json:"user_id"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewEngagementEvent builds an event with a fresh idempotency id.
func NewEngagementEvent(eventType EventType, subjectID, userID string, metadata map[string]string) EngagementEvent {
	return EngagementEvent{
		EventID:   uuid.New().String(),
		Type:      eventType,
		SubjectID: subjectID,
		UserID:    userID,
		Metadata:  metadata,
		Timestamp: time.Now(),
	}
}
