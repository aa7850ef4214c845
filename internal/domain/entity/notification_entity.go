package entity

import "time"

// Notification event types recognized by the sink and the realtime relay.
const (
	FollowRequestEvent   = "FOLLOW_REQUEST_EVENT"
	FollowResponseEvent  = "FOLLOW_RESPONSE_EVENT"
	CourseSubscribeEvent = "COURSE_SUBSCRIBE_EVENT"
)

// KnownNotificationType reports whether t is one of the event types the
// platform emits. The realtime relay drops envelopes with unknown types.
func KnownNotificationType(t string) bool {
	switch t {
	case FollowRequestEvent, FollowResponseEvent, CourseSubscribeEvent:
		return true
	}
	return false
}

// Notification is one append-only sink entry addressed to ReceiverID.
// Entries are never deleted; MarkRead is the only mutable field.
type Notification struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	SenderID   string    `json:"sender"`
	ReceiverID string    `json:"receiver"`
	Message    string    `json:"message"`
	RedirectID string    `json:"redirectId,omitempty"`
	MarkRead   bool      `json:"markRead"`
	CreatedAt  time.Time `json:"created_at"`

	// Sender profile, populated on reads for the inbox view.
	Sender *UserRef `json:"sender_info,omitempty"`
}
