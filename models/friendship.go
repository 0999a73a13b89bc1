package models

import "time"

const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusDeclined = "declined"
)

// FriendRequest is a directional proposal between two profiles. At most
// one pending request may exist per unordered pair; terminal requests are
// never re-opened.
type FriendRequest struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Status     string    `json:"status"` // pending, accepted, declined
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type FriendRequestWithSender struct {
	FriendRequest
	Sender ProfileSummary `json:"sender"`
}

// Friendship is one orientation of an accepted connection. Acceptance
// writes both orientations, so listing by user_id alone is complete.
type Friendship struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

type FriendshipWithProfile struct {
	Friendship
	Friend ProfileSummary `json:"friend"`
}
