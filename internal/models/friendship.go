package models

import (
	"time"
)

// FriendshipStatus represents the status of a friendship request.
type FriendshipStatus string

const (
	// FriendshipStatusPending indicates a pending friendship request.
	FriendshipStatusPending FriendshipStatus = "pending"
	// FriendshipStatusAccepted indicates an accepted friendship request.
	FriendshipStatusAccepted FriendshipStatus = "accepted"
	// FriendshipStatusRejected indicates a rejected friendship request.
	// Rejection is not terminal: a later request between the same pair
	// reopens the row rather than creating a second one.
	FriendshipStatusRejected FriendshipStatus = "rejected"
)

// Friendship is a directed request record between two users. A pair of users
// is "friends" iff a row exists between them with status accepted; which
// side originally sent the request is irrelevant once accepted.
//
// The composite unique index on (sender_id, receiver_id) is the final
// arbiter against duplicate rows for concurrent sends; the reverse direction
// is guarded by an application-level check before creation.
type Friendship struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	SenderID   uint             `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"sender_id"`
	ReceiverID uint             `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"receiver_id"`
	Status     FriendshipStatus `gorm:"type:varchar(20);default:'pending';index:idx_friendships_status" json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	// Relationships
	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// OtherParty returns the ID of the participant that is not userID.
func (f *Friendship) OtherParty(userID uint) uint {
	if f.SenderID == userID {
		return f.ReceiverID
	}
	return f.SenderID
}
