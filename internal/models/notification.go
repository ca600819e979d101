package models

import (
	"time"
)

// NotificationType identifies the social event that produced a notification.
type NotificationType string

const (
	// NotificationFriendRequest is sent to the receiver of a new friend request.
	NotificationFriendRequest NotificationType = "friend_request"
	// NotificationFriendAccepted is sent to the original sender when their
	// request is accepted. Rejection produces no notification.
	NotificationFriendAccepted NotificationType = "friend_accepted"
	// NotificationHungryStatus announces the onset of a friend's hunger.
	NotificationHungryStatus NotificationType = "hungry_status"
	// NotificationNewPost announces a friend's new food picture.
	NotificationNewPost NotificationType = "new_post"
	// NotificationMessage announces a new direct message.
	NotificationMessage NotificationType = "message"
)

// Notification is a durable per-recipient record of a social event. Rows are
// created exclusively by the notification service and are never deleted in
// normal flow; only the read flag is mutated afterwards.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"notification_type"`
	Content   string           `gorm:"type:text;not null" json:"content"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
