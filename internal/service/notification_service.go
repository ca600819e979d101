// Package service contains the business logic of the application.
package service

import (
	"context"
	"log/slog"

	"muckd/internal/middleware"
	"muckd/internal/models"
	"muckd/internal/notifications"
	"muckd/internal/observability"
	"muckd/internal/repository"
)

// NotificationService persists notifications and fans out social events to
// friends. Real-time delivery over Redis pub/sub is best-effort; the durable
// row is the source of truth.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	friendshipRepo   repository.FriendshipRepository
	notifier         *notifications.Notifier
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	friendshipRepo repository.FriendshipRepository,
	notifier *notifications.Notifier,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		friendshipRepo:   friendshipRepo,
		notifier:         notifier,
	}
}

// Notify stores a notification for a single recipient and publishes it to
// their channel.
func (s *NotificationService) Notify(ctx context.Context, userID uint, kind models.NotificationType, content string, actorID uint) error {
	notification := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Content: content,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		observability.NotificationWriteFailures.WithLabelValues(string(kind)).Inc()
		return err
	}

	if err := s.notifier.PublishEvent(ctx, userID, notifications.Event{
		Type:    kind,
		Content: content,
		ActorID: actorID,
	}); err != nil {
		// Delivery is best-effort; the durable row already exists.
		middleware.Logger.WarnContext(ctx, "notification publish failed",
			slog.Any("user_id", userID),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}

	observability.NotificationsFanned.WithLabelValues(string(kind)).Inc()
	return nil
}

// NotifyFriends fans a social event out to every accepted friend of the
// actor. The content for each recipient comes from render, so callers can
// personalize per recipient. Returns the number of friends actually notified.
//
// Delivery is best-effort per recipient: the batch write is retried row by
// row on failure, failed rows are logged and counted, and the fan-out never
// returns an error for them. Only the friends lookup itself can fail.
func (s *NotificationService) NotifyFriends(ctx context.Context, actor *models.User, kind models.NotificationType, render func(friend models.User) string) (int, error) {
	friends, err := s.friendshipRepo.GetFriends(ctx, actor.ID)
	if err != nil {
		return 0, err
	}
	if len(friends) == 0 {
		return 0, nil
	}

	batch := make([]models.Notification, 0, len(friends))
	for _, friend := range friends {
		batch = append(batch, models.Notification{
			UserID:  friend.ID,
			Type:    kind,
			Content: render(friend),
		})
	}

	written := batch
	if err := s.notificationRepo.CreateBatch(ctx, batch); err != nil {
		written = written[:0]
		for i := range batch {
			n := batch[i]
			if createErr := s.notificationRepo.Create(ctx, &n); createErr != nil {
				observability.NotificationWriteFailures.WithLabelValues(string(kind)).Inc()
				middleware.Logger.WarnContext(ctx, "notification write failed",
					slog.Any("user_id", n.UserID),
					slog.String("kind", string(kind)),
					slog.String("error", createErr.Error()),
				)
				continue
			}
			written = append(written, n)
		}
	}

	for _, n := range written {
		if err := s.notifier.PublishEvent(ctx, n.UserID, notifications.Event{
			Type:    kind,
			Content: n.Content,
			ActorID: actor.ID,
		}); err != nil {
			middleware.Logger.WarnContext(ctx, "notification publish failed",
				slog.Any("user_id", n.UserID),
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()),
			)
		}
	}

	observability.NotificationsFanned.WithLabelValues(string(kind)).Add(float64(len(written)))
	return len(written), nil
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.notificationRepo.ListForUser(ctx, userID, limit, offset)
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks every unread notification for the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID uint) error {
	return s.notificationRepo.Delete(ctx, notificationID, userID)
}
