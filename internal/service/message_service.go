package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"muckd/internal/middleware"
	"muckd/internal/models"
	"muckd/internal/repository"
)

// MessageService provides direct-messaging business logic. Messaging is
// restricted to accepted friends.
type MessageService struct {
	messageRepo    repository.MessageRepository
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
	notifications  *NotificationService
}

// NewMessageService returns a new MessageService.
func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
	notificationService *NotificationService,
) *MessageService {
	return &MessageService{
		messageRepo:    messageRepo,
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		notifications:  notificationService,
	}
}

// SendMessage sends a direct message to a friend and notifies them.
func (s *MessageService) SendMessage(ctx context.Context, senderID, receiverID uint, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if len(content) > 2000 {
		return nil, models.NewValidationError("Message must not exceed 2000 characters")
	}
	if senderID == receiverID {
		return nil, models.NewValidationError("Cannot message yourself")
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	areFriends, err := s.friendshipRepo.AreFriends(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !areFriends {
		return nil, models.NewUnauthorizedError("You can only message your friends")
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	// The message row exists; a failed notification write must not undo it.
	notice := fmt.Sprintf("New message from %s", sender.DisplayName())
	if err := s.notifications.Notify(ctx, receiverID, models.NotificationMessage, notice, senderID); err != nil {
		middleware.Logger.WarnContext(ctx, "message notification failed",
			slog.Any("user_id", receiverID),
			slog.String("error", err.Error()),
		)
	}

	return message, nil
}

// Conversation returns the message history between the user and a friend and
// marks the incoming half as read.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID uint, limit, offset int) ([]models.Message, error) {
	messages, err := s.messageRepo.Conversation(ctx, userID, otherID, limit, offset)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.MarkConversationRead(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return messages, nil
}

// UnreadCount returns the number of unread messages for the user.
func (s *MessageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}
