package service

import (
	"context"
	"fmt"
	"log/slog"

	"muckd/internal/cache"
	"muckd/internal/middleware"
	"muckd/internal/models"
	"muckd/internal/observability"
	"muckd/internal/repository"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendshipRepo repository.FriendshipRepository
	userRepo       repository.UserRepository
	notifications  *NotificationService
}

// NewFriendService returns a new FriendService.
func NewFriendService(
	friendshipRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	notificationService *NotificationService,
) *FriendService {
	return &FriendService{
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
		notifications:  notificationService,
	}
}

// SendFriendRequest sends a friend request to the user with the given
// username. A previously rejected pair is reopened as a fresh pending
// request instead of growing a second row.
func (s *FriendService) SendFriendRequest(ctx context.Context, senderID uint, receiverUsername string) (*models.Friendship, error) {
	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	receiver, err := s.userRepo.GetByUsername(ctx, receiverUsername)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, models.NewNotFoundError("User", receiverUsername)
	}
	if receiver.ID == senderID {
		return nil, models.NewValidationError("Cannot send friend request to yourself")
	}

	existing, err := s.friendshipRepo.GetBetweenUsers(ctx, senderID, receiver.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendshipStatusAccepted:
			return nil, models.NewConflictError("You are already friends")
		case models.FriendshipStatusPending:
			if existing.SenderID == senderID {
				return nil, models.NewConflictError("Friend request already sent")
			}
			return nil, models.NewConflictError("You already have a pending friend request from this user")
		case models.FriendshipStatusRejected:
			if err := s.friendshipRepo.Reopen(ctx, existing.ID, senderID, receiver.ID); err != nil {
				return nil, err
			}
			observability.FriendshipTransitions.WithLabelValues("send", "reopened").Inc()
			return s.afterRequestSent(ctx, existing.ID, sender, receiver)
		}
	}

	friendship := &models.Friendship{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		Status:     models.FriendshipStatusPending,
	}
	if err := s.friendshipRepo.Create(ctx, friendship); err != nil {
		observability.FriendshipTransitions.WithLabelValues("send", "conflict").Inc()
		return nil, err
	}

	observability.FriendshipTransitions.WithLabelValues("send", "created").Inc()
	return s.afterRequestSent(ctx, friendship.ID, sender, receiver)
}

func (s *FriendService) afterRequestSent(ctx context.Context, friendshipID uint, sender, receiver *models.User) (*models.Friendship, error) {
	// The request row exists; a failed notification write must not undo it.
	content := fmt.Sprintf("%s sent you a friend request!", sender.DisplayName())
	if err := s.notifications.Notify(ctx, receiver.ID, models.NotificationFriendRequest, content, sender.ID); err != nil {
		middleware.Logger.WarnContext(ctx, "friend request notification failed",
			slog.Any("user_id", receiver.ID),
			slog.String("error", err.Error()),
		)
	}
	return s.friendshipRepo.GetByID(ctx, friendshipID)
}

// GetPendingRequests returns pending friend requests received by the user.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendshipRepo.GetPendingRequests(ctx, userID)
}

// GetSentRequests returns pending friend requests sent by the user.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendshipRepo.GetSentRequests(ctx, userID)
}

// AcceptFriendRequest accepts a pending friend request. The transition is a
// compare-and-set on the pending status, so of two racing resolutions
// exactly one wins.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendshipRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.ReceiverID != userID {
		return nil, models.NewUnauthorizedError("You can only accept friend requests sent to you")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewInvalidStateError("Friend request is not pending")
	}

	ok, err := s.friendshipRepo.UpdateStatusIf(ctx, requestID, models.FriendshipStatusPending, models.FriendshipStatusAccepted)
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.FriendshipTransitions.WithLabelValues("accept", "lost_race").Inc()
		return nil, models.NewInvalidStateError("Friend request is not pending")
	}
	observability.FriendshipTransitions.WithLabelValues("accept", "accepted").Inc()

	// Both sides gained a friend; their cached location lists are stale.
	sender := friendship.OtherParty(userID)
	cache.InvalidateFriendsLocations(ctx, userID)
	cache.InvalidateFriendsLocations(ctx, sender)

	// The CAS has committed; a failed notification must not fail the accept,
	// or a retry would hit the no-longer-pending row.
	if receiver, lookupErr := s.userRepo.GetByID(ctx, userID); lookupErr != nil {
		middleware.Logger.WarnContext(ctx, "friend accepted notification failed",
			slog.Any("user_id", sender),
			slog.String("error", lookupErr.Error()),
		)
	} else {
		content := fmt.Sprintf("%s accepted your friend request!", receiver.DisplayName())
		if err := s.notifications.Notify(ctx, sender, models.NotificationFriendAccepted, content, userID); err != nil {
			middleware.Logger.WarnContext(ctx, "friend accepted notification failed",
				slog.Any("user_id", sender),
				slog.String("error", err.Error()),
			)
		}
	}

	return s.friendshipRepo.GetByID(ctx, requestID)
}

// RejectFriendRequest rejects a pending friend request. The sender is not
// notified; the rejected row remains so a later request can reopen it.
func (s *FriendService) RejectFriendRequest(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendshipRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.ReceiverID != userID {
		return nil, models.NewUnauthorizedError("You can only reject friend requests sent to you")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewInvalidStateError("Friend request is not pending")
	}

	ok, err := s.friendshipRepo.UpdateStatusIf(ctx, requestID, models.FriendshipStatusPending, models.FriendshipStatusRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		observability.FriendshipTransitions.WithLabelValues("reject", "lost_race").Inc()
		return nil, models.NewInvalidStateError("Friend request is not pending")
	}
	observability.FriendshipTransitions.WithLabelValues("reject", "rejected").Inc()

	return s.friendshipRepo.GetByID(ctx, requestID)
}

// GetFriends returns the list of friends for the user.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendshipRepo.GetFriends(ctx, userID)
}

// GetFriendshipStatus returns the friendship status between two users.
func (s *FriendService) GetFriendshipStatus(ctx context.Context, userID, targetUserID uint) (string, uint, *models.Friendship, error) {
	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return "", 0, nil, err
	}

	friendship, err := s.friendshipRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return "", 0, nil, err
	}

	status := "none"
	var requestID uint
	if friendship != nil {
		switch friendship.Status {
		case models.FriendshipStatusAccepted:
			status = "friends"
		case models.FriendshipStatusPending:
			requestID = friendship.ID
			if friendship.SenderID == userID {
				status = "pending_sent"
			} else {
				status = "pending_received"
			}
		default:
			status = string(friendship.Status)
		}
	}

	return status, requestID, friendship, nil
}

// RemoveFriend removes the friendship between two users.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	friendship, err := s.friendshipRepo.GetBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if friendship == nil || friendship.Status != models.FriendshipStatusAccepted {
		return nil, models.NewNotFoundError("Friendship", 0)
	}

	if err := s.friendshipRepo.RemoveBetweenUsers(ctx, userID, targetUserID); err != nil {
		return nil, err
	}

	cache.InvalidateFriendsLocations(ctx, userID)
	cache.InvalidateFriendsLocations(ctx, targetUserID)
	return friendship, nil
}
