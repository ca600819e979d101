package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"muckd/internal/middleware"
	"muckd/internal/models"
	"muckd/internal/repository"
)

// UserService provides profile and hunger-status business logic.
type UserService struct {
	userRepo      repository.UserRepository
	notifications *NotificationService
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, notificationService *NotificationService) *UserService {
	return &UserService{
		userRepo:      userRepo,
		notifications: notificationService,
	}
}

// GetProfile returns a user with their most recent posts.
func (s *UserService) GetProfile(ctx context.Context, userID uint, postLimit int) (*models.User, error) {
	return s.userRepo.GetByIDWithPosts(ctx, userID, postLimit)
}

// GetByUsername returns the user with the given username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return user, nil
}

// UpdateProfile updates the user's bio and avatar.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, bio, avatar *string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if bio != nil {
		user.Bio = *bio
	}
	if avatar != nil {
		user.Avatar = *avatar
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleHungry flips the user's hunger flag and returns the new state.
//
// Friends are notified only on the onset (false to true); turning the flag
// off is silent and records the meal time.
func (s *UserService) ToggleHungry(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	becameHungry := !user.IsHungry
	user.IsHungry = becameHungry
	if !becameHungry {
		now := time.Now().UTC()
		user.LastAte = &now
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if becameHungry {
		// The flag is already saved; a broken fan-out must not fail the toggle.
		content := fmt.Sprintf("%s is hungry!", user.DisplayName())
		if _, err := s.notifications.NotifyFriends(ctx, user, models.NotificationHungryStatus, func(models.User) string {
			return content
		}); err != nil {
			middleware.Logger.WarnContext(ctx, "hungry status fan-out failed",
				slog.Any("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return user, nil
}
