package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"muckd/internal/middleware"
	"muckd/internal/models"
	"muckd/internal/repository"
)

// PostService provides food-post business logic.
type PostService struct {
	postRepo       repository.PostRepository
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
	notifications  *NotificationService
}

// NewPostService returns a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	friendshipRepo repository.FriendshipRepository,
	notificationService *NotificationService,
) *PostService {
	return &PostService{
		postRepo:       postRepo,
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		notifications:  notificationService,
	}
}

// CreatePost stores a food picture, records the meal time and announces the
// post to the author's friends.
func (s *PostService) CreatePost(ctx context.Context, userID uint, imageURL, caption string) (*models.Post, error) {
	if strings.TrimSpace(imageURL) == "" {
		return nil, models.NewValidationError("Image URL is required")
	}
	if len(caption) > 500 {
		return nil, models.NewValidationError("Caption must not exceed 500 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:   userID,
		ImageURL: imageURL,
		Caption:  caption,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Posting food implies eating
	now := time.Now().UTC()
	user.LastAte = &now
	user.IsHungry = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// The post is already persisted; a broken fan-out must not fail it.
	content := fmt.Sprintf("%s just posted a new food picture!", user.DisplayName())
	if _, err := s.notifications.NotifyFriends(ctx, user, models.NotificationNewPost, func(models.User) string {
		return content
	}); err != nil {
		middleware.Logger.WarnContext(ctx, "new post fan-out failed",
			slog.Any("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return post, nil
}

// GetPost returns a single post by ID.
func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// UserPosts returns a user's posts, newest first.
func (s *PostService) UserPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID, limit, offset)
}

// Feed returns the posts of the user and their friends, newest first.
func (s *PostService) Feed(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	friends, err := s.friendshipRepo.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uint, 0, len(friends)+1)
	authorIDs = append(authorIDs, userID)
	for _, f := range friends {
		authorIDs = append(authorIDs, f.ID)
	}

	return s.postRepo.ListFeed(ctx, authorIDs, limit, offset)
}

// DeletePost removes one of the user's posts.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	return s.postRepo.Delete(ctx, postID, userID)
}
