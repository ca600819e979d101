package service

import (
	"context"
	"errors"
	"testing"

	"muckd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleHungryOnsetNotifiesFriends(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "albert", IsHungry: false}, nil
	}

	friendshipRepo := noopFriendshipRepo()
	friendshipRepo.getFriendsFn = func(context.Context, uint) ([]models.User, error) {
		return []models.User{{ID: 2}, {ID: 3}}, nil
	}

	var batch []models.Notification
	notificationRepo := noopNotificationRepo()
	notificationRepo.createBatchFn = func(_ context.Context, ns []models.Notification) error {
		batch = ns
		return nil
	}

	svc := NewUserService(userRepo, noopNotificationService(notificationRepo, friendshipRepo))
	user, err := svc.ToggleHungry(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, user.IsHungry)
	assert.Nil(t, user.LastAte)
	require.Len(t, batch, 2)
	assert.Equal(t, models.NotificationHungryStatus, batch[0].Type)
	assert.Equal(t, "albert is hungry!", batch[0].Content)
}

func TestToggleHungrySucceedsWhenFanOutFails(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "albert", IsHungry: false}, nil
	}

	friendshipRepo := noopFriendshipRepo()
	friendshipRepo.getFriendsFn = func(context.Context, uint) ([]models.User, error) {
		return nil, errors.New("friends lookup failed")
	}

	svc := NewUserService(userRepo, noopNotificationService(noopNotificationRepo(), friendshipRepo))
	user, err := svc.ToggleHungry(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, user.IsHungry)
}

func TestToggleHungryOffIsSilentAndRecordsMeal(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Username: "albert", IsHungry: true}, nil
	}

	friendshipRepo := noopFriendshipRepo()
	friendshipRepo.getFriendsFn = func(context.Context, uint) ([]models.User, error) {
		t.Fatal("no fan-out expected when hunger turns off")
		return nil, nil
	}

	svc := NewUserService(userRepo, noopNotificationService(noopNotificationRepo(), friendshipRepo))
	user, err := svc.ToggleHungry(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, user.IsHungry)
	require.NotNil(t, user.LastAte)
}

func TestUpdateProfilePartialFields(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Bio: "old bio", Avatar: "old.png"}, nil
	}
	var saved *models.User
	userRepo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}

	svc := NewUserService(userRepo, noopNotificationService(noopNotificationRepo(), noopFriendshipRepo()))

	bio := "new bio"
	user, err := svc.UpdateProfile(context.Background(), 1, &bio, nil)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "new bio", user.Bio)
	assert.Equal(t, "old.png", user.Avatar)
}

func TestGetByUsernameNotFound(t *testing.T) {
	userRepo := noopUserRepo()
	userRepo.getByUsernameFn = func(context.Context, string) (*models.User, error) { return nil, nil }

	svc := NewUserService(userRepo, noopNotificationService(noopNotificationRepo(), noopFriendshipRepo()))
	_, err := svc.GetByUsername(context.Background(), "ghost")
	assertAppErrorCode(t, err, "NOT_FOUND")
}
