package service

import (
	"context"

	"muckd/internal/models"
	"muckd/internal/notifications"
)

type userRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.User, error)
	getByIDWithPostsFn   func(context.Context, uint, int) (*models.User, error)
	getByEmailFn         func(context.Context, string) (*models.User, error)
	getByUsernameFn      func(context.Context, string) (*models.User, error)
	getByPhoneFn         func(context.Context, string) (*models.User, error)
	createFn             func(context.Context, *models.User) error
	updateFn             func(context.Context, *models.User) error
	deleteFn             func(context.Context, uint) error
	listFn               func(context.Context, int, int) ([]models.User, error)
	getSelectedFriendsFn func(context.Context, uint) ([]models.User, error)
	setSelectedFriendsFn func(context.Context, uint, []*models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithPosts(ctx context.Context, id uint, limit int) (*models.User, error) {
	return s.getByIDWithPostsFn(ctx, id, limit)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.getByPhoneFn(ctx, phone)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) GetSelectedFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.getSelectedFriendsFn(ctx, userID)
}
func (s *userRepoStub) SetSelectedFriends(ctx context.Context, userID uint, friends []*models.User) error {
	return s.setSelectedFriendsFn(ctx, userID, friends)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:            func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByIDWithPostsFn:   func(context.Context, uint, int) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:         func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:      func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		getByPhoneFn:         func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:             func(context.Context, *models.User) error { return nil },
		updateFn:             func(context.Context, *models.User) error { return nil },
		deleteFn:             func(context.Context, uint) error { return nil },
		listFn:               func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		getSelectedFriendsFn: func(context.Context, uint) ([]models.User, error) { return nil, nil },
		setSelectedFriendsFn: func(context.Context, uint, []*models.User) error { return nil },
	}
}

type friendshipRepoStub struct {
	createFn             func(context.Context, *models.Friendship) error
	getByIDFn            func(context.Context, uint) (*models.Friendship, error)
	getBetweenUsersFn    func(context.Context, uint, uint) (*models.Friendship, error)
	getFriendsFn         func(context.Context, uint) ([]models.User, error)
	getPendingRequestsFn func(context.Context, uint) ([]models.Friendship, error)
	getSentRequestsFn    func(context.Context, uint) ([]models.Friendship, error)
	updateStatusIfFn     func(context.Context, uint, models.FriendshipStatus, models.FriendshipStatus) (bool, error)
	reopenFn             func(context.Context, uint, uint, uint) error
	areFriendsFn         func(context.Context, uint, uint) (bool, error)
	removeBetweenUsersFn func(context.Context, uint, uint) error
}

func (s *friendshipRepoStub) Create(ctx context.Context, friendship *models.Friendship) error {
	return s.createFn(ctx, friendship)
}
func (s *friendshipRepoStub) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	return s.getByIDFn(ctx, id)
}
func (s *friendshipRepoStub) GetBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	return s.getBetweenUsersFn(ctx, userID1, userID2)
}
func (s *friendshipRepoStub) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.getFriendsFn(ctx, userID)
}
func (s *friendshipRepoStub) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.getPendingRequestsFn(ctx, userID)
}
func (s *friendshipRepoStub) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.getSentRequestsFn(ctx, userID)
}
func (s *friendshipRepoStub) UpdateStatusIf(ctx context.Context, friendshipID uint, from, to models.FriendshipStatus) (bool, error) {
	return s.updateStatusIfFn(ctx, friendshipID, from, to)
}
func (s *friendshipRepoStub) Reopen(ctx context.Context, friendshipID, senderID, receiverID uint) error {
	return s.reopenFn(ctx, friendshipID, senderID, receiverID)
}
func (s *friendshipRepoStub) AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error) {
	return s.areFriendsFn(ctx, userID1, userID2)
}
func (s *friendshipRepoStub) RemoveBetweenUsers(ctx context.Context, userID1, userID2 uint) error {
	return s.removeBetweenUsersFn(ctx, userID1, userID2)
}

func noopFriendshipRepo() *friendshipRepoStub {
	return &friendshipRepoStub{
		createFn:             func(context.Context, *models.Friendship) error { return nil },
		getByIDFn:            func(context.Context, uint) (*models.Friendship, error) { return &models.Friendship{}, nil },
		getBetweenUsersFn:    func(context.Context, uint, uint) (*models.Friendship, error) { return nil, nil },
		getFriendsFn:         func(context.Context, uint) ([]models.User, error) { return nil, nil },
		getPendingRequestsFn: func(context.Context, uint) ([]models.Friendship, error) { return nil, nil },
		getSentRequestsFn:    func(context.Context, uint) ([]models.Friendship, error) { return nil, nil },
		updateStatusIfFn: func(context.Context, uint, models.FriendshipStatus, models.FriendshipStatus) (bool, error) {
			return true, nil
		},
		reopenFn:             func(context.Context, uint, uint, uint) error { return nil },
		areFriendsFn:         func(context.Context, uint, uint) (bool, error) { return false, nil },
		removeBetweenUsersFn: func(context.Context, uint, uint) error { return nil },
	}
}

type notificationRepoStub struct {
	createFn      func(context.Context, *models.Notification) error
	createBatchFn func(context.Context, []models.Notification) error
	getByIDFn     func(context.Context, uint) (*models.Notification, error)
	listForUserFn func(context.Context, uint, int, int) ([]models.Notification, error)
	countUnreadFn func(context.Context, uint) (int64, error)
	markReadFn    func(context.Context, uint, uint) error
	markAllReadFn func(context.Context, uint) error
	deleteFn      func(context.Context, uint, uint) error
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) CreateBatch(ctx context.Context, ns []models.Notification) error {
	return s.createBatchFn(ctx, ns)
}
func (s *notificationRepoStub) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	return s.getByIDFn(ctx, id)
}
func (s *notificationRepoStub) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.listForUserFn(ctx, userID, limit, offset)
}
func (s *notificationRepoStub) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.countUnreadFn(ctx, userID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id, userID uint) error {
	return s.markReadFn(ctx, id, userID)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, userID uint) error {
	return s.markAllReadFn(ctx, userID)
}
func (s *notificationRepoStub) Delete(ctx context.Context, id, userID uint) error {
	return s.deleteFn(ctx, id, userID)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn:      func(context.Context, *models.Notification) error { return nil },
		createBatchFn: func(context.Context, []models.Notification) error { return nil },
		getByIDFn:     func(context.Context, uint) (*models.Notification, error) { return &models.Notification{}, nil },
		listForUserFn: func(context.Context, uint, int, int) ([]models.Notification, error) { return nil, nil },
		countUnreadFn: func(context.Context, uint) (int64, error) { return 0, nil },
		markReadFn:    func(context.Context, uint, uint) error { return nil },
		markAllReadFn: func(context.Context, uint) error { return nil },
		deleteFn:      func(context.Context, uint, uint) error { return nil },
	}
}

type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, uint) (*models.Post, error)
	listByUserFn func(context.Context, uint, int, int) ([]models.Post, error)
	listFeedFn   func(context.Context, []uint, int, int) ([]models.Post, error)
	deleteFn     func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) ListFeed(ctx context.Context, userIDs []uint, limit, offset int) ([]models.Post, error) {
	return s.listFeedFn(ctx, userIDs, limit, offset)
}
func (s *postRepoStub) Delete(ctx context.Context, id, userID uint) error {
	return s.deleteFn(ctx, id, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:     func(context.Context, *models.Post) error { return nil },
		getByIDFn:    func(context.Context, uint) (*models.Post, error) { return &models.Post{}, nil },
		listByUserFn: func(context.Context, uint, int, int) ([]models.Post, error) { return nil, nil },
		listFeedFn:   func(context.Context, []uint, int, int) ([]models.Post, error) { return nil, nil },
		deleteFn:     func(context.Context, uint, uint) error { return nil },
	}
}

type messageRepoStub struct {
	createFn               func(context.Context, *models.Message) error
	conversationFn         func(context.Context, uint, uint, int, int) ([]models.Message, error)
	markConversationReadFn func(context.Context, uint, uint) error
	countUnreadFn          func(context.Context, uint) (int64, error)
}

func (s *messageRepoStub) Create(ctx context.Context, message *models.Message) error {
	return s.createFn(ctx, message)
}
func (s *messageRepoStub) Conversation(ctx context.Context, userID1, userID2 uint, limit, offset int) ([]models.Message, error) {
	return s.conversationFn(ctx, userID1, userID2, limit, offset)
}
func (s *messageRepoStub) MarkConversationRead(ctx context.Context, readerID, otherID uint) error {
	return s.markConversationReadFn(ctx, readerID, otherID)
}
func (s *messageRepoStub) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.countUnreadFn(ctx, userID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:               func(context.Context, *models.Message) error { return nil },
		conversationFn:         func(context.Context, uint, uint, int, int) ([]models.Message, error) { return nil, nil },
		markConversationReadFn: func(context.Context, uint, uint) error { return nil },
		countUnreadFn:          func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

func noopNotificationService(notificationRepo *notificationRepoStub, friendshipRepo *friendshipRepoStub) *NotificationService {
	return NewNotificationService(notificationRepo, friendshipRepo, notifications.NewNotifier(nil))
}
