// Package seed provides helpers to create demo data for development
// and testing. Not intended for production databases.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"muckd/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them. A thin helper used
// by the seeder and integration tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	phone := fmt.Sprintf("+1415555%04d", f.rng.Intn(10000))
	user := &models.User{
		Username:        gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:           gofakeit.Email(),
		Bio:             gofakeit.Sentence(10),
		Avatar:          fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		PhoneNumber:     &phone,
		IsPhoneVerified: true,
	}

	if f.opts.SkipBcrypt {
		user.Password = "Password-123xyz!"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Password-123xyz!"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	// Scatter users around downtown San Francisco
	if f.rng.Float32() < 0.8 {
		now := time.Now().Add(-time.Duration(f.rng.Intn(120)) * time.Minute)
		user.Location = &models.Location{
			Latitude:  37.7749 + (f.rng.Float64()-0.5)*0.1,
			Longitude: -122.4194 + (f.rng.Float64()-0.5)*0.1,
		}
		user.LastLocationUpdate = &now
	}

	switch f.rng.Intn(10) {
	case 0:
		user.LocationSharingMode = models.SharingInvisible
	case 1:
		user.LocationSharingMode = models.SharingSelectFriends
	default:
		user.LocationSharingMode = models.SharingAllFriends
	}

	if f.rng.Float32() < 0.3 {
		user.IsHungry = true
	} else {
		ate := time.Now().Add(-time.Duration(f.rng.Intn(8)) * time.Hour)
		user.LastAte = &ate
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFriendship persists a friendship row between two users.
func (f *Factory) CreateFriendship(sender, receiver *models.User, status models.FriendshipStatus) (*models.Friendship, error) {
	friendship := &models.Friendship{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Status:     status,
	}
	if err := f.db.Create(friendship).Error; err != nil {
		return nil, err
	}
	return friendship, nil
}

// CreatePost constructs and persists a food post for the given user
// with a realistic created_at spread.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	dish := gofakeit.Dinner()
	post := &models.Post{
		UserID:   user.ID,
		ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		Caption:  fmt.Sprintf("%s at %s", dish, gofakeit.Company()),
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	daysBack := f.rng.Intn(maxDays)
	minsBack := f.rng.Intn(24 * 60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateMessage persists a direct message between two users.
func (f *Factory) CreateMessage(sender, receiver *models.User, overrides ...func(*models.Message)) (*models.Message, error) {
	message := &models.Message{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    gofakeit.Sentence(10),
	}

	for _, override := range overrides {
		override(message)
	}

	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// CreateNotification persists a notification for the given user.
func (f *Factory) CreateNotification(user *models.User, kind models.NotificationType, content string) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:  user.ID,
		Type:    kind,
		Content: content,
	}
	if err := f.db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}
