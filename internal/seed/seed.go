package seed

import (
	"fmt"
	"log"

	"muckd/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	MaxDays     int
}

// Seed populates the database with demo users, a friendship mesh, food
// posts and a sprinkling of messages and notifications.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("warning: could not clear all existing data, continuing anyway")
		}
	}

	factory := NewFactory(db, opts)

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	friendships, err := createFriendshipMesh(factory, users)
	if err != nil {
		return fmt.Errorf("failed to create friendships: %w", err)
	}
	log.Printf("created %d friendships", friendships)

	if err := createPosts(factory, users, opts.NumPosts); err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", opts.NumPosts)

	if err := createChatter(factory, users); err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}

	log.Println("seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	sql := `TRUNCATE TABLE notifications, messages, posts, user_selected_friends, friendships, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// A few fixed accounts for manual testing
	if count >= 2 {
		for _, name := range []string{"albert", "berta"} {
			name := name
			user, err := factory.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
				u.Bio = "Always down for dumplings."
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("created %d users...", i)
		}
	}

	return users, nil
}

// createFriendshipMesh links each user to a handful of later users so
// the graph is connected without duplicate pairs. Most links are
// accepted, with some left pending or rejected.
func createFriendshipMesh(factory *Factory, users []*models.User) (int, error) {
	created := 0
	for i, user := range users {
		links := 2 + factory.rng.Intn(4)
		for j := 1; j <= links && i+j < len(users); j++ {
			other := users[i+j]

			status := models.FriendshipStatusAccepted
			switch factory.rng.Intn(10) {
			case 0:
				status = models.FriendshipStatusPending
			case 1:
				status = models.FriendshipStatusRejected
			}

			if _, err := factory.CreateFriendship(user, other, status); err != nil {
				return created, err
			}
			created++

			if status == models.FriendshipStatusAccepted && other.LocationSharingMode == models.SharingSelectFriends {
				if err := factory.db.Model(other).Association("SelectedFriends").Append(user); err != nil {
					return created, err
				}
			}
		}
	}
	return created, nil
}

func createPosts(factory *Factory, users []*models.User, count int) error {
	for i := 0; i < count; i++ {
		user := users[factory.rng.Intn(len(users))]
		if _, err := factory.CreatePost(user); err != nil {
			return err
		}
		if i > 0 && i%100 == 0 {
			log.Printf("created %d posts...", i)
		}
	}
	return nil
}

func createChatter(factory *Factory, users []*models.User) error {
	for i := 0; i+1 < len(users) && i < 20; i += 2 {
		a, b := users[i], users[i+1]
		for m := 0; m < 1+factory.rng.Intn(5); m++ {
			sender, receiver := a, b
			if m%2 == 1 {
				sender, receiver = b, a
			}
			if _, err := factory.CreateMessage(sender, receiver); err != nil {
				return err
			}
			notice := fmt.Sprintf("New message from %s", sender.DisplayName())
			if _, err := factory.CreateNotification(receiver, models.NotificationMessage, notice); err != nil {
				return err
			}
		}
	}
	return nil
}
