package service

import (
	"context"
	"time"

	"muckd/internal/cache"
	"muckd/internal/models"
	"muckd/internal/observability"
	"muckd/internal/repository"
)

// LocationService enforces location-visibility policy and serves friend
// location snapshots.
type LocationService struct {
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
}

// NewLocationService returns a new LocationService.
func NewLocationService(userRepo repository.UserRepository, friendshipRepo repository.FriendshipRepository) *LocationService {
	return &LocationService{
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
	}
}

// IsLocationVisible reports whether viewerID may see the owner's location.
// A user with no recorded location is invisible in every mode.
//
// select_friends consults only the allow-list: a selected user sees the
// location even without an accepted friendship, and an unselected friend
// does not.
func (s *LocationService) IsLocationVisible(ctx context.Context, owner *models.User, viewerID uint) (bool, error) {
	if owner.Location == nil {
		return false, nil
	}
	if owner.ID == viewerID {
		return true, nil
	}

	switch owner.LocationSharingMode {
	case models.SharingInvisible:
		return false, nil
	case models.SharingSelectFriends:
		selected, err := s.userRepo.GetSelectedFriends(ctx, owner.ID)
		if err != nil {
			return false, err
		}
		for _, u := range selected {
			if u.ID == viewerID {
				return true, nil
			}
		}
		return false, nil
	default: // all_friends
		return s.friendshipRepo.AreFriends(ctx, owner.ID, viewerID)
	}
}

// UpdateLocation stores the user's current position and refreshes the cached
// snapshot.
func (s *LocationService) UpdateLocation(ctx context.Context, userID uint, lat, lng float64) (*models.User, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, models.NewValidationError("Coordinates out of range")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.Location = &models.Location{Latitude: lat, Longitude: lng}
	user.LastLocationUpdate = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	snapshot := models.LocationSnapshot{
		ID:                 user.ID,
		Name:               user.DisplayName(),
		Location:           user.Location,
		LastLocationUpdate: user.LastLocationUpdate,
		Avatar:             user.Avatar,
	}
	_ = cache.SetJSON(ctx, cache.UserLocationKey(userID), snapshot, cache.UserLocationTTL)

	return user, nil
}

// SetSharingMode switches the user's sharing mode and, for select_friends,
// replaces the allow-list with the given usernames.
func (s *LocationService) SetSharingMode(ctx context.Context, userID uint, mode models.LocationSharingMode, selectedUsernames []string) (*models.User, error) {
	switch mode {
	case models.SharingInvisible, models.SharingAllFriends, models.SharingSelectFriends:
	default:
		return nil, models.NewValidationError("Unknown location sharing mode")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.LocationSharingMode = mode
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if mode == models.SharingSelectFriends {
		selected := make([]*models.User, 0, len(selectedUsernames))
		for _, name := range selectedUsernames {
			u, err := s.userRepo.GetByUsername(ctx, name)
			if err != nil {
				return nil, err
			}
			if u == nil {
				return nil, models.NewNotFoundError("User", name)
			}
			if u.ID == userID {
				return nil, models.NewValidationError("Cannot add yourself to the allow-list")
			}
			selected = append(selected, u)
		}
		if err := s.userRepo.SetSelectedFriends(ctx, userID, selected); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// GetLocation returns a friend's location snapshot, or UNAUTHORIZED when the
// owner's policy hides it from the viewer.
func (s *LocationService) GetLocation(ctx context.Context, viewerID, ownerID uint) (*models.LocationSnapshot, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	visible, err := s.IsLocationVisible(ctx, owner, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewUnauthorizedError("This user does not share their location with you")
	}

	return &models.LocationSnapshot{
		ID:                 owner.ID,
		Name:               owner.DisplayName(),
		Location:           owner.Location,
		LastLocationUpdate: owner.LastLocationUpdate,
		Avatar:             owner.Avatar,
	}, nil
}

// FriendLocations returns the locations of all friends visible to the user.
// Results are cached briefly; a friend flipping their sharing mode is
// reflected once the cache entry expires.
func (s *LocationService) FriendLocations(ctx context.Context, userID uint) ([]models.LocationSnapshot, error) {
	var snapshots []models.LocationSnapshot
	key := cache.FriendsLocationsKey(userID)

	found, err := cache.GetJSON(ctx, key, &snapshots)
	if err == nil && found {
		observability.CacheRequests.WithLabelValues("friends_locations", "hit").Inc()
		return snapshots, nil
	}
	observability.CacheRequests.WithLabelValues("friends_locations", "miss").Inc()

	friends, err := s.friendshipRepo.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshots = make([]models.LocationSnapshot, 0, len(friends))
	for i := range friends {
		friend := friends[i]
		if friend.Location == nil {
			continue
		}
		visible, err := s.IsLocationVisible(ctx, &friend, userID)
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}
		snapshots = append(snapshots, models.LocationSnapshot{
			ID:                 friend.ID,
			Name:               friend.DisplayName(),
			Location:           friend.Location,
			LastLocationUpdate: friend.LastLocationUpdate,
			Avatar:             friend.Avatar,
		})
	}

	_ = cache.SetJSON(ctx, key, snapshots, cache.FriendsLocationsTTL)
	return snapshots, nil
}
