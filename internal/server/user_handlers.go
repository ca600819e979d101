package server

import (
	"muckd/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userService.GetProfile(c.Context(), userID, c.QueryInt("posts", 10))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Bio    *string `json:"bio"`
		Avatar *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), userID, req.Bio, req.Avatar)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetFeatureFlags handles GET /api/users/me/feature-flags and returns
// the evaluated rollout flags for the current user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(s.featureFlags.Snapshot(currentUserID(c)))
}

// ToggleHungry handles POST /api/users/me/hungry.
func (s *Server) ToggleHungry(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userService.ToggleHungry(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"is_hungry": user.IsHungry,
		"last_ate":  user.LastAte,
	})
}

// UpdateMyLocation handles PUT /api/users/me/location.
func (s *Server) UpdateMyLocation(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.locationService.UpdateLocation(c.Context(), userID, req.Latitude, req.Longitude)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"location":             user.Location,
		"last_location_update": user.LastLocationUpdate,
	})
}

// SetLocationSharing handles PUT /api/users/me/location-sharing.
func (s *Server) SetLocationSharing(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		Mode            string   `json:"mode"`
		SelectedFriends []string `json:"selected_friends"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.locationService.SetSharingMode(c.Context(), userID,
		models.LocationSharingMode(req.Mode), req.SelectedFriends)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"location_sharing_mode": user.LocationSharingMode,
	})
}

// GetUserLocation handles GET /api/users/:username/location. The
// owner's sharing policy decides whether the viewer sees anything.
func (s *Server) GetUserLocation(c *fiber.Ctx) error {
	viewerID := currentUserID(c)

	owner, err := s.userService.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}

	snapshot, err := s.locationService.GetLocation(c.Context(), viewerID, owner.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(snapshot)
}

// GetUserPosts handles GET /api/users/:username/posts.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	user, err := s.userService.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}

	p := parsePagination(c, 20)
	posts, err := s.postService.UserPosts(c.Context(), user.ID, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetUserProfile handles GET /api/users/:username.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
