package server

import (
	"muckd/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RequestPhoneCode handles POST /api/auth/phone/request-code.
func (s *Server) RequestPhoneCode(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.otpService.Issue(c.Context(), req.Phone); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Verification code sent",
	})
}

// VerifyPhoneCode handles POST /api/auth/phone/verify-code. On success
// the phone holds a verified marker that signup consumes within the
// hour.
func (s *Server) VerifyPhoneCode(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.otpService.Validate(c.Context(), req.Phone, req.Code); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Phone number verified",
		"verified": true,
	})
}
