package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"muckd/internal/cache"
	"muckd/internal/models"
	"muckd/internal/observability"
	"muckd/internal/validation"

	"github.com/redis/go-redis/v9"
)

// SMSSender delivers a verification code to a phone number. The production
// implementation talks to an SMS gateway; tests and development fall back to
// LogSender.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSender logs the code instead of sending it. Used outside production.
type LogSender struct{}

// Send implements SMSSender.
func (LogSender) Send(_ context.Context, phone, message string) error {
	fmt.Printf("SMS to %s: %s\n", phone, message)
	return nil
}

// OTPService implements the phone verification flow: a short-lived
// single-use code, followed by a verified marker the registration flow
// consumes.
type OTPService struct {
	rdb *redis.Client
	sms SMSSender
}

// NewOTPService returns a new OTPService.
func NewOTPService(rdb *redis.Client, sms SMSSender) *OTPService {
	if sms == nil {
		sms = LogSender{}
	}
	return &OTPService{rdb: rdb, sms: sms}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue generates a fresh code for the phone number, stores it with a short
// TTL and hands it to the SMS sender. Re-issuing replaces the previous code.
func (s *OTPService) Issue(ctx context.Context, phone string) error {
	if err := validation.ValidatePhone(phone); err != nil {
		return err
	}
	if s.rdb == nil {
		return models.NewUnavailableError("Phone verification is temporarily unavailable")
	}

	code, err := generateCode()
	if err != nil {
		return models.NewInternalError(err)
	}

	if err := s.rdb.Set(ctx, cache.OTPCodeKey(phone), code, cache.OTPCodeTTL).Err(); err != nil {
		return models.NewInternalError(err)
	}

	if err := s.sms.Send(ctx, phone, fmt.Sprintf("Your verification code is %s", code)); err != nil {
		observability.OTPOutcomes.WithLabelValues("issue", "sms_failed").Inc()
		return models.NewInternalError(err)
	}

	observability.OTPOutcomes.WithLabelValues("issue", "sent").Inc()
	return nil
}

// Validate checks the submitted code. On success the code is deleted (it is
// single-use) and a verified marker is stored for one hour.
func (s *OTPService) Validate(ctx context.Context, phone, code string) error {
	if err := validation.ValidatePhone(phone); err != nil {
		return err
	}
	if s.rdb == nil {
		return models.NewUnavailableError("Phone verification is temporarily unavailable")
	}

	stored, err := s.rdb.Get(ctx, cache.OTPCodeKey(phone)).Result()
	if err == redis.Nil {
		observability.OTPOutcomes.WithLabelValues("validate", "expired").Inc()
		return models.NewNotFoundError("Verification code", phone)
	}
	if err != nil {
		return models.NewInternalError(err)
	}

	if stored != code {
		observability.OTPOutcomes.WithLabelValues("validate", "mismatch").Inc()
		return models.NewValidationError("Incorrect verification code")
	}

	// Single-use: drop the code before setting the marker
	if err := s.rdb.Del(ctx, cache.OTPCodeKey(phone)).Err(); err != nil {
		return models.NewInternalError(err)
	}
	if err := s.rdb.Set(ctx, cache.OTPVerifiedKey(phone), "1", cache.OTPVerifiedTTL).Err(); err != nil {
		return models.NewInternalError(err)
	}

	observability.OTPOutcomes.WithLabelValues("validate", "verified").Inc()
	return nil
}

// IsVerified reports whether the phone currently holds a verified marker.
func (s *OTPService) IsVerified(ctx context.Context, phone string) (bool, error) {
	if s.rdb == nil {
		return false, nil
	}
	n, err := s.rdb.Exists(ctx, cache.OTPVerifiedKey(phone)).Result()
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

// ConsumeVerified atomically checks and removes the verified marker.
// Registration calls this so one verification admits exactly one signup.
func (s *OTPService) ConsumeVerified(ctx context.Context, phone string) (bool, error) {
	if s.rdb == nil {
		return false, nil
	}
	n, err := s.rdb.Del(ctx, cache.OTPVerifiedKey(phone)).Result()
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}
