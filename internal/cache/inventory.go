package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix          = "user:%d"
	UserLocationPrefix     = "user_location:%d"
	FriendsLocationsPrefix = "friends_locations:%d"
	OTPCodePrefix          = "otp:code:%s"
	OTPVerifiedPrefix      = "otp:verified:%s"
)

const (
	UserTTL             = 5 * time.Minute
	UserLocationTTL     = 5 * time.Minute
	FriendsLocationsTTL = time.Minute
	OTPCodeTTL          = 5 * time.Minute
	OTPVerifiedTTL      = time.Hour
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func UserLocationKey(userID uint) string {
	return fmt.Sprintf(UserLocationPrefix, userID)
}

func FriendsLocationsKey(userID uint) string {
	return fmt.Sprintf(FriendsLocationsPrefix, userID)
}

func OTPCodeKey(phone string) string {
	return fmt.Sprintf(OTPCodePrefix, phone)
}

func OTPVerifiedKey(phone string) string {
	return fmt.Sprintf(OTPVerifiedPrefix, phone)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateUserLocation(ctx context.Context, userID uint) {
	Invalidate(ctx, UserLocationKey(userID))
}

func InvalidateFriendsLocations(ctx context.Context, userID uint) {
	Invalidate(ctx, FriendsLocationsKey(userID))
}
