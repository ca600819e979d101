package service

import (
	"context"
	"testing"
	"time"

	"muckd/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	phone   string
	message string
}

func (r *recordingSender) Send(_ context.Context, phone, message string) error {
	r.phone = phone
	r.message = message
	return nil
}

func newTestOTPService(t *testing.T) (*OTPService, *miniredis.Miniredis, *recordingSender) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sender := &recordingSender{}
	return NewOTPService(rdb, sender), mr, sender
}

const testPhone = "+14155552671"

func TestOTPIssueStoresCodeAndSendsSMS(t *testing.T) {
	svc, mr, sender := newTestOTPService(t)

	require.NoError(t, svc.Issue(context.Background(), testPhone))

	code, err := mr.Get(cache.OTPCodeKey(testPhone))
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, testPhone, sender.phone)
	assert.Contains(t, sender.message, code)

	ttl := mr.TTL(cache.OTPCodeKey(testPhone))
	assert.Equal(t, cache.OTPCodeTTL, ttl)
}

func TestOTPIssueRejectsBadPhone(t *testing.T) {
	svc, _, _ := newTestOTPService(t)
	err := svc.Issue(context.Background(), "not-a-phone")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestOTPUnavailableWithoutRedis(t *testing.T) {
	svc := NewOTPService(nil, nil)

	err := svc.Issue(context.Background(), testPhone)
	assertAppErrorCode(t, err, "UNAVAILABLE")

	err = svc.Validate(context.Background(), testPhone, "123456")
	assertAppErrorCode(t, err, "UNAVAILABLE")
}

func TestOTPValidateSuccessMarksVerified(t *testing.T) {
	svc, mr, _ := newTestOTPService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testPhone))
	code, err := mr.Get(cache.OTPCodeKey(testPhone))
	require.NoError(t, err)

	require.NoError(t, svc.Validate(ctx, testPhone, code))

	verified, err := svc.IsVerified(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, verified)

	assert.Equal(t, cache.OTPVerifiedTTL, mr.TTL(cache.OTPVerifiedKey(testPhone)))
}

func TestOTPValidateCodeIsSingleUse(t *testing.T) {
	svc, mr, _ := newTestOTPService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testPhone))
	code, err := mr.Get(cache.OTPCodeKey(testPhone))
	require.NoError(t, err)

	require.NoError(t, svc.Validate(ctx, testPhone, code))

	err = svc.Validate(ctx, testPhone, code)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestOTPValidateWrongCode(t *testing.T) {
	svc, mr, _ := newTestOTPService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testPhone))

	err := svc.Validate(ctx, testPhone, "000000")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")

	// A wrong guess does not burn the code
	code, err := mr.Get(cache.OTPCodeKey(testPhone))
	require.NoError(t, err)
	require.NoError(t, svc.Validate(ctx, testPhone, code))
}

func TestOTPValidateExpiredCode(t *testing.T) {
	svc, mr, _ := newTestOTPService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testPhone))
	code, err := mr.Get(cache.OTPCodeKey(testPhone))
	require.NoError(t, err)

	mr.FastForward(cache.OTPCodeTTL + time.Second)

	err = svc.Validate(ctx, testPhone, code)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestOTPReissueReplacesCode(t *testing.T) {
	svc, mr, _ := newTestOTPService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testPhone))
	first, err := mr.Get(cache.OTPCodeKey(testPhone))
	require.NoError(t, err)

	mr.FastForward(time.Minute)
	require.NoError(t, svc.Issue(ctx, testPhone))

	// A stale code only works if the regenerated one happens to collide
	current, err := mr.Get(cache.OTPCodeKey(testPhone))
	require.NoError(t, err)
	if first != current {
		err = svc.Validate(ctx, testPhone, first)
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	}
	assert.Equal(t, cache.OTPCodeTTL, mr.TTL(cache.OTPCodeKey(testPhone)))
}

func TestOTPConsumeVerifiedAdmitsOnce(t *testing.T) {
	svc, mr, _ := newTestOTPService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testPhone))
	code, err := mr.Get(cache.OTPCodeKey(testPhone))
	require.NoError(t, err)
	require.NoError(t, svc.Validate(ctx, testPhone, code))

	ok, err := svc.ConsumeVerified(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ConsumeVerified(ctx, testPhone)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPVerifiedMarkerExpires(t *testing.T) {
	svc, mr, _ := newTestOTPService(t)
	ctx := context.Background()

	require.NoError(t, svc.Issue(ctx, testPhone))
	code, err := mr.Get(cache.OTPCodeKey(testPhone))
	require.NoError(t, err)
	require.NoError(t, svc.Validate(ctx, testPhone, code))

	mr.FastForward(cache.OTPVerifiedTTL + time.Second)

	ok, err := svc.ConsumeVerified(ctx, testPhone)
	require.NoError(t, err)
	assert.False(t, ok)
}
