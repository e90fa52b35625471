package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
	"github.com/oksasatya/locshare-api/pkg/helpers"
)

const testSalt = "testsalt"

func newAccountFixture() (*AccountService, *memUsers, *memSharing, *memResets, *memMailer) {
	users := newMemUsers()
	sharing := newMemSharing()
	resets := newMemResets()
	mail := &memMailer{}
	svc := NewAccountService(users, sharing, resets, mail, testLogger(),
		testSalt, 10*time.Minute, "https://locshare.app/reset/")
	return svc, users, sharing, resets, mail
}

func TestSignUpNewUser(t *testing.T) {
	svc, users, sharing, _, mail := newAccountFixture()
	ctx := context.Background()

	res, err := svc.SignUp(ctx, SignUpInput{Email: "New@Example.com", DeviceID: "dev-1", Language: "fi-FI"})
	require.NoError(t, err)

	wantID := helpers.SaltedID(testSalt, "new@example.com")
	assert.Equal(t, wantID, res.UserID)
	assert.NotEmpty(t, res.AuthToken)
	assert.Empty(t, res.ICanSee)
	assert.Empty(t, res.CanSeeMe)

	stored := users.stored(wantID)
	assert.True(t, stored.Activated)
	assert.True(t, stored.Visibility)
	assert.Equal(t, "new@example.com", stored.Email)
	assert.Equal(t, helpers.SaltedID(testSalt, "dev-1"), stored.DeviceID)
	assert.Equal(t, "fi-FI", stored.Language)

	assert.Equal(t, wantID, sharing.stored(wantID).UserID, "sharing record created lazily")
	require.Len(t, mail.signups, 1)
	assert.Equal(t, "new@example.com", mail.signups[0].To)
}

func TestSignUpActivatesInviteStub(t *testing.T) {
	svc, users, _, _, mail := newAccountFixture()
	ctx := context.Background()

	id := helpers.SaltedID(testSalt, "friend@example.com")
	require.NoError(t, users.Put(ctx, entity.NewStub(id, "friend@example.com")))

	res, err := svc.SignUp(ctx, SignUpInput{Email: "friend@example.com", DeviceID: "dev-2"})
	require.NoError(t, err)
	assert.Equal(t, id, res.UserID)
	assert.NotEmpty(t, res.AuthToken)

	stored := users.stored(id)
	assert.True(t, stored.Activated)
	assert.Equal(t, "friend@example.com", stored.Email, "stub keeps its stored email")
	require.Len(t, mail.signups, 1)
}

func TestSignUpSameDeviceIsRelogin(t *testing.T) {
	svc, users, _, _, mail := newAccountFixture()
	ctx := context.Background()

	first, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "dev-1"})
	require.NoError(t, err)
	mail.signups = nil

	second, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "dev-1"})
	require.NoError(t, err)

	assert.Equal(t, first.AuthToken, second.AuthToken, "re-login keeps the existing token")
	assert.Empty(t, mail.signups, "no welcome email on re-login")
	assert.Equal(t, first.AuthToken, users.stored(first.UserID).AuthToken)
}

func TestSignUpDeviceMismatchStartsRecovery(t *testing.T) {
	svc, users, _, resets, mail := newAccountFixture()
	ctx := context.Background()

	first, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "dev-1"})
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "dev-other"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	stored := users.stored(first.UserID)
	assert.Equal(t, first.AuthToken, stored.AuthToken, "credentials unchanged on rejected signup")
	assert.Len(t, resets.codes, 1)
	require.Len(t, mail.resets, 1)
	assert.Contains(t, mail.resets[0].ResetLink, "https://locshare.app/reset/")
}

func TestSignUpInsideRecoveryWindowRebindsDevice(t *testing.T) {
	svc, users, _, _, _ := newAccountFixture()
	ctx := context.Background()
	now := time.Now()
	svc.Now = func() time.Time { return now }

	first, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "dev-1"})
	require.NoError(t, err)

	rec := users.stored(first.UserID)
	rec.AccountRecoveryMode = now.Add(-time.Minute).UnixMilli()
	require.NoError(t, users.Put(ctx, &rec))

	res, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "dev-new"})
	require.NoError(t, err)
	assert.NotEqual(t, first.AuthToken, res.AuthToken, "re-binding issues a fresh token")

	stored := users.stored(first.UserID)
	assert.Equal(t, helpers.SaltedID(testSalt, "dev-new"), stored.DeviceID)
	assert.Zero(t, stored.AccountRecoveryMode, "recovery mode consumed")
}

func TestSignUpExpiredRecoveryWindowRejects(t *testing.T) {
	svc, users, _, _, _ := newAccountFixture()
	ctx := context.Background()
	now := time.Now()
	svc.Now = func() time.Time { return now }

	first, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "dev-1"})
	require.NoError(t, err)

	rec := users.stored(first.UserID)
	rec.AccountRecoveryMode = now.Add(-time.Hour).UnixMilli()
	require.NoError(t, users.Put(ctx, &rec))

	_, err = svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "dev-new"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSignUpValidation(t *testing.T) {
	svc, _, _, _, _ := newAccountFixture()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "not-an-email", DeviceID: "d"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "d", Language: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthorize(t *testing.T) {
	svc, users, _, _, _ := newAccountFixture()
	ctx := context.Background()

	res, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "dev-1"})
	require.NoError(t, err)

	u, err := svc.Authorize(ctx, res.UserID, res.AuthToken, entity.ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, res.UserID, u.ID)

	_, err = svc.Authorize(ctx, res.UserID, "wrong", entity.ClientInfo{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authorize(ctx, res.UserID, "", entity.ClientInfo{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authorize(ctx, "unknown-id", res.AuthToken, entity.ClientInfo{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Stubs have no token and can never authorize.
	stubID := helpers.SaltedID(testSalt, "stub@example.com")
	require.NoError(t, users.Put(ctx, entity.NewStub(stubID, "stub@example.com")))
	_, err = svc.Authorize(ctx, stubID, "", entity.ClientInfo{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthorizeStoresClientInfoHints(t *testing.T) {
	svc, users, _, _, _ := newAccountFixture()
	ctx := context.Background()

	res, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "dev-1"})
	require.NoError(t, err)

	_, err = svc.Authorize(ctx, res.UserID, res.AuthToken, entity.ClientInfo{Version: "2.1", Platform: "ios"})
	require.NoError(t, err)

	stored := users.stored(res.UserID)
	assert.Equal(t, "2.1", stored.Internal.Version)
	assert.Equal(t, "ios", stored.Internal.Platform)
}

func TestConsumeResetCode(t *testing.T) {
	svc, users, _, resets, _ := newAccountFixture()
	ctx := context.Background()
	now := time.Now()
	svc.Now = func() time.Time { return now }

	res, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", DeviceID: "dev-1"})
	require.NoError(t, err)

	resetID, err := resets.Create(ctx, res.UserID)
	require.NoError(t, err)

	msg, err := svc.ConsumeResetCode(ctx, resetID)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	stored := users.stored(res.UserID)
	assert.Equal(t, now.UnixMilli(), stored.AccountRecoveryMode)
	assert.Empty(t, resets.codes, "code is single use")

	_, err = svc.ConsumeResetCode(ctx, resetID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
