package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hottakes/errs"
)

// fakeDenylist is an in-memory domain.DenylistService for token tests.
type fakeDenylist struct {
	revoked map[string]time.Time
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: make(map[string]time.Time)}
}

func (f *fakeDenylist) Revoke(jti string, expiresAt time.Time) error {
	f.revoked[jti] = expiresAt
	return nil
}

func (f *fakeDenylist) IsRevoked(jti string) (bool, error) {
	_, ok := f.revoked[jti]
	return ok, nil
}

func (f *fakeDenylist) PurgeExpired(now time.Time) error {
	for jti, expiresAt := range f.revoked {
		if expiresAt.Before(now) {
			delete(f.revoked, jti)
		}
	}
	return nil
}

func newTestTokenManager(t *testing.T, ttl time.Duration) (*TokenManager, *fakeDenylist) {
	t.Helper()
	denylist := newFakeDenylist()
	tm, err := NewTokenManager("test-secret-key", ttl, denylist)
	require.NoError(t, err)
	return tm, denylist
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm, _ := newTestTokenManager(t, time.Hour)

	token, err := tm.Issue(42)
	require.NoError(t, err)

	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestTokenManager_VerifyMissingToken(t *testing.T) {
	tm, _ := newTestTokenManager(t, time.Hour)

	_, err := tm.Verify("")
	require.Error(t, err)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestTokenManager_VerifyMalformedToken(t *testing.T) {
	tm, _ := newTestTokenManager(t, time.Hour)

	_, err := tm.Verify("not.a.token")
	require.Error(t, err)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestTokenManager_VerifyWrongKey(t *testing.T) {
	tm, _ := newTestTokenManager(t, time.Hour)
	other, err := NewTokenManager("a-different-secret", time.Hour, newFakeDenylist())
	require.NoError(t, err)

	token, err := other.Issue(42)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	require.Error(t, err)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestTokenManager_VerifyExpiredToken(t *testing.T) {
	tm, _ := newTestTokenManager(t, -time.Hour)

	token, err := tm.Issue(42)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	require.Error(t, err)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestTokenManager_RevokedTokenStopsAuthenticating(t *testing.T) {
	tm, _ := newTestTokenManager(t, time.Hour)

	token, err := tm.Issue(42)
	require.NoError(t, err)

	// Valid before the logout.
	_, err = tm.Verify(token)
	require.NoError(t, err)

	require.NoError(t, tm.Revoke(token))

	_, err = tm.Verify(token)
	require.Error(t, err)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestTokenManager_RevokeGarbageIsNoOp(t *testing.T) {
	tm, denylist := newTestTokenManager(t, time.Hour)

	require.NoError(t, tm.Revoke("not.a.token"))
	assert.Empty(t, denylist.revoked)
}

func TestTokenManager_RequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour, newFakeDenylist())
	require.Error(t, err)
}
