package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKey = []byte("test-signing-key-0123456789")
	epoch   = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndVerify_Success(t *testing.T) {
	issuer := NewIssuer(testKey, time.Hour).WithClock(fixedClock(epoch))

	tok, expiresAt, err := issuer.Issue(7)
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(time.Hour), expiresAt)

	id, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	issuer := NewIssuer(testKey, time.Hour).WithClock(fixedClock(epoch))
	tok, expiresAt, err := issuer.Issue(1)
	require.NoError(t, err)

	before := []time.Duration{0, time.Minute, 59*time.Minute + 59*time.Second}
	for _, d := range before {
		id, err := issuer.WithClock(fixedClock(epoch.Add(d))).Verify(tok)
		require.NoError(t, err, "offset %s", d)
		assert.Equal(t, int64(1), id)
	}

	after := []time.Time{expiresAt, expiresAt.Add(time.Second), expiresAt.Add(24 * time.Hour)}
	for _, at := range after {
		_, err := issuer.WithClock(fixedClock(at)).Verify(tok)
		assert.ErrorIs(t, err, ErrTokenExpired, "at %s", at)
	}
}

func TestVerify_Missing(t *testing.T) {
	_, err := NewIssuer(testKey, time.Hour).Verify("")
	assert.ErrorIs(t, err, ErrTokenMissing)
}

func TestVerify_WrongKey(t *testing.T) {
	tok, _, err := NewIssuer([]byte("right-key-0123456789"), time.Hour).Issue(1)
	require.NoError(t, err)

	_, err = NewIssuer([]byte("wrong-key-0123456789"), time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	_, err := NewIssuer(testKey, time.Hour).Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = NewIssuer(testKey, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_RequiresExpiryAndSubject(t *testing.T) {
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).SignedString(testKey)
	require.NoError(t, err)
	_, err = NewIssuer(testKey, time.Hour).Verify(noExp)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testKey)
	require.NoError(t, err)
	_, err = NewIssuer(testKey, time.Hour).Verify(badSubject)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	issuer := NewIssuer(testKey, time.Hour).WithClock(fixedClock(epoch))
	a, _, err := issuer.Issue(1)
	require.NoError(t, err)
	b, _, err := issuer.Issue(1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
