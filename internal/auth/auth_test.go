package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
)

func newTestIssuer(now time.Time) *Issuer {
	i := NewIssuer([]byte("test-secret"), 5*time.Minute, 24*time.Hour)
	i.now = func() time.Time { return now }
	return i
}

func TestIssuePair(t *testing.T) {
	now := time.Now()
	i := newTestIssuer(now)

	pair, err := i.IssuePair(7)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	access, err := i.Parse(pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(7), access.UserID)
	assert.NotEmpty(t, access.ID)
	assert.WithinDuration(t, now.Add(5*time.Minute), access.ExpiresAt.Time, time.Second)

	refresh, err := i.Parse(pair.Refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(24*time.Hour), refresh.ExpiresAt.Time, time.Second)
}

func TestParseRejectsWrongType(t *testing.T) {
	i := newTestIssuer(time.Now())
	pair, err := i.IssuePair(1)
	require.NoError(t, err)

	_, err = i.Parse(pair.Access, TokenTypeRefresh)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = i.Refresh(pair.Access)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	issued := time.Now().Add(-48 * time.Hour)
	old := newTestIssuer(issued)
	pair, err := old.IssuePair(1)
	require.NoError(t, err)

	current := newTestIssuer(time.Now())
	_, err = current.Parse(pair.Refresh, TokenTypeRefresh)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	other := NewIssuer([]byte("other-secret"), time.Minute, time.Hour)
	fresh, err := other.IssuePair(1)
	require.NoError(t, err)
	_, err = current.Parse(fresh.Access, TokenTypeAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = current.Parse("not-a-token", TokenTypeAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	i := newTestIssuer(time.Now())
	claims := &Claims{
		TokenType: TokenTypeAccess,
		UserID:    1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = i.Parse(forged, TokenTypeAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRefresh(t *testing.T) {
	i := newTestIssuer(time.Now())
	pair, err := i.IssuePair(3)
	require.NoError(t, err)

	access, err := i.Refresh(pair.Refresh)
	require.NoError(t, err)

	claims, err := i.Parse(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
}

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("testpassword")
	require.NoError(t, err)
	assert.NotEqual(t, "testpassword", hash)
	assert.True(t, h.Compare(hash, "testpassword"))
	assert.False(t, h.Compare(hash, "wrong"))

	again, err := h.Hash("testpassword")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes must be salted")
}

func TestHasherLongPasswords(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	long := strings.Repeat("p", 100)

	hash, err := h.Hash(long)
	require.NoError(t, err)
	assert.True(t, h.Compare(hash, long))

	// same first 72 bytes, different tail
	assert.False(t, h.Compare(hash, strings.Repeat("p", 99)+"q"))
	assert.False(t, h.Compare(hash, long[:bcryptMaxBytes]))
}

func TestNewHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).cost)
}
