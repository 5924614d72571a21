package session

import (
	"path/filepath"
	"testing"
	"time"

	"swizzle-client/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestValidWithFutureExpiry(t *testing.T) {
	s := NewStore("")
	s.CompleteLogin(signedToken(t, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}), models.StaffUser{ID: "u1"})

	assert.True(t, s.Valid())
}

func TestValidRejectsExpiredToken(t *testing.T) {
	s := NewStore("")
	s.CompleteLogin(signedToken(t, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}), models.StaffUser{ID: "u1"})

	assert.False(t, s.Valid())
}

func TestValidAcceptsOpaqueToken(t *testing.T) {
	s := NewStore("")
	s.CompleteLogin("not-a-jwt", models.StaffUser{ID: "u1"})

	// Tokens the client cannot read are the server's problem.
	assert.True(t, s.Valid())
}

func TestValidWithoutToken(t *testing.T) {
	s := NewStore("")
	assert.False(t, s.Valid())
}

func TestPersistAndRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewStore(path)
	s.CompleteLogin("token-abc", models.StaffUser{ID: "u1", Name: "Asha"})
	s.StoreMFAToken("challenge-should-not-persist")

	restored := NewStore(path)
	assert.Equal(t, "token-abc", restored.Token())
	require.NotNil(t, restored.CurrentUser())
	assert.Equal(t, "Asha", restored.CurrentUser().Name)
	assert.Empty(t, restored.MFAToken())
}

func TestClearWipesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	s := NewStore(path)
	s.CompleteLogin("token-abc", models.StaffUser{ID: "u1"})
	s.Clear()

	restored := NewStore(path)
	assert.Empty(t, restored.Token())
	assert.Nil(t, restored.CurrentUser())
}

func TestCompleteLoginDropsChallenge(t *testing.T) {
	s := NewStore("")
	s.StoreMFAToken("challenge-123")
	s.CompleteLogin("token-abc", models.StaffUser{ID: "u1"})

	assert.Empty(t, s.MFAToken())
	assert.Equal(t, "token-abc", s.Token())
}
