package session

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"swizzle-client/internal/models"
	"swizzle-client/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Store holds the client's session state: the bearer session token, the
// short-lived MFA challenge token, and the last-known staff profile. All
// three are opaque to the rest of the engine; callers only ask for the
// token to attach and whether a valid session exists.
type Store struct {
	mu       sync.Mutex
	token    string
	mfaToken string
	user     *models.StaffUser
	filePath string
	logger   *zap.Logger
}

// persisted is the on-disk shape. The MFA challenge token is deliberately
// not persisted; it is short-lived and only meaningful mid-login.
type persisted struct {
	Token string            `json:"token"`
	User  *models.StaffUser `json:"user,omitempty"`
}

// NewStore creates a session store, restoring any previously saved session
// when filePath is non-empty.
func NewStore(filePath string) *Store {
	s := &Store{
		filePath: filePath,
		logger:   util.GetLogger(),
	}
	s.restore()
	return s
}

// Token returns the bearer session token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// MFAToken returns the pending MFA challenge token, or "".
func (s *Store) MFAToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mfaToken
}

// StoreMFAToken keeps the challenge token for the verify/confirm step.
func (s *Store) StoreMFAToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mfaToken = token
}

// ClearMFAToken drops the challenge token.
func (s *Store) ClearMFAToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mfaToken = ""
}

// CompleteLogin stores the final full token and profile after all auth
// steps finish, and drops any pending MFA challenge.
func (s *Store) CompleteLogin(token string, user models.StaffUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	s.mfaToken = ""
	s.persist()
}

// CurrentUser returns the last-known profile, or nil when logged out.
func (s *Store) CurrentUser() *models.StaffUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Valid reports whether a usable session exists. The token's exp claim is
// read with an unverified parse; signature checking is the server's job,
// the client only avoids sending a token it already knows is dead. Tokens
// without an exp claim count as valid until the server says otherwise.
func (s *Store) Valid() bool {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		return false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		// Opaque non-JWT token; let the server decide.
		return true
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return time.Now().Before(exp.Time)
}

// Clear tears the whole session down. Used on logout and on a 401 from any
// protected endpoint.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.mfaToken = ""
	s.user = nil
	s.persist()
}

func (s *Store) restore() {
	if s.filePath == "" {
		return
	}

	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}

	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		s.logger.Warn("Discarding unreadable session file", zap.Error(err))
		return
	}

	s.token = p.Token
	s.user = p.User
}

func (s *Store) persist() {
	if s.filePath == "" {
		return
	}

	p := persisted{Token: s.token, User: s.user}
	raw, err := json.Marshal(p)
	if err != nil {
		s.logger.Error("Failed to encode session", zap.Error(err))
		return
	}

	if err := os.WriteFile(s.filePath, raw, 0o600); err != nil {
		s.logger.Error("Failed to persist session", zap.Error(err))
	}
}
