package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

var defaultNames = map[models.Role]string{
	models.RoleOwner: "Administrador",
	models.RoleUser:  "Usuario",
}

// Manager holds the login sessions handed out to clients. Sessions expire ttl
// after login; expired entries are dropped on lookup and on every login.
type Manager struct {
	sessions map[string]*models.Session
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates an empty session manager.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login opens a session for the chosen role. The role is trusted as given.
func (m *Manager) Login(role models.Role, name string) (*models.Session, error) {
	if !role.Valid() {
		return nil, models.NewValidationError("role", "must be user or owner")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultNames[role]
	}

	now := m.now()
	sess := &models.Session{
		Token:     uuid.NewString(),
		Role:      role,
		Name:      name,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(now)
	m.sessions[sess.Token] = sess

	return sess, nil
}

// Get retrieves a live session for a token.
func (m *Manager) Get(token string) (*models.Session, bool) {
	m.mu.RLock()
	sess, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if sess.Expired(m.now()) {
		m.Logout(token)
		return nil, false
	}
	return sess, true
}

// Logout removes a session. Unknown tokens are ignored.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Len reports how many sessions are held, expired ones included.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// sweep drops expired sessions. The caller holds the write lock.
func (m *Manager) sweep(now time.Time) {
	for token, sess := range m.sessions {
		if sess.Expired(now) {
			delete(m.sessions, token)
		}
	}
}
