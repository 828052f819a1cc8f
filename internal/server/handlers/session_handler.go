package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

// SessionHeader carries the token returned at login.
const SessionHeader = "X-Session-Token"

const sessionContextKey = "session"

// SessionManager opens and closes login sessions.
type SessionManager interface {
	Login(role models.Role, name string) (*models.Session, error)
	Get(token string) (*models.Session, bool)
	Logout(token string)
}

// SessionHandler exposes login and logout.
type SessionHandler struct {
	sessions SessionManager
	logger   *zap.Logger
}

// NewSessionHandler constructs the session endpoints.
func NewSessionHandler(sessions SessionManager, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{sessions: sessions, logger: logger}
}

type loginRequest struct {
	Role models.Role `json:"role"`
	Name string      `json:"name"`
}

// Login opens a session for the chosen role.
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid login payload", err)
		return
	}

	sess, err := h.sessions.Login(req.Role, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("session opened", zap.String("role", string(sess.Role)))
	c.JSON(http.StatusCreated, sess)
}

// Logout closes the caller's session.
func (h *SessionHandler) Logout(c *gin.Context) {
	if token := c.GetHeader(SessionHeader); token != "" {
		h.sessions.Logout(token)
	}
	c.Status(http.StatusNoContent)
}

// Me returns the caller's session.
func (h *SessionHandler) Me(c *gin.Context) {
	sess := CurrentSession(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// LoadSession attaches the session named by the request header, if any.
func (h *SessionHandler) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := c.GetHeader(SessionHeader); token != "" {
			if sess, ok := h.sessions.Get(token); ok {
				c.Set(sessionContextKey, sess)
			}
		}
		c.Next()
	}
}

// RequireOwner rejects requests without an owner session.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).IsOwner() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "owner session required"})
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session loaded for the request, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := value.(*models.Session)
	return sess
}
