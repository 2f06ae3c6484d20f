package auth

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tts-eval-platform/backend/internal/datastore"
)

const sessionCookieName = "session_token"

// UserStore is the storage contract for account lookup and creation.
type UserStore interface {
	GetUserByUsername(username string) (*datastore.User, error)
	CreateUser(u *datastore.User) (int, error)
	UpdateLastLogin(userID int) error
}

// Handler serves registration, login and logout.
type Handler struct {
	store     UserStore
	sessions  *SessionStore
	cookieTTL int
	logger    zerolog.Logger
}

// NewHandler creates an auth handler. cookieTTLSeconds bounds the session
// cookie's MaxAge.
func NewHandler(store UserStore, sessions *SessionStore, cookieTTLSeconds int, logger zerolog.Logger) *Handler {
	return &Handler{
		store:     store,
		sessions:  sessions,
		cookieTTL: cookieTTLSeconds,
		logger:    logger.With().Str("component", "auth").Logger(),
	}
}

// RegisterPayload defines the expected JSON structure for registration.
type RegisterPayload struct {
	Username string `json:"username" binding:"required"`
	Fullname string `json:"fullname" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterHandler creates a new rater account.
func (h *Handler) RegisterHandler(c *gin.Context) {
	var payload RegisterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	if _, err := h.store.GetUserByUsername(payload.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	} else if !errors.Is(err, datastore.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check username"})
		return
	}

	salt, err := GenerateSalt()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	user := &datastore.User{
		Username:     payload.Username,
		Fullname:     sql.NullString{String: payload.Fullname, Valid: true},
		PasswordHash: HashPassword(payload.Password, salt),
		Salt:         sql.NullString{String: salt, Valid: true},
	}
	id, err := h.store.CreateUser(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	h.logger.Info().Int("user_id", id).Str("username", payload.Username).Msg("user registered")
	c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "user_id": id})
}

// LoginPayload defines the expected JSON structure for login requests.
type LoginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler verifies credentials, opens a session and sets the session
// cookie.
func (h *Handler) LoginHandler(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := h.store.GetUserByUsername(payload.Username)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	if !VerifyPassword(payload.Password, user.PasswordHash, user.Salt.String) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := h.store.UpdateLastLogin(user.ID); err != nil {
		h.logger.Warn().Err(err).Int("user_id", user.ID).Msg("failed to record login time")
	}

	sess := h.sessions.Create(user)
	// HttpOnly keeps the token away from scripts; Secure is left off for
	// local deployments without TLS.
	c.SetCookie(sessionCookieName, sess.Token, h.cookieTTL, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Login successful",
		"username": user.Username,
		"is_admin": user.IsAdmin,
	})
}

// LogoutHandler discards the session and clears the cookie.
func (h *Handler) LogoutHandler(c *gin.Context) {
	if token, err := c.Cookie(sessionCookieName); err == nil {
		h.sessions.Delete(token)
	}
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
