package auth

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"tts-eval-platform/backend/internal/datastore"
)

// EnsureAdminUser creates the bootstrap admin account from configuration if
// it does not exist yet. A missing password is only a warning so the server
// can still start for rating-only use.
func EnsureAdminUser(store UserStore, username, password string, logger zerolog.Logger) error {
	if password == "" {
		logger.Warn().Msg("ADMIN_PASSWORD not set; skipping admin bootstrap")
		return nil
	}

	if _, err := store.GetUserByUsername(username); err == nil {
		return nil
	} else if !errors.Is(err, datastore.ErrNotFound) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	salt, err := GenerateSalt()
	if err != nil {
		return err
	}

	admin := &datastore.User{
		Username:     username,
		Fullname:     sql.NullString{String: "Admin System", Valid: true},
		PasswordHash: HashPassword(password, salt),
		Salt:         sql.NullString{String: salt, Valid: true},
		IsAdmin:      true,
	}
	id, err := store.CreateUser(admin)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info().Int("user_id", id).Str("username", username).Msg("admin user created")
	return nil
}
