package service

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/event-console/internal/core/domain"
	"github.com/99minutos/event-console/internal/metrics"
)

// Login checks password against the stored hash and marks the user logged
// in. An outstanding temp password is accepted once and then cleared.
func (m *UserManager) Login(username, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		return err
	}

	result := "ok"
	switch {
	case bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil:
	case u.TempPassword != "" && subtle.ConstantTimeCompare([]byte(u.TempPassword), []byte(password)) == 1:
		u.TempPassword = ""
		result = "temp_password"
	default:
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		m.log.Debug().Str("username", username).Msg("login rejected")
		return domain.ErrInvalidCredentials
	}

	u.LoggedIn = true
	metrics.LoginsTotal.WithLabelValues(result).Inc()
	m.log.Info().Str("username", username).Str("method", result).Msg("user logged in")
	return nil
}

func (m *UserManager) Logout(username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return err
	}
	u.LoggedIn = false
	m.log.Info().Str("username", username).Msg("user logged out")
	return nil
}

// loggedIn returns the user only while it holds a session. Caller holds m.mu.
func (m *UserManager) loggedIn(username string) (*domain.User, error) {
	u, err := m.get(username)
	if err != nil {
		return nil, err
	}
	if !u.LoggedIn {
		return nil, domain.ErrNotLoggedIn
	}
	return u, nil
}

func (m *UserManager) UpdatePassword(username, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), m.opts.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.loggedIn(username)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	m.log.Info().Str("username", username).Msg("password updated")
	return nil
}

// UpdateUsername re-keys the user and rewrites the name in every friend's
// list so friendship stays symmetric. Event ownership records held outside
// this manager are the caller's to rename.
func (m *UserManager) UpdateUsername(username, newUsername string) error {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return domain.ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.loggedIn(username)
	if err != nil {
		return err
	}
	if newUsername == username {
		return nil
	}
	if _, taken := m.users[newUsername]; taken {
		return domain.ErrUsernameTaken
	}

	for _, name := range u.Friends {
		if friend, ok := m.users[name]; ok {
			friend.RenameFriend(username, newUsername)
		}
	}

	delete(m.users, username)
	u.Username = newUsername
	m.users[newUsername] = u
	m.emails[u.Email] = newUsername

	m.log.Info().Str("old", username).Str("new", newUsername).Msg("username updated")
	return nil
}

func (m *UserManager) UpdateEmail(username, newEmail string) error {
	newEmail = strings.TrimSpace(newEmail)
	if newEmail == "" {
		return domain.ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.loggedIn(username)
	if err != nil {
		return err
	}
	if newEmail == u.Email {
		return nil
	}
	if _, taken := m.emails[newEmail]; taken {
		return domain.ErrEmailTaken
	}

	delete(m.emails, u.Email)
	u.Email = newEmail
	m.emails[newEmail] = username

	m.log.Info().Str("username", username).Msg("email updated")
	return nil
}

// GenerateTempPassword issues a fresh temp password, replacing any previous
// one. Retrieve it with TempPassword.
func (m *UserManager) GenerateTempPassword(username string) error {
	pass, err := m.opts.tempPassword()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return err
	}
	u.TempPassword = pass
	m.log.Info().Str("username", username).Msg("temp password issued")
	return nil
}

// TempPassword returns the outstanding temp password, or "" when none.
func (m *UserManager) TempPassword(username string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return "", err
	}
	return u.TempPassword, nil
}
