package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/event-console/internal/core/domain"
	"github.com/99minutos/event-console/internal/core/ports"
	"github.com/99minutos/event-console/internal/metrics"
)

// UserManager keeps every user in memory, indexed by username with a
// secondary email index, and writes them back through the gateway on
// SaveAll. One mutex guards all records so multi-user invariants (friend
// symmetry, event fan-out, index rename) never interleave.
type UserManager struct {
	mu      sync.Mutex
	gateway ports.UserGateway
	users   map[string]*domain.User
	emails  map[string]string // email -> username
	opts    options
	log     zerolog.Logger
}

var _ ports.UserManager = (*UserManager)(nil)

// NewUserManager loads all users through gateway and builds the indexes.
// Stored data that violates username or email uniqueness is rejected.
func NewUserManager(ctx context.Context, gateway ports.UserGateway, log zerolog.Logger, opts ...Option) (*UserManager, error) {
	loaded, err := gateway.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	m := &UserManager{
		gateway: gateway,
		users:   make(map[string]*domain.User, len(loaded)),
		emails:  make(map[string]string, len(loaded)),
		opts:    buildOptions(opts),
		log:     log,
	}
	for i := range loaded {
		u := loaded[i].Clone()
		if err := m.insert(&u); err != nil {
			return nil, fmt.Errorf("load users: %q: %w", u.Username, err)
		}
	}

	m.log.Info().Int("users", len(m.users)).Msg("users loaded")
	return m, nil
}

func (m *UserManager) insert(u *domain.User) error {
	if _, ok := m.users[u.Username]; ok {
		return domain.ErrUsernameTaken
	}
	if _, ok := m.emails[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	m.users[u.Username] = u
	m.emails[u.Email] = u.Username
	return nil
}

func (m *UserManager) get(username string) (*domain.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// CreateUser hashes the password and registers a new user. Uniqueness is
// checked here; callers may still pre-check with IsUsernameUnique.
func (m *UserManager) CreateUser(username, password, email string, userType domain.UserType) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if !userType.Valid() {
		return domain.User{}, domain.ErrInvalidUserType
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.opts.hashCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		Username:        username,
		Email:           email,
		Password:        string(hash),
		Type:            userType,
		OwnedEvents:     []string{},
		AttendingEvents: []string{},
		Friends:         []string{},
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.insert(u); err != nil {
		return domain.User{}, err
	}

	metrics.UsersCreatedTotal.WithLabelValues(string(userType)).Inc()
	m.log.Info().Str("username", username).Str("user_type", string(userType)).Msg("user created")
	return u.Clone(), nil
}

// Lookup returns a copy of the user. Absence is reported as ErrUserNotFound.
func (m *UserManager) Lookup(username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return domain.User{}, err
	}
	return u.Clone(), nil
}

func (m *UserManager) IsUsernameUnique(username string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, taken := m.users[username]
	return !taken
}

func (m *UserManager) IsEmailUnique(email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, taken := m.emails[email]
	return !taken
}

// DeleteUser deletes every event the user owns (with the usual attendee
// fan-out), drops the user from all friend lists, then removes the record
// and its index entries.
func (m *UserManager) DeleteUser(username string) (*ports.DeletedUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return nil, err
	}

	owned := slices.Clone(u.OwnedEvents)
	for len(u.OwnedEvents) > 0 {
		m.deleteEvent(u, u.OwnedEvents[len(u.OwnedEvents)-1])
	}

	for _, name := range u.Friends {
		if friend, ok := m.users[name]; ok {
			friend.RemoveFriend(username)
		}
	}

	delete(m.users, username)
	delete(m.emails, u.Email)

	metrics.UsersDeletedTotal.Inc()
	m.log.Info().
		Str("username", username).
		Int("owned_events", len(owned)).
		Int("friends", len(u.Friends)).
		Msg("user deleted")

	return &ports.DeletedUser{
		Username:        username,
		OwnedEvents:     owned,
		AttendingEvents: slices.Clone(u.AttendingEvents),
	}, nil
}

// Usernames returns a sorted snapshot of every live username.
func (m *UserManager) Usernames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.users))
	for name := range m.users {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SaveAll writes every user through the gateway, replacing the stored set.
func (m *UserManager) SaveAll(ctx context.Context) error {
	m.mu.Lock()
	snapshot := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		snapshot = append(snapshot, u.Clone())
	}
	m.mu.Unlock()

	slices.SortFunc(snapshot, func(a, b domain.User) int { return strings.Compare(a.Username, b.Username) })

	start := time.Now()
	err := m.gateway.SaveAll(ctx, snapshot)
	metrics.SaveDuration.WithLabelValues("users").Observe(time.Since(start).Seconds())
	metrics.SavesTotal.WithLabelValues("users", metrics.Result(err)).Inc()
	if err != nil {
		m.log.Error().Err(err).Msg("failed to save users")
		return fmt.Errorf("save users: %w", err)
	}

	m.log.Info().Int("users", len(snapshot)).Msg("users saved")
	return nil
}

func (m *UserManager) UserType(username string) (domain.UserType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return "", err
	}
	return u.Type, nil
}

func (m *UserManager) ChangeUserType(username string, userType domain.UserType) error {
	if !userType.Valid() {
		return domain.ErrInvalidUserType
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.get(username)
	if err != nil {
		return err
	}
	u.Type = userType
	m.log.Info().Str("username", username).Str("user_type", string(userType)).Msg("user type changed")
	return nil
}
