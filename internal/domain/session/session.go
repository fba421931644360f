package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/infrastructure/store"
	"go.uber.org/zap"
)

// StorageKey is where the signed-in user is kept in the client's KV
// namespace.
const StorageKey = "session.user"

var (
	ErrInvalidCredentials      = errors.New("email and a password of at least 6 characters are required")
	ErrInvalidRegistration     = errors.New("name, email and a password of at least 6 characters are required")
	ErrNotLoggedIn             = errors.New("not logged in")
	ErrEmailRequired           = errors.New("email cannot be empty")
	ErrPasswordMismatch        = errors.New("new password and confirmation do not match")
	ErrCurrentPasswordRequired = errors.New("current password is required to change password")
	ErrInvalidCurrentPassword  = errors.New("current password is incorrect")
	ErrIncompleteUser          = errors.New("backend returned a user without an id")
	ErrPasswordNotChanged      = errors.New("profile saved but password was not changed")
)

type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// ProfileUpdate carries the fields to merge into the current user. Nil
// fields are left unchanged. Setting NewPassword requests a password
// change.
type ProfileUpdate struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	CurrentPassword string  `json:"current_password,omitempty"`
	NewPassword     string  `json:"new_password,omitempty"`
	ConfirmPassword string  `json:"confirm_password,omitempty"`
}

func (u ProfileUpdate) validatePasswordChange() error {
	if u.NewPassword == "" {
		return nil
	}
	if u.NewPassword != u.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := auth.ValidatePassword(u.NewPassword); err != nil {
		return err
	}
	if u.CurrentPassword == "" {
		return ErrCurrentPasswordRequired
	}
	if auth.ValidatePassword(u.CurrentPassword) != nil {
		return ErrInvalidCurrentPassword
	}
	return nil
}

func (u ProfileUpdate) apply(user User) (User, []string) {
	var fields []string
	if u.Name != nil {
		user.Name = *u.Name
		fields = append(fields, "name")
	}
	if u.Email != nil {
		user.Email = *u.Email
		fields = append(fields, "email")
	}
	if u.Phone != nil {
		user.Phone = *u.Phone
		fields = append(fields, "phone")
	}
	if u.Address != nil {
		user.Address = *u.Address
		fields = append(fields, "address")
	}
	return user, fields
}

// Store holds the signed-in user for one client. It is not safe for
// concurrent use; callers serialise access.
type Store struct {
	id      string
	kv      store.KV
	gateway AuthGateway
	events  store.EventStoreInterface
	logger  *zap.Logger
	now     func() time.Time

	user         *User
	listeners    map[int]func(*User)
	nextListener int
}

// NewStore creates a logged-out session store. events may be nil.
func NewStore(id string, kv store.KV, gateway AuthGateway, events store.EventStoreInterface, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		id:        id,
		kv:        kv,
		gateway:   gateway,
		events:    events,
		logger:    logger.Named("session").With(zap.String("client_id", id)),
		now:       time.Now,
		listeners: make(map[int]func(*User)),
	}
}

// Restore loads the persisted user. A record that cannot be decoded is
// discarded and the session starts logged out.
func (s *Store) Restore(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		s.setUser(nil)
		return nil
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		s.logger.Warn("discarding malformed session record", zap.Error(err))
		if err := s.kv.Delete(ctx, StorageKey); err != nil {
			s.logger.Warn("failed to delete malformed session record", zap.Error(err))
		}
		s.setUser(nil)
		return nil
	}

	s.setUser(&user)
	return nil
}

// User returns a copy of the signed-in user.
func (s *Store) User() (User, bool) {
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Store) LoggedIn() bool {
	return s.user != nil
}

// Login signs in with mock validation: any non-empty email and a password
// of at least MinPasswordLength characters.
func (s *Store) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || auth.ValidatePassword(password) != nil {
		return ErrInvalidCredentials
	}

	user, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if user.ID == "" {
		return fmt.Errorf("login failed: %w", ErrIncompleteUser)
	}
	if err := s.persist(ctx, user); err != nil {
		return err
	}

	s.record(ctx, EventUserLoggedIn, UserLoggedIn{
		UserID:     user.ID,
		Email:      user.Email,
		LoggedInAt: s.now(),
	})
	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return nil
}

func (s *Store) Register(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || auth.ValidatePassword(password) != nil {
		return ErrInvalidRegistration
	}

	user, err := s.gateway.Register(ctx, name, email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if user.ID == "" {
		return fmt.Errorf("registration failed: %w", ErrIncompleteUser)
	}
	if err := s.persist(ctx, user); err != nil {
		return err
	}

	s.record(ctx, EventUserRegistered, UserRegistered{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		RegisteredAt: s.now(),
	})
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return nil
}

// UpdateProfile merges update into the signed-in user. Every validation
// runs before anything is changed. Profile fields are saved before the
// password is changed; if only the password change fails the error wraps
// ErrPasswordNotChanged.
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	if s.user == nil {
		return ErrNotLoggedIn
	}
	if err := update.validatePasswordChange(); err != nil {
		return err
	}
	if update.Email != nil && strings.TrimSpace(*update.Email) == "" {
		return ErrEmailRequired
	}

	merged, fields := update.apply(*s.user)

	if len(fields) > 0 {
		if err := s.saveProfile(ctx, merged, fields); err != nil {
			return err
		}
	}

	if update.NewPassword == "" {
		return nil
	}
	if err := s.gateway.ChangePassword(ctx, merged.ID, update.CurrentPassword, update.NewPassword); err != nil {
		if len(fields) > 0 {
			return fmt.Errorf("%w: %w", ErrPasswordNotChanged, err)
		}
		return fmt.Errorf("password change failed: %w", err)
	}
	s.record(ctx, EventUserPasswordChanged, UserPasswordChanged{
		UserID:    merged.ID,
		ChangedAt: s.now(),
	})
	return nil
}

// saveProfile pushes merged to the gateway and persists the result. A
// backend that answers without a user keeps the merged record.
func (s *Store) saveProfile(ctx context.Context, merged User, fields []string) error {
	updated, err := s.gateway.UpdateProfile(ctx, merged)
	if err != nil {
		return fmt.Errorf("profile update failed: %w", err)
	}
	if updated.ID == "" {
		s.logger.Debug("gateway returned no user, keeping merged profile", zap.String("user_id", merged.ID))
		updated = merged
	}
	if err := s.persist(ctx, updated); err != nil {
		return err
	}

	s.record(ctx, EventUserProfileUpdated, UserProfileUpdated{
		UserID:    updated.ID,
		Fields:    fields,
		UpdatedAt: s.now(),
	})
	return nil
}

// Logout clears the user and its persisted record. It always succeeds
// from the caller's point of view.
func (s *Store) Logout(ctx context.Context) {
	previous := s.user

	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		s.logger.Warn("failed to delete session record", zap.Error(err))
	}
	s.setUser(nil)

	if previous == nil {
		return
	}
	if err := s.gateway.Logout(ctx, previous.ID); err != nil {
		s.logger.Warn("gateway logout failed", zap.String("user_id", previous.ID), zap.Error(err))
	}
	s.record(ctx, EventUserLoggedOut, UserLoggedOut{
		UserID:      previous.ID,
		LoggedOutAt: s.now(),
	})
	s.logger.Info("user logged out", zap.String("user_id", previous.ID))
}

// Subscribe registers fn to be called with the current user (nil when
// logged out) after every change. The returned func removes it.
func (s *Store) Subscribe(fn func(*User)) func() {
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Store) persist(ctx context.Context, user User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.setUser(&user)
	return nil
}

func (s *Store) setUser(user *User) {
	s.user = user
	for _, fn := range s.listeners {
		if user == nil {
			fn(nil)
			continue
		}
		u := *user
		fn(&u)
	}
}

func (s *Store) record(ctx context.Context, eventType string, data any) {
	if s.events == nil {
		return
	}
	if _, err := s.events.Append(ctx, s.id, AggregateType, eventType, data); err != nil {
		s.logger.Warn("failed to record session event", zap.String("event_type", eventType), zap.Error(err))
	}
}
