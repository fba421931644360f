// Package memory provides offline gateways that stand in for the backend.
package memory

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/domain/session"
)

// AuthGateway fabricates accounts without a backend. Login always yields
// user "1"; registration ids are the registration time in Unix
// milliseconds. Passwords are kept only as bcrypt hashes.
type AuthGateway struct {
	mu        sync.Mutex
	now       func() time.Time
	passwords map[string]string // userID -> bcrypt hash
	profiles  map[string]session.User
}

func NewAuthGateway() *AuthGateway {
	return &AuthGateway{
		now:       time.Now,
		passwords: make(map[string]string),
		profiles:  make(map[string]session.User),
	}
}

func (g *AuthGateway) Login(_ context.Context, email, password string) (session.User, error) {
	name, _, _ := strings.Cut(email, "@")
	user := session.User{ID: "1", Email: email, Name: name}
	return user, g.remember(user, password)
}

func (g *AuthGateway) Register(_ context.Context, name, email, password string) (session.User, error) {
	user := session.User{
		ID:    strconv.FormatInt(g.now().UnixMilli(), 10),
		Email: email,
		Name:  name,
	}
	return user, g.remember(user, password)
}

func (g *AuthGateway) UpdateProfile(_ context.Context, user session.User) (session.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.profiles[user.ID] = user
	return user, nil
}

// ChangePassword stores the new hash. The current password is not checked
// against anything.
func (g *AuthGateway) ChangePassword(_ context.Context, userID, _, newPassword string) error {
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.passwords[userID] = hash
	return nil
}

func (g *AuthGateway) Logout(context.Context, string) error {
	return nil
}

// passwordMatches reports whether password is the last one recorded for
// userID.
func (g *AuthGateway) passwordMatches(userID, password string) bool {
	g.mu.Lock()
	hash, ok := g.passwords[userID]
	g.mu.Unlock()
	return ok && auth.CheckPassword(password, hash)
}

// profile returns the last profile pushed for userID.
func (g *AuthGateway) profile(userID string) (session.User, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	u, ok := g.profiles[userID]
	return u, ok
}

func (g *AuthGateway) remember(user session.User, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.passwords[user.ID] = hash
	g.profiles[user.ID] = user
	return nil
}
