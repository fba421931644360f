package session

import "context"

// AuthGateway is the backend collaborator that owns real accounts. The
// session store validates input before calling it.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (User, error)
	Register(ctx context.Context, name, email, password string) (User, error)
	UpdateProfile(ctx context.Context, user User) (User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Logout(ctx context.Context, userID string) error
}
