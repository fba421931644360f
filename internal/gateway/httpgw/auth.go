package httpgw

import (
	"context"
	"net/http"
	"net/url"

	"github.com/example/storefront/internal/domain/session"
)

type AuthGateway struct {
	client *Client
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client}
}

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	User session.User `json:"user"`
}

func (g *AuthGateway) Login(ctx context.Context, email, password string) (session.User, error) {
	var resp userResponse
	err := g.client.do(ctx, http.MethodPost, "/auth/login", credentials{Email: email, Password: password}, &resp)
	return resp.User, err
}

func (g *AuthGateway) Register(ctx context.Context, name, email, password string) (session.User, error) {
	var resp userResponse
	err := g.client.do(ctx, http.MethodPost, "/auth/register", credentials{Name: name, Email: email, Password: password}, &resp)
	return resp.User, err
}

func (g *AuthGateway) UpdateProfile(ctx context.Context, user session.User) (session.User, error) {
	var resp userResponse
	err := g.client.do(ctx, http.MethodPut, "/users/"+url.PathEscape(user.ID), user, &resp)
	return resp.User, err
}

func (g *AuthGateway) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	body := struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}{currentPassword, newPassword}
	return g.client.do(ctx, http.MethodPost, "/users/"+url.PathEscape(userID)+"/password", body, nil)
}

func (g *AuthGateway) Logout(ctx context.Context, userID string) error {
	body := struct {
		UserID string `json:"user_id"`
	}{userID}
	return g.client.do(ctx, http.MethodPost, "/auth/logout", body, nil)
}
