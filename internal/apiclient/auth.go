package apiclient

import (
	"context"
	"fmt"

	"github.com/ruta66/motoclub/internal/domain"
	"github.com/ruta66/motoclub/internal/events"
)

type LoginResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	User    domain.User `json:"user"`
}

// Login exchanges credentials for a token pair. The backend accepts the email
// in both the email and username fields.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
		"username": email,
	}

	var resp LoginResponse
	if err := c.postJSON(ctx, "/api/auth/jwt/login/", body, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshAccess mints a new access token. The refresh token itself is not
// rotated by this endpoint.
func (c *Client) RefreshAccess(ctx context.Context, refresh string) (string, error) {
	body := map[string]string{"refresh": refresh}

	var resp struct {
		Access string `json:"access"`
	}
	if err := c.postJSON(ctx, "/api/auth/jwt-refresh/", body, &resp, false); err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", fmt.Errorf("refresh response carried no access token")
	}
	return resp.Access, nil
}

type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// Register creates a new account. The caller logs in separately afterwards.
func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	return c.postJSON(ctx, "/api/auth/register/", input, nil, false)
}

// UpdateMe applies a partial profile update and returns the updated user.
func (c *Client) UpdateMe(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	var user domain.User
	if err := c.putJSON(ctx, "/api/users/me/", patch, &user, true); err != nil {
		return nil, err
	}
	c.publish(events.ProfileUpdated)
	return &user, nil
}

// DashboardOverview fetches the aggregate for the authenticated user.
func (c *Client) DashboardOverview(ctx context.Context) (*domain.DashboardOverview, error) {
	var overview domain.DashboardOverview
	if err := c.getJSON(ctx, "/api/dashboard/overview/", &overview, true); err != nil {
		return nil, err
	}
	return &overview, nil
}
