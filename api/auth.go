package api

import (
	"context"
	"net/http"

	"github.com/tradelog/tradelog/session"
)

// Login authenticates with email and password and establishes the session.
func (c *Client) Login(ctx context.Context, email, password string) (*session.User, error) {
	body := map[string]string{"email": email, "password": password}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login/", body, &resp); err != nil {
		return nil, err
	}

	c.sessions.LoginSuccess(resp.Access, resp.Refresh, resp.User)
	return resp.User, nil
}

// Logout invalidates the refresh token server-side, then clears the session.
// The local session is cleared even when the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	refresh := c.sessions.RefreshToken()
	defer c.sessions.Logout()

	if refresh == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/auth/logout/", map[string]string{"refresh": refresh}, nil)
}

// Register creates a new account. The caller still has to log in afterwards.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/register/", body, nil)
}

// ForgotPassword asks the backend to email a password-reset OTP.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password/", map[string]string{"email": email}, nil)
}

// VerifyOTP checks a password-reset code before the new password is sent.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*OTPVerification, error) {
	body := map[string]string{"email": email, "otp": otp}

	var resp OTPVerification
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp/", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword sets a new password using a verified OTP.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	body := map[string]string{"email": email, "otp": otp, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password/", body, nil)
}
