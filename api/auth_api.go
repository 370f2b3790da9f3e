package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email and password. On a successful response the
// returned token pair is written to storage before the response is returned.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.request(ctx, "/auth/login", requestOptions{
		method: http.MethodPost,
		body:   loginRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Success {
		if err := c.tokens.SetTokens(resp.Data.Token, resp.Data.RefreshToken); err != nil {
			return nil, errors.Wrap(err, "[Client.Login] tokens.SetTokens")
		}
	}
	return &resp, nil
}

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	AcceptTerms bool   `json:"acceptTerms"`
}

// Register creates an account. It never stores tokens; the account is usable
// only after email verification and a regular login.
func (c *Client) Register(ctx context.Context, name, email, password string) (*RegisterResponse, error) {
	var resp RegisterResponse
	err := c.request(ctx, "/auth/register", requestOptions{
		method: http.MethodPost,
		body:   registerRequest{Name: name, Email: email, Password: password, AcceptTerms: true},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

type socialLoginRequest struct {
	Provider    string `json:"provider"`
	IDToken     string `json:"idToken"`
	AccessToken string `json:"accessToken"`
}

// SocialLogin exchanges a provider token the client acquired itself.
func (c *Client) SocialLogin(ctx context.Context, provider, idToken, accessToken string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.request(ctx, "/auth/social-login", requestOptions{
		method: http.MethodPost,
		body:   socialLoginRequest{Provider: provider, IDToken: idToken, AccessToken: accessToken},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return c.storeExchangedTokens(&resp)
}

// ExchangeGoogleToken trades the Google ID token from the backend's OAuth
// redirect for a first-party token pair.
func (c *Client) ExchangeGoogleToken(ctx context.Context, idToken string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.request(ctx, "/auth/google/exchange", requestOptions{
		method: http.MethodPost,
		body:   map[string]string{"idToken": idToken},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return c.storeExchangedTokens(&resp)
}

// ExchangeFacebookToken trades the Facebook access token from the backend's
// OAuth redirect for a first-party token pair.
func (c *Client) ExchangeFacebookToken(ctx context.Context, accessToken string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.request(ctx, "/auth/facebook/exchange", requestOptions{
		method: http.MethodPost,
		body:   map[string]string{"accessToken": accessToken},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return c.storeExchangedTokens(&resp)
}

// storeExchangedTokens persists the pair when the response carries both
// halves. A response missing either half is returned untouched; the caller
// decides whether that is terminal.
func (c *Client) storeExchangedTokens(resp *TokenResponse) (*TokenResponse, error) {
	access := resp.Data.AccessTokenValue()
	refresh := resp.Data.RefreshTokenValue()
	if resp.Success && access != "" && refresh != "" {
		if err := c.tokens.SetTokens(access, refresh); err != nil {
			return nil, errors.Wrap(err, "[Client.storeExchangedTokens] tokens.SetTokens")
		}
	}
	return resp, nil
}

// SendVerificationEmail asks the backend to resend the verification mail.
func (c *Client) SendVerificationEmail(ctx context.Context, email string) (*StatusResponse, error) {
	var resp StatusResponse
	err := c.request(ctx, "/auth/send-verification-email", requestOptions{
		method: http.MethodPost,
		body:   map[string]string{"email": email},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyEmail confirms the address with the mailed code.
func (c *Client) VerifyEmail(ctx context.Context, email, verificationCode string) (*StatusResponse, error) {
	var resp StatusResponse
	err := c.request(ctx, "/auth/verify-email", requestOptions{
		method: http.MethodPost,
		body:   map[string]string{"email": email, "verificationCode": verificationCode},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangePassword replaces the password of the authenticated account.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) (*StatusResponse, error) {
	var resp StatusResponse
	err := c.request(ctx, "/auth/change-password", requestOptions{
		method:       http.MethodPost,
		body:         map[string]string{"currentPassword": currentPassword, "newPassword": newPassword},
		requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*StatusResponse, error) {
	var resp StatusResponse
	err := c.request(ctx, "/auth/forgot-password", requestOptions{
		method: http.MethodPost,
		body:   map[string]string{"email": email},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ResetPassword(ctx context.Context, email, resetToken, newPassword string) (*StatusResponse, error) {
	var resp StatusResponse
	err := c.request(ctx, "/auth/reset-password", requestOptions{
		method: http.MethodPost,
		body:   map[string]string{"email": email, "resetToken": resetToken, "newPassword": newPassword},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken trades the stored refresh token for a fresh pair. The refresh
// token travels in the body, not the Authorization header.
func (c *Client) RefreshToken(ctx context.Context) (*TokenResponse, error) {
	refresh := c.tokens.RefreshToken()
	if refresh == "" {
		return nil, &ValidationError{Message: "No refresh token available"}
	}
	var resp TokenResponse
	err := c.request(ctx, "/auth/refresh-token", requestOptions{
		method: http.MethodPost,
		body:   map[string]string{"refreshToken": refresh},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Success {
		if err := c.tokens.SetTokens(resp.Data.AccessTokenValue(), resp.Data.RefreshTokenValue()); err != nil {
			return nil, errors.Wrap(err, "[Client.RefreshToken] tokens.SetTokens")
		}
	}
	return &resp, nil
}

// Logout revokes the refresh token server-side and clears the stored pair on
// success. Callers clear local state regardless of the outcome here.
func (c *Client) Logout(ctx context.Context) (*StatusResponse, error) {
	refresh := c.tokens.RefreshToken()
	var resp StatusResponse
	err := c.request(ctx, "/auth/logout", requestOptions{
		method:       http.MethodPost,
		body:         map[string]string{"refreshToken": refresh},
		requiresAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Success {
		if err := c.tokens.ClearTokens(); err != nil {
			return nil, errors.Wrap(err, "[Client.Logout] tokens.ClearTokens")
		}
	}
	return &resp, nil
}
