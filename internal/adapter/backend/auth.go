package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"

	"golang.org/x/oauth2"
)

func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var resp dto.TokenResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/register/",
		body:   dto.RegisterRequest{Name: name, Email: email, Password: password},
		out:    &resp,
		public: true,
	})
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", domain.NewBackendError(http.StatusOK, "Registration succeeded but no token was returned.")
	}
	return resp.AccessToken, nil
}

// Login exchanges credentials for a token using the OAuth2 password grant on /token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauth.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return "", loginError(err)
	}
	return tok.AccessToken, nil
}

func loginError(err error) error {
	if re, ok := asRetrieveError(err); ok {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		msg := errorDetail(re.Body)
		if msg == "" {
			msg = "Login failed."
		}
		return domain.NewBackendError(status, msg)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return domain.NewTransportError(err)
	}
	loginErr := domain.NewBackendError(0, "Login failed.")
	loginErr.Err = err
	return loginErr
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp dto.MessageResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/forgot-password",
		body:   dto.ForgotPasswordRequest{Email: email},
		out:    &resp,
		public: true,
	})
	return resp.Message, err
}

func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) (string, error) {
	var resp dto.MessageResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/reset-password",
		body:   dto.ResetPasswordRequest{Token: resetToken, NewPassword: newPassword},
		out:    &resp,
		public: true,
	})
	return resp.Message, err
}
