package api

import (
	"context"
	"net/http"

	"github.com/FlowFeed/feed-client/internal/dto"
)

func (c *Client) Login(ctx context.Context, email string, password string) (*dto.AuthResponse, error) {
	body, err := jsonBody(dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, &AuthError{Message: "Login failed", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/authenticate/login", nil, body, "application/json", false)
	if err != nil {
		return nil, &AuthError{Message: "Login failed", Err: err}
	}

	var resp dto.AuthResponse
	status, msg, err := c.do(req, &resp)
	if err != nil {
		c.logger.Sugar().Errorf("login request failed: %s", err.Error())
		return nil, &AuthError{Message: "Login failed", Err: err}
	}
	if status != http.StatusOK {
		return nil, &AuthError{Message: messageOr(msg, "Login failed")}
	}

	return &resp, nil
}

func (c *Client) Register(ctx context.Context, input dto.RegisterRequest) (string, error) {
	body, err := jsonBody(input)
	if err != nil {
		return "", &AuthError{Message: "Signup failed", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/authenticate/register", nil, body, "application/json", false)
	if err != nil {
		return "", &AuthError{Message: "Signup failed", Err: err}
	}

	var resp dto.BasicResponse
	status, msg, err := c.do(req, &resp)
	if err != nil {
		c.logger.Sugar().Errorf("register request failed: %s", err.Error())
		return "", &AuthError{Message: "Signup failed", Err: err}
	}
	if status != http.StatusOK {
		return "", &AuthError{Message: messageOr(msg, "Signup failed")}
	}

	return resp.Msg, nil
}

func (c *Client) VerifyOTP(ctx context.Context, input dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	body, err := jsonBody(input)
	if err != nil {
		return nil, &AuthError{Message: "OTP verification failed", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/authenticate/verify", nil, body, "application/json", false)
	if err != nil {
		return nil, &AuthError{Message: "OTP verification failed", Err: err}
	}

	var resp dto.AuthResponse
	status, msg, err := c.do(req, &resp)
	if err != nil {
		c.logger.Sugar().Errorf("verify otp request failed: %s", err.Error())
		return nil, &AuthError{Message: "OTP verification failed", Err: err}
	}
	if status != http.StatusOK {
		return nil, &AuthError{Message: messageOr(msg, "OTP verification failed")}
	}

	return &resp, nil
}

// VerifyToken validates the given credential with the server. An explicit
// rejection wraps ErrInvalidToken; a transport failure does not, so callers
// can tell an invalid credential apart from a dead network.
func (c *Client) VerifyToken(ctx context.Context, token string) (*dto.UserDetail, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/authenticate/verifywithCookie", nil, nil, "", false)
	if err != nil {
		return nil, &AuthError{Message: "Session check failed", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var resp dto.VerifyTokenResponse
	status, msg, err := c.do(req, &resp)
	if err != nil {
		c.logger.Sugar().Errorf("verify token request failed: %s", err.Error())
		return nil, &AuthError{Message: "Session check failed", Err: err}
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, &AuthError{Message: messageOr(msg, "Session expired"), Err: ErrInvalidToken}
	}
	if status != http.StatusOK {
		return nil, &AuthError{Message: messageOr(msg, "Session check failed")}
	}

	return &resp.UserData, nil
}
