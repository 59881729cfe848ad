// Package client is the consumer-side counterpart to the auth endpoints: a
// thin HTTP API client plus a session store that keeps the authenticated
// user and token in lockstep and notifies dependents synchronously.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goliatone/go-errors"
)

// AuthenticatedUser mirrors the server response shape.
type AuthenticatedUser struct {
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	Token       string `json:"token"`
	Image       string `json:"image,omitempty"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Password    string `json:"password"`
}

// ErrUnauthorized is returned for any 401 response, regardless of whether
// the account exists.
var ErrUnauthorized = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("UNAUTHORIZED")

// API performs the auth HTTP calls against a server base URL.
type API struct {
	baseURL string
	http    *http.Client
}

type APIOption func(*API) *API

func WithHTTPClient(hc *http.Client) APIOption {
	return func(a *API) *API {
		if hc != nil {
			a.http = hc
		}
		return a
	}
}

func NewAPI(baseURL string, opts ...APIOption) *API {
	a := &API{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		a = opt(a)
	}

	return a
}

// Login exchanges credentials for an authenticated user. The request body
// is the only place credentials travel; they are never logged or retained.
func (a *API) Login(ctx context.Context, req LoginRequest) (*AuthenticatedUser, error) {
	return a.doJSON(ctx, http.MethodPost, "/login", req, "", http.StatusOK)
}

// CurrentUser fetches the principal for a previously issued token. Every
// successful call carries a freshly issued token in the response.
func (a *API) CurrentUser(ctx context.Context, token string) (*AuthenticatedUser, error) {
	return a.doJSON(ctx, http.MethodGet, "/currentUser", nil, token, http.StatusOK)
}

// Register creates an account and returns it already authenticated.
func (a *API) Register(ctx context.Context, req RegisterRequest) (*AuthenticatedUser, error) {
	return a.doJSON(ctx, http.MethodPost, "/register", req, "", http.StatusCreated)
}

func (a *API) doJSON(ctx context.Context, method, path string, payload any, token string, wantStatus int) (*AuthenticatedUser, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to encode request body")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build request")
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := a.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "request failed")
	}
	defer res.Body.Close()

	if res.StatusCode != wantStatus {
		return nil, decodeFailure(res)
	}

	user := new(AuthenticatedUser)
	if err := json.NewDecoder(res.Body).Decode(user); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to decode response body")
	}

	return user, nil
}

func decodeFailure(res *http.Response) error {
	switch res.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest:
		var payload struct {
			Errors map[string][]string `json:"errors"`
			Error  string              `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&payload); err != nil || len(payload.Errors) == 0 {
			return errors.New("invalid request", errors.CategoryBadInput)
		}
		return errors.New("invalid request payload", errors.CategoryValidation).
			WithTextCode("VALIDATION").
			WithMetadata(map[string]any{"errors": payload.Errors})
	case http.StatusConflict:
		return errors.New("account already exists", errors.CategoryConflict)
	default:
		return errors.New(
			fmt.Sprintf("unexpected response status %d", res.StatusCode),
			errors.CategoryInternal,
		)
	}
}

// FieldErrors extracts the per-field validation messages carried by a
// request failure, reporting whether err was a validation failure.
func FieldErrors(err error) (map[string][]string, bool) {
	if err == nil {
		return nil, false
	}

	var rich *errors.Error
	if !errors.As(err, &rich) || rich.Category != errors.CategoryValidation {
		return nil, false
	}

	if rich.Metadata != nil {
		if fields, ok := rich.Metadata["errors"].(map[string][]string); ok {
			return fields, true
		}
	}

	return map[string][]string{}, true
}

// IsUnauthorized reports whether err maps to a 401 from the server.
func IsUnauthorized(err error) bool {
	if err == nil {
		return false
	}

	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.Category == errors.CategoryAuth
	}

	return false
}
