package gatherly_test

import (
	"context"

	gatherly "github.com/goliatone/go-gatherly"
	"github.com/stretchr/testify/mock"
)

// MockCredentialStore implements gatherly.CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) FindByEmail(ctx context.Context, email string) (gatherly.Identity, error) {
	args := m.Called(ctx, email)
	identity, _ := args.Get(0).(gatherly.Identity)
	return identity, args.Error(1)
}

func (m *MockCredentialStore) FindByUsername(ctx context.Context, username string) (gatherly.Identity, error) {
	args := m.Called(ctx, username)
	identity, _ := args.Get(0).(gatherly.Identity)
	return identity, args.Error(1)
}

func (m *MockCredentialStore) VerifyPassword(ctx context.Context, identity gatherly.Identity, password string) error {
	args := m.Called(ctx, identity, password)
	return args.Error(0)
}

// MockTokenService implements gatherly.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(identity gatherly.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *gatherly.JWTClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (gatherly.AuthClaims, error) {
	args := m.Called(tokenString)
	claims, _ := args.Get(0).(gatherly.AuthClaims)
	return claims, args.Error(1)
}

// MockCurrentUserAccessor implements gatherly.CurrentUserAccessor
type MockCurrentUserAccessor struct {
	mock.Mock
}

func (m *MockCurrentUserAccessor) CurrentUsername(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockLogger implements gatherly.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// TestIdentity is a plain value identity used across handler tests
type TestIdentity struct {
	Name    string
	Display string
	Image   string
}

func (t TestIdentity) Username() string {
	return t.Name
}

func (t TestIdentity) DisplayName() string {
	return t.Display
}

func (t TestIdentity) ImageURL() string {
	return t.Image
}
