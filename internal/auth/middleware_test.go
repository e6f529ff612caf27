package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Behnamfe76/user-auth-service/internal/domain"
	"github.com/Behnamfe76/user-auth-service/internal/repository"
)

type recorderStub struct {
	outcomes []string
}

func (r *recorderStub) RecordAuthDecision(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

type pipeline struct {
	app      *fiber.App
	tokens   *TokenManager
	store    *mockUserStore
	recorder *recorderStub
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrTokenNotProvided), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrUserNoLongerExists):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermissionsDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func newPipeline(t *testing.T, pre ...fiber.Handler) *pipeline {
	t.Helper()

	p := &pipeline{
		tokens:   NewTokenManager("s3cr3t", 15*time.Minute),
		store:    &mockUserStore{},
		recorder: &recorderStub{},
	}
	authn := NewAuthenticator(p.tokens, NewIdentityResolver(p.store), p.recorder)
	mw := NewAuthMiddleware(authn, "")

	p.app = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(statusFor(err)).SendString(err.Error())
		},
	})
	for _, h := range pre {
		p.app.Use(h)
	}

	whoami := func(c *fiber.Ctx) error {
		user, ok := CurrentIdentity(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(user.ID)
	}
	p.app.Get("/me", mw.Handle, RequireAuthenticated(), whoami)
	p.app.Get("/admin", mw.Handle, RequireRoles(domain.UserRoleAdmin), whoami)
	p.app.Get("/members", mw.Handle, RequireRoles(domain.UserRoleUser, domain.UserRoleAdmin), whoami)
	p.app.Get("/public", whoami)
	p.app.Get("/misconfigured", RequireRoles(domain.UserRoleAdmin), whoami)
	return p
}

func (p *pipeline) token(t *testing.T, subject string) string {
	t.Helper()
	token, _, err := p.tokens.Issue(subject)
	require.NoError(t, err)
	return token
}

func (p *pipeline) do(t *testing.T, req *http.Request) (int, string) {
	t.Helper()
	resp, err := p.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddlewareBearerHeader(t *testing.T) {
	p := newPipeline(t)
	p.store.On("FindByID", mock.Anything, "u1").Return(testUser("u1", domain.UserRoleUser), nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+p.token(t, "u1"))

	status, body := p.do(t, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u1", body)
	p.store.AssertNumberOfCalls(t, "FindByID", 1)
	assert.Equal(t, []string{"authenticated"}, p.recorder.outcomes)
}

func TestAuthMiddlewareCookieFallback(t *testing.T) {
	p := newPipeline(t)
	p.store.On("FindByID", mock.Anything, "u1").Return(testUser("u1", domain.UserRoleUser), nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: DefaultTokenCookie, Value: p.token(t, "u1")})

	status, body := p.do(t, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u1", body)
}

func TestAuthMiddlewareHeaderTakesPrecedence(t *testing.T) {
	p := newPipeline(t)
	p.store.On("FindByID", mock.Anything, "u1").Return(testUser("u1", domain.UserRoleUser), nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	req.AddCookie(&http.Cookie{Name: DefaultTokenCookie, Value: p.token(t, "u1")})

	status, body := p.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, ErrInvalidToken.Error(), body)
	p.store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAuthMiddlewareIgnoresNonBearerHeader(t *testing.T) {
	p := newPipeline(t)
	p.store.On("FindByID", mock.Anything, "u1").Return(testUser("u1", domain.UserRoleUser), nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	req.AddCookie(&http.Cookie{Name: DefaultTokenCookie, Value: p.token(t, "u1")})

	status, _ := p.do(t, req)
	assert.Equal(t, http.StatusOK, status)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	p := newPipeline(t)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Token abc"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		status, body := p.do(t, req)
		assert.Equal(t, http.StatusUnauthorized, status, header)
		assert.Equal(t, ErrTokenNotProvided.Error(), body, header)
	}
	p.store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	assert.Equal(t, []string{"token_not_provided", "token_not_provided", "token_not_provided", "token_not_provided"}, p.recorder.outcomes)
}

func TestAuthMiddlewareForeignSecret(t *testing.T) {
	p := newPipeline(t)
	token, _, err := IssueToken("u1", []byte("other"), time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	status, body := p.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, ErrInvalidToken.Error(), body)
	assert.Equal(t, []string{"invalid_token"}, p.recorder.outcomes)
}

func TestAuthMiddlewareDeletedUser(t *testing.T) {
	p := newPipeline(t)
	p.store.On("FindByID", mock.Anything, "u1").Return(nil, repository.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+p.token(t, "u1"))

	status, body := p.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, ErrUserNoLongerExists.Error(), body)
	assert.Equal(t, []string{"user_no_longer_exists"}, p.recorder.outcomes)
}

func TestAuthMiddlewareStoreFailure(t *testing.T) {
	p := newPipeline(t)
	p.store.On("FindByID", mock.Anything, "u1").Return(nil, errors.New("db down"))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+p.token(t, "u1"))

	status, _ := p.do(t, req)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, []string{"server_error"}, p.recorder.outcomes)
}

func TestAuthMiddlewareCancelledRequest(t *testing.T) {
	cancelled := func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(c.UserContext())
		cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
	p := newPipeline(t, cancelled)
	p.store.On("FindByID", mock.Anything, "u1").Return(testUser("u1", domain.UserRoleUser), nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+p.token(t, "u1"))

	status, body := p.do(t, req)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotEqual(t, "u1", body)
}

func TestRoleGuard(t *testing.T) {
	p := newPipeline(t)
	p.store.On("FindByID", mock.Anything, "u1").Return(testUser("u1", domain.UserRoleUser), nil)
	p.store.On("FindByID", mock.Anything, "a1").Return(testUser("a1", domain.UserRoleAdmin), nil)

	cases := []struct {
		path    string
		subject string
		status  int
	}{
		{"/admin", "u1", http.StatusForbidden},
		{"/admin", "a1", http.StatusOK},
		{"/members", "u1", http.StatusOK},
		{"/members", "a1", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+p.token(t, tc.subject))
		status, body := p.do(t, req)
		assert.Equal(t, tc.status, status, "%s as %s", tc.path, tc.subject)
		if tc.status == http.StatusForbidden {
			assert.Equal(t, ErrPermissionsDenied.Error(), body)
		}
	}
}

func TestRoleGuardNeverRunsAfterDenial(t *testing.T) {
	p := newPipeline(t)

	status, body := p.do(t, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, ErrTokenNotProvided.Error(), body)
}

func TestRoleGuardWithoutAuthMiddleware(t *testing.T) {
	p := newPipeline(t)

	status, _ := p.do(t, httptest.NewRequest(http.MethodGet, "/misconfigured", nil))
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestIdentityIsRequestScoped(t *testing.T) {
	p := newPipeline(t)
	p.store.On("FindByID", mock.Anything, "u1").Return(testUser("u1", domain.UserRoleUser), nil)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+p.token(t, "u1"))
	status, _ := p.do(t, req)
	require.Equal(t, http.StatusOK, status)

	status, body := p.do(t, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "anonymous", body)
}

func TestCheckRole(t *testing.T) {
	user := testUser("u1", domain.UserRoleUser)

	assert.ErrorIs(t, CheckRole(user, domain.UserRoleAdmin), ErrPermissionsDenied)
	assert.NoError(t, CheckRole(user, domain.UserRoleUser, domain.UserRoleAdmin))
	assert.ErrorIs(t, CheckRole(user), ErrPermissionsDenied)
	assert.ErrorIs(t, CheckRole(nil, domain.UserRoleUser), ErrServerError)
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	_, ok = bearerToken("Bearerabc")
	assert.False(t, ok)
}
