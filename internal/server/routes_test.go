package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"astra/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Mounts the complete route table so path precedence is exercised the way
// production sees it, instead of registering handlers one at a time.
func TestRoutes_MyProfileBeatsIDWildcard(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	require.NoError(t, err)
	demo := &models.User{ID: 7, Email: "demo@example.com", Username: "demo_user", Password: string(hashed)}

	s, mocks := newTestServer()
	mocks.users.On("GetByEmail", mock.Anything, "demo@example.com").Return(demo, nil)
	mocks.users.On("GetByID", mock.Anything, uint(7)).Return(demo, nil)
	mocks.users.On("CountPosts", mock.Anything, uint(7)).Return(int64(4), nil)
	mocks.follows.On("CountFollowers", mock.Anything, uint(7)).Return(int64(2), nil)
	mocks.follows.On("CountFollowing", mock.Anything, uint(7)).Return(int64(3), nil)

	app := fiber.New()
	s.SetupRoutes(app)

	loginResp := postJSON(t, app, "/api/auth/login", map[string]string{
		"email":    "demo@example.com",
		"password": "password",
	})
	defer func() { _ = loginResp.Body.Close() }()
	require.Equal(t, http.StatusOK, loginResp.StatusCode)

	var pair struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(loginResp.Body).Decode(&pair))

	t.Run("GET /api/users/me resolves to the caller's profile", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var profile map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
		assert.Equal(t, float64(7), profile["id"])
		assert.Equal(t, "demo_user", profile["username"])
	})

	t.Run("GET /api/users/me requires a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("GET /api/users/:id still matches numeric ids", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/7", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var profile map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
		assert.Equal(t, float64(7), profile["id"])
	})
}
