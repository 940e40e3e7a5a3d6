package server

import (
	"net/http"
	"testing"

	"fizikblog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", signupRequest{
		Username: "physfan99",
		Email:    "physfan@example.com",
		Password: "correct-horse-1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body authResponse
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)
	require.NotNil(t, body.User)
	assert.Equal(t, "physfan99", body.User.Username)
	// The password hash never leaves the API.
	assert.Empty(t, body.User.Password)
}

func TestSignupDuplicate(t *testing.T) {
	srv, app, db := newTestServer(t)
	createAccount(t, srv, db, "physfan99", false)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", signupRequest{
		Username: "physfan99",
		Email:    "other@example.com",
		Password: "correct-horse-1",
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, models.CodeDuplicateIdentity, body.Code)
}

func TestSignupValidation(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", signupRequest{
		Username: "Bad Name",
		Email:    "physfan@example.com",
		Password: "correct-horse-1",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, models.CodeValidation, body.Code)
}

func TestSignin(t *testing.T) {
	srv, app, db := newTestServer(t)
	user, _ := createAccount(t, srv, db, "physfan99", false)

	t.Run("by username", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/signin", "", signinRequest{
			Identifier: "physfan99",
			Password:   "test-password-1",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body authResponse
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, user.ID, body.User.ID)
	})

	t.Run("by email", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/signin", "", signinRequest{
			Identifier: "physfan99@example.com",
			Password:   "test-password-1",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("wrong password and unknown identifier are identical", func(t *testing.T) {
		wrongPass := doRequest(t, app, http.MethodPost, "/api/auth/signin", "", signinRequest{
			Identifier: "physfan99",
			Password:   "wrong-password",
		})
		require.Equal(t, fiber.StatusUnauthorized, wrongPass.StatusCode)
		var wrongPassBody models.ErrorResponse
		decodeBody(t, wrongPass, &wrongPassBody)

		unknown := doRequest(t, app, http.MethodPost, "/api/auth/signin", "", signinRequest{
			Identifier: "whoisthis99",
			Password:   "test-password-1",
		})
		require.Equal(t, fiber.StatusUnauthorized, unknown.StatusCode)
		var unknownBody models.ErrorResponse
		decodeBody(t, unknown, &unknownBody)

		assert.Equal(t, wrongPassBody, unknownBody)
	})
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	_, app, _ := newTestServer(t)

	resp := doRequest(t, app, http.MethodPost, "/api/post", "", createPostRequest{
		Title: "Nope", Content: "Nope",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/post", "not-a-real-token", createPostRequest{
		Title: "Nope", Content: "Nope",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
