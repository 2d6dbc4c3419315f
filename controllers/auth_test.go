package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminPassword = "correct horse battery staple"

func setAdminEnv(t *testing.T) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", string(hash))
	t.Setenv("ADMIN_PASSWORD_HASH_B64", "")
}

func sessionFromResponse(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	app := setupApp(t)
	setAdminEnv(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/admin/login", map[string]string{
		"email":    "Admin@Example.com", // email match is case-insensitive
		"password": adminPassword,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := sessionFromResponse(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	// The issued cookie opens the protected surface.
	list := doJSON(t, app, fiber.MethodGet, "/api/enquiries", nil, withCookie(cookie))
	assert.Equal(t, fiber.StatusOK, list.StatusCode)
}

func TestLogin_BadCredentials(t *testing.T) {
	app := setupApp(t)
	setAdminEnv(t)

	for _, body := range []map[string]string{
		{"email": "admin@example.com", "password": "wrong"},
		{"email": "intruder@example.com", "password": adminPassword},
		{"email": "", "password": ""},
	} {
		resp := doJSON(t, app, fiber.MethodPost, "/api/admin/login", body)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Nil(t, sessionFromResponse(resp))
	}
}

func TestLogin_Misconfigured(t *testing.T) {
	app := setupApp(t)
	setAdminEnv(t)
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	resp := doJSON(t, app, fiber.MethodPost, "/api/admin/login", map[string]string{
		"email":    "admin@example.com",
		"password": adminPassword,
	})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "AUTH_MISCONFIGURED", decodeBody(t, resp)["code"])
}

func TestLogout_ClearsCookie(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/admin/logout", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := sessionFromResponse(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0 || !cookie.Expires.IsZero())
}

func TestEnvCheck(t *testing.T) {
	app := setupApp(t)
	setAdminEnv(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/admin/envcheck", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeBody(t, resp)["ok"])

	t.Setenv("AUTH_SECRET", "short")
	resp = doJSON(t, app, fiber.MethodGet, "/api/admin/envcheck", nil)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["ok"])
	assert.Contains(t, body["reason"], "AUTH_SECRET")
}
