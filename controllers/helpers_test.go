package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"enquiries-backend/database"
	"enquiries-backend/middlewares"
	"enquiries-backend/models"
	"enquiries-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var dbSeq atomic.Int64

// setupApp builds the full middleware + route stack over a fresh in-memory
// database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("AUTH_SECRET", testSecret)

	// A named shared-cache DB so the pool's connections all see one store.
	dsn := fmt.Sprintf("file:controllers_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Enquiry{},
		&models.EnquiryContext{},
		&models.EnquiryPartEx{},
		&models.AuditLog{},
		&models.IdempotencyKey{},
	))
	database.DB = db

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	app.Use(middlewares.Gatekeeper())
	routes.Register(app)
	return app
}

func sessionCookie(t *testing.T, email, role string) *http.Cookie {
	t.Helper()
	token, err := middlewares.GenerateSession(email, role)
	require.NoError(t, err)
	return &http.Cookie{Name: middlewares.SessionCookie, Value: token}
}

type reqOpt func(*http.Request)

func withCookie(c *http.Cookie) reqOpt {
	return func(r *http.Request) { r.AddCookie(c) }
}

func withHeader(key, value string) reqOpt {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, opts ...reqOpt) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for _, opt := range opts {
		opt(req)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return b
}
