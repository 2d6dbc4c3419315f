package middlewares

import (
	"strings"
	"time"

	"enquiries-backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// SessionCookie is the name of the single httpOnly session cookie.
const SessionCookie = "session"

// SessionTTL is the token lifetime, encoded in the token's own expiry.
const SessionTTL = 8 * time.Hour

// Roles carried in the session token. ADMIN and ANALYST may mutate;
// VIEWER is read-only.
const (
	RoleAdmin   = "ADMIN"
	RoleAnalyst = "ANALYST"
	RoleViewer  = "VIEWER"
)

// SessionUser is the verified identity behind a request. Never persisted;
// reconstructed per request from the signed cookie.
type SessionUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Claims is the session JWT payload.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// CanMutate reports whether the role may perform mutating actions.
func CanMutate(role string) bool {
	return role == RoleAdmin || role == RoleAnalyst
}

func validRole(role string) bool {
	return role == RoleAdmin || role == RoleAnalyst || role == RoleViewer
}

// GenerateSession signs a new HS256 session token for the given identity,
// expiring in SessionTTL.
func GenerateSession(email, role string) (string, error) {
	secret := config.AuthSecret()
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "server auth not configured")
	}
	now := time.Now()
	claims := &Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifySession decodes and checks a session token. Returns nil ("no
// session") for anything malformed, expired, mis-signed, or carrying an
// unknown role. It never panics and never leaks parse errors to callers.
func VerifySession(raw string) *SessionUser {
	secret := config.AuthSecret()
	if raw == "" || secret == "" {
		return nil
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	var claims Claims
	token, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	if strings.TrimSpace(claims.Email) == "" || !validRole(claims.Role) {
		return nil
	}
	return &SessionUser{Email: claims.Email, Role: claims.Role}
}

// SessionFromRequest reads and verifies the session cookie.
func SessionFromRequest(c *fiber.Ctx) *SessionUser {
	return VerifySession(c.Cookies(SessionCookie))
}

// RequireSession verifies the session cookie and stashes the user in
// c.Locals("sessionUser"). Handlers behind it can still apply finer role
// checks via SessionUserFromLocals + CanMutate.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := SessionFromRequest(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"ok": false, "error": "Unauthorized"})
		}
		c.Locals("sessionUser", user)
		return c.Next()
	}
}

// SessionUserFromLocals returns the user stashed by RequireSession, or nil.
func SessionUserFromLocals(c *fiber.Ctx) *SessionUser {
	if v := c.Locals("sessionUser"); v != nil {
		if user, ok := v.(*SessionUser); ok {
			return user
		}
	}
	return nil
}
