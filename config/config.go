package config

import (
	"encoding/base64"
	"errors"
	"os"
	"strings"
)

// Auth configuration lives in the environment, not the database. Values used
// for authentication are read raw; the only transformations applied are the
// documented hash decodings below.

// AuthSecret returns the session signing secret.
func AuthSecret() string {
	return strings.TrimSpace(os.Getenv("AUTH_SECRET"))
}

// AdminEmail returns the configured admin identity.
func AdminEmail() string {
	return strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))
}

// AdminPasswordHash returns the bcrypt hash to compare admin logins against.
// Two encodings are accepted, tried in priority order:
//  1. ADMIN_PASSWORD_HASH_B64: base64-wrapped hash. Used when it decodes to a
//     well-formed bcrypt value, otherwise ignored.
//  2. ADMIN_PASSWORD_HASH: the raw hash, possibly quoted and with dollars
//     escaped as $$ (both artifacts of env-file tooling).
func AdminPasswordHash() string {
	b64 := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH_B64"))
	if b64 != "" {
		if decoded, err := base64.StdEncoding.DecodeString(b64); err == nil {
			hash := strings.TrimSpace(string(decoded))
			if isBcryptHash(hash) {
				return hash
			}
		}
	}

	raw := strings.TrimSpace(os.Getenv("ADMIN_PASSWORD_HASH"))
	if len(raw) >= 2 {
		if (strings.HasPrefix(raw, `'`) && strings.HasSuffix(raw, `'`)) ||
			(strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`)) {
			raw = raw[1 : len(raw)-1]
		}
	}
	raw = strings.ReplaceAll(raw, "$$", "$")
	return strings.TrimSpace(raw)
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$")
}

// ValidateAuthConfig checks that everything admin login needs is present and
// well-formed. Callers must treat a failure as fatal for serving logins; it
// must never degrade into accepting arbitrary credentials.
func ValidateAuthConfig() error {
	if len(AuthSecret()) < 32 {
		return errors.New("AUTH_SECRET must exist and be at least 32 characters")
	}
	if AdminEmail() == "" {
		return errors.New("ADMIN_EMAIL must exist")
	}
	hash := AdminPasswordHash()
	if hash == "" {
		return errors.New("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD_HASH_B64 must exist")
	}
	if !isBcryptHash(hash) {
		return errors.New("password hash must start with $2a$ or $2b$ after decoding")
	}
	if len(hash) < 55 {
		return errors.New("password hash must be at least 55 characters after decoding")
	}
	return nil
}
