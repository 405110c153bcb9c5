package log

import (
	"log/slog"
	"strings"
)

// Redacted replaces the value of a redacted attribute.
const Redacted = "[REDACTED]"

// DefaultRedactKeys are the key words redacted by a logger created without
// [WithRedact].
var DefaultRedactKeys = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"auth",
	"credential",
	"private_key",
}

// Sensitive reports whether an attribute key contains one of the given
// lowercase words, ignoring case.
func Sensitive(words []string, key string) bool {
	if len(words) == 0 || key == "" {
		return false
	}

	key = strings.ToLower(key)
	for _, w := range words {
		if strings.Contains(key, w) {
			return true
		}
	}

	return false
}

func redact(words []string, a slog.Attr) slog.Attr {
	if !Sensitive(words, a.Key) {
		return a
	}

	return slog.String(a.Key, Redacted)
}
