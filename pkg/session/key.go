package session

import (
	"strings"

	"github.com/google/uuid"
)

const keyPrefix = "shop-admin:session"

// Key identifies one stored query.
type Key struct {
	SessionID string
	Screen    string
}

// String returns the Redis key.
func (k Key) String() string {
	parts := []string{keyPrefix, k.SessionID}
	if screen := strings.Trim(k.Screen, "/"); screen != "" {
		parts = append(parts, screen)
	}
	return strings.Join(parts, ":")
}

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an ID returned by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
