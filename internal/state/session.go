package state

import (
	"strings"

	"github.com/google/uuid"
)

// newSessionID returns a random identifier for one engine lifetime.
func newSessionID() string {
	return uuid.NewString()
}

// ShortID returns the first group of a session ID, for display.
func ShortID(session string) string {
	head, _, _ := strings.Cut(session, "-")
	return head
}
