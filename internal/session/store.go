package session

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/civicworks/waste-complaints/internal/domain"
)

// Store is the session registry: a keyed map from opaque tokens to identity
// snapshots. All session state lives behind this interface; nothing else in
// the process holds session data.
type Store interface {
	// Open creates a session bound to the identity and returns its token.
	Open(ctx context.Context, identity domain.Identity) (string, error)
	// Resolve returns the identity for a token, or nil when the token is
	// unknown or expired.
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
	// Close destroys a session. Closing an absent token is not an error.
	Close(ctx context.Context, token string) error
}

// newToken returns an opaque unguessable session token.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
