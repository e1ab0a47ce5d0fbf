package ports

import (
	"context"

	"github.com/bookhaven/bookstore-api/internal/core/domain"
)

// SessionManager is the stateful login path: a server-side session keyed by a
// cookie-carried session id. It is the second, independent proof mechanism
// next to bearer tokens; a route requires exactly one of the two. All methods
// operate on the request context that the session middleware has loaded.
type SessionManager interface {
	// Bind regenerates the session id (fixation defence) and stores the
	// user's identity in the new session. Called only after all credential
	// checks have succeeded.
	Bind(ctx context.Context, user *domain.User) error
	// Destroy invalidates the current session. Idempotent: destroying an
	// absent session is not an error.
	Destroy(ctx context.Context) error
	// Principal returns the identity stored in the request's session.
	Principal(ctx context.Context) (domain.Principal, bool)
}
