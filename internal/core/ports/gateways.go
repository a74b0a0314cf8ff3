package ports

import (
	"context"
	"time"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// Message is one outgoing e-mail.
type Message struct {
	To       []string
	Subject  string
	HTMLBody string
}

// Mailer delivers messages synchronously.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SessionStore tracks a session generation per employee. Credentials carry
// the generation they were issued under; bumping it revokes all of them.
type SessionStore interface {
	Generation(ctx context.Context, employeeID string) (int64, error)
	Revoke(ctx context.Context, employeeID string) (int64, error)
}

// TokenIssuer issues and verifies bearer credentials.
type TokenIssuer interface {
	Issue(ctx context.Context, e *domain.Employee) (token string, expiresAt time.Time, err error)
	// Verify returns the actor a credential was issued for. It fails with
	// domain.ErrInvalidCredentials for bad, expired or revoked credentials.
	Verify(ctx context.Context, token string) (domain.Actor, error)
}
