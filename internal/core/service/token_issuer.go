package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// Claims is the payload of a bearer credential. Role and placement are
// informational; Verify reads them from the stored employee.
type Claims struct {
	Role         domain.Role `json:"role"`
	DepartmentID string      `json:"department_id,omitempty"`
	ManagerID    string      `json:"manager_id,omitempty"`
	// Generation is the session generation the credential was issued under.
	Generation int64 `json:"sgen"`
	jwt.RegisteredClaims
}

type tokenIssuer struct {
	secret   []byte
	ttl      time.Duration
	sessions  ports.SessionStore
	employees ports.EmployeeRepository
	now       func() time.Time
}

// NewTokenIssuer returns an HS256 issuer. A non-positive ttl defaults to 24h.
func NewTokenIssuer(secret string, ttl time.Duration, sessions ports.SessionStore, employees ports.EmployeeRepository) ports.TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &tokenIssuer{
		secret:    []byte(secret),
		ttl:       ttl,
		sessions:  sessions,
		employees: employees,
		now:       time.Now,
	}
}

func (t *tokenIssuer) Issue(ctx context.Context, e *domain.Employee) (string, time.Time, error) {
	gen, err := t.sessions.Generation(ctx, e.ID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}

	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		Role:         e.Role,
		DepartmentID: e.DepartmentID,
		ManagerID:    e.ManagerID,
		Generation:   gen,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   e.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

func (t *tokenIssuer) Verify(ctx context.Context, raw string) (domain.Actor, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || claims.Subject == "" {
		return domain.Actor{}, domain.ErrInvalidCredentials
	}

	gen, err := t.sessions.Generation(ctx, claims.Subject)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("verify token: %w", err)
	}
	if gen != claims.Generation {
		return domain.Actor{}, domain.ErrInvalidCredentials
	}

	// Permissions follow the stored record, so a role or placement change
	// applies to credentials already handed out.
	e, err := t.employees.FindByID(ctx, claims.Subject)
	if errors.Is(err, domain.ErrEmployeeNotFound) {
		return domain.Actor{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Actor{}, fmt.Errorf("verify token: %w", err)
	}
	if !e.IsActive {
		return domain.Actor{}, domain.ErrInvalidCredentials
	}
	return e.Actor(), nil
}
