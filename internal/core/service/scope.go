package service

import (
	"context"
	"fmt"

	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// inScope reports whether r belongs to scope, resolving its subqueries
// through the store first.
func inScope(ctx context.Context, resolver ports.ScopeResolver, scope domain.Scope, r domain.Record) (bool, error) {
	if scope.Unrestricted {
		return true, nil
	}
	if scope.Empty() {
		return false, nil
	}
	resolved, err := scope.Resolve(func(sub domain.Subquery) ([]string, error) {
		return resolver.ResolveIDs(ctx, sub)
	})
	if err != nil {
		return false, fmt.Errorf("resolve %s scope: %w", scope.Kind, err)
	}
	return resolved.Match(r), nil
}

// readOnly builds the error returned when a caller sends fields it may not set.
func readOnly(fields interface{ Names() []string }) error {
	return fmt.Errorf("%w: read-only fields %v", domain.ErrForbidden, fields.Names())
}
