package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// EmployeeRepository implements ports.EmployeeRepository. Documents use the
// bson tags of domain.Employee; ids are UUID strings.
type EmployeeRepository struct {
	col   *mongo.Collection
	store *Store
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.Email = domain.NormalizeEmail(e.Email)
	if _, err := r.col.InsertOne(ctx, e); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	e.Email = domain.NormalizeEmail(e.Email)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	return findOne[domain.Employee](ctx, r.col, bson.M{"_id": id}, domain.ErrEmployeeNotFound)
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return findOne[domain.Employee](ctx, r.col, bson.M{"email": domain.NormalizeEmail(email)}, domain.ErrEmployeeNotFound)
}

func (r *EmployeeRepository) List(ctx context.Context, scope domain.Scope) ([]*domain.Employee, error) {
	out, err := listScoped[domain.Employee](ctx, r.store, r.col, scope)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	domain.SortEmployees(out)
	return out, nil
}
