package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// getOrCreate looks doc up by key and inserts it when absent. A duplicate key
// on insert means a concurrent writer won, so the lookup is repeated once.
func getOrCreate[T any](ctx context.Context, col *mongo.Collection, key bson.M, doc *T, notFound error) (*T, bool, error) {
	found, err := findOne[T](ctx, col, key, notFound)
	if err == nil {
		return found, false, nil
	}
	if !errors.Is(err, notFound) {
		return nil, false, err
	}

	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if _, err := col.InsertOne(insertCtx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			found, err := findOne[T](ctx, col, key, notFound)
			return found, false, err
		}
		return nil, false, fmt.Errorf("insert %s: %w", col.Name(), err)
	}
	return doc, true, nil
}

type DepartmentRepository struct {
	col   *mongo.Collection
	store *Store
}

func (r *DepartmentRepository) GetOrCreate(ctx context.Context, title string) (*domain.Department, bool, error) {
	doc := &domain.Department{ID: uuid.NewString(), Title: title}
	return getOrCreate(ctx, r.col, bson.M{"title": title}, doc, domain.ErrDepartmentNotFound)
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*domain.Department, error) {
	return findOne[domain.Department](ctx, r.col, bson.M{"_id": id}, domain.ErrDepartmentNotFound)
}

func (r *DepartmentRepository) List(ctx context.Context, scope domain.Scope) ([]*domain.Department, error) {
	out, err := listScoped[domain.Department](ctx, r.store, r.col, scope)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	domain.SortDepartments(out)
	return out, nil
}

type JobRepository struct {
	col   *mongo.Collection
	store *Store
}

func (r *JobRepository) GetOrCreate(ctx context.Context, job *domain.Job) (*domain.Job, bool, error) {
	doc := *job
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	key := bson.M{"title": job.Title, "department_id": job.DepartmentID}
	return getOrCreate(ctx, r.col, key, &doc, domain.ErrJobNotFound)
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	return findOne[domain.Job](ctx, r.col, bson.M{"_id": id}, domain.ErrJobNotFound)
}

func (r *JobRepository) List(ctx context.Context, scope domain.Scope) ([]*domain.Job, error) {
	out, err := listScoped[domain.Job](ctx, r.store, r.col, scope)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	domain.SortJobs(out)
	return out, nil
}

type ClientRepository struct {
	col   *mongo.Collection
	store *Store
}

// GetOrCreate is keyed by e-mail, which is unique; a different name under
// the same e-mail is a conflict rather than a second client.
func (r *ClientRepository) GetOrCreate(ctx context.Context, name, email string) (*domain.Client, bool, error) {
	email = domain.NormalizeEmail(email)
	doc := &domain.Client{ID: uuid.NewString(), Name: name, Email: email}
	c, created, err := getOrCreate(ctx, r.col, bson.M{"email": email}, doc, domain.ErrClientNotFound)
	if err != nil {
		return nil, false, err
	}
	if c.Name != name {
		return nil, false, fmt.Errorf("client %s: %w", email, domain.ErrConflict)
	}
	return c, created, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	return findOne[domain.Client](ctx, r.col, bson.M{"_id": id}, domain.ErrClientNotFound)
}

func (r *ClientRepository) List(ctx context.Context, scope domain.Scope) ([]*domain.Client, error) {
	out, err := listScoped[domain.Client](ctx, r.store, r.col, scope)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	domain.SortClients(out)
	return out, nil
}

type GroupRepository struct {
	col *mongo.Collection
}

func (r *GroupRepository) Ensure(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$setOnInsert": bson.M{"members": bson.A{}}},
		upsert(),
	)
	if err != nil {
		return false, fmt.Errorf("ensure group %q: %w", name, err)
	}
	return res.UpsertedCount > 0, nil
}

func (r *GroupRepository) AddMember(ctx context.Context, name, employeeID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": name}, bson.M{"$addToSet": bson.M{"members": employeeID}})
	if err != nil {
		return fmt.Errorf("add member to %q: %w", name, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("group %q: %w", name, domain.ErrGroupNotFound)
	}
	return nil
}

func (r *GroupRepository) GroupsOf(ctx context.Context, employeeID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"members": employeeID}, sortBy("_id"))
	if err != nil {
		return nil, fmt.Errorf("find groups: %w", err)
	}
	var groups []domain.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("decode groups: %w", err)
	}
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names, nil
}
