package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

func upsert() *options.UpdateOptions { return options.Update().SetUpsert(true) }

func sortBy(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: 1}})
}

type ProjectRepository struct {
	col   *mongo.Collection
	store *Store
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Team == nil {
		p.Team = []string{}
	}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	return findOne[domain.Project](ctx, r.col, bson.M{"_id": id}, domain.ErrProjectNotFound)
}

func (r *ProjectRepository) List(ctx context.Context, scope domain.Scope) ([]*domain.Project, error) {
	out, err := listScoped[domain.Project](ctx, r.store, r.col, scope)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	domain.SortProjects(out)
	return out, nil
}

type TaskRepository struct {
	col   *mongo.Collection
	store *Store
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, fmt.Errorf("delete project tasks: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	return findOne[domain.Task](ctx, r.col, bson.M{"_id": id}, domain.ErrTaskNotFound)
}

func (r *TaskRepository) List(ctx context.Context, scope domain.Scope) ([]*domain.Task, error) {
	out, err := listScoped[domain.Task](ctx, r.store, r.col, scope)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	domain.SortTasks(out)
	return out, nil
}
