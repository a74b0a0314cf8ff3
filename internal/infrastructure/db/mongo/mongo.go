package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/empresatop10/employee-manager/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Collection names.
const (
	collectionEmployees   = "employees"
	collectionDepartments = "departments"
	collectionJobs        = "jobs"
	collectionClients     = "clients"
	collectionProjects    = "projects"
	collectionTasks       = "tasks"
	collectionResets      = "password_resets"
	collectionGroups      = "groups"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Store is the MongoDB entity store. Multi-document writes run inside
// server-side transactions, which need a replica set.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{client: client, db: db}
}

// Repositories wires every adapter of the store.
func (s *Store) Repositories() ports.Repositories {
	return ports.Repositories{
		Employees:   &EmployeeRepository{col: s.db.Collection(collectionEmployees), store: s},
		Departments: &DepartmentRepository{col: s.db.Collection(collectionDepartments), store: s},
		Jobs:        &JobRepository{col: s.db.Collection(collectionJobs), store: s},
		Clients:     &ClientRepository{col: s.db.Collection(collectionClients), store: s},
		Projects:    &ProjectRepository{col: s.db.Collection(collectionProjects), store: s},
		Tasks:       &TaskRepository{col: s.db.Collection(collectionTasks), store: s},
		Resets:      &ResetRepository{col: s.db.Collection(collectionResets)},
		Groups:      &GroupRepository{col: s.db.Collection(collectionGroups)},
		Resolver:    s,
		Tx:          s,
	}
}

// WithinTransaction runs fn inside a session transaction. A ctx that already
// carries a session joins it. fn runs exactly once: a failed commit is
// returned to the caller, never retried.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	return runTransaction(mongo.NewSessionContext(ctx, session), session, fn)
}

// transaction is the part of mongo.Session a single attempt needs.
type transaction interface {
	StartTransaction(...*options.TransactionOptions) error
	AbortTransaction(context.Context) error
	CommitTransaction(context.Context) error
}

func runTransaction(ctx context.Context, tx transaction, fn func(ctx context.Context) error) error {
	if err := tx.StartTransaction(); err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	if err := fn(ctx); err != nil {
		if abortErr := tx.AbortTransaction(context.WithoutCancel(ctx)); abortErr != nil {
			return errors.Join(err, fmt.Errorf("abort transaction: %w", abortErr))
		}
		return err
	}
	if err := tx.CommitTransaction(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping verifies the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// EnsureIndexes creates the unique keys the repositories rely on and the
// lookup indexes the scopes filter by.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	plan := map[string][]mongo.IndexModel{
		collectionEmployees: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "department_id", Value: 1}}},
			{Keys: bson.D{{Key: "manager_id", Value: 1}}},
		},
		collectionDepartments: {
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: unique},
		},
		collectionJobs: {
			{Keys: bson.D{{Key: "title", Value: 1}, {Key: "department_id", Value: 1}}, Options: unique},
		},
		collectionClients: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collectionProjects: {
			{Keys: bson.D{{Key: "department_id", Value: 1}}},
			{Keys: bson.D{{Key: "team", Value: 1}}},
		},
		collectionTasks: {
			{Keys: bson.D{{Key: "project_id", Value: 1}}},
			{Keys: bson.D{{Key: "employee_id", Value: 1}}},
		},
		collectionResets: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}}},
		},
		collectionGroups: {
			{Keys: bson.D{{Key: "members", Value: 1}}},
		},
	}
	for name, models := range plan {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}
