package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/empresatop10/employee-manager/internal/core/domain"
)

// ResetRepository stores password reset requests keyed by their token.
type ResetRepository struct {
	col *mongo.Collection
}

func (r *ResetRepository) Create(ctx context.Context, req *domain.PasswordResetRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert reset request: %w", domain.ErrConflict)
		}
		return fmt.Errorf("insert reset request: %w", err)
	}
	return nil
}

func (r *ResetRepository) Find(ctx context.Context, hash string) (*domain.PasswordResetRequest, error) {
	return findOne[domain.PasswordResetRequest](ctx, r.col, bson.M{"_id": hash, "expired": false}, domain.ErrResetNotFound)
}

// Consume flips expired with a conditional update, so only the first of
// several concurrent callers matches the pending document.
func (r *ResetRepository) Consume(ctx context.Context, hash string) (*domain.PasswordResetRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var req domain.PasswordResetRequest
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": hash, "expired": false},
		bson.M{"$set": bson.M{"expired": true}},
		opts,
	).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResetNotFound
		}
		return nil, fmt.Errorf("consume reset request: %w", err)
	}
	return &req, nil
}
