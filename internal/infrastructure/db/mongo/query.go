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

var kindCollections = map[domain.Kind]string{
	domain.KindEmployee:   collectionEmployees,
	domain.KindDepartment: collectionDepartments,
	domain.KindJob:        collectionJobs,
	domain.KindClient:     collectionClients,
	domain.KindProject:    collectionProjects,
	domain.KindTask:       collectionTasks,
}

var errUnresolved = errors.New("criterion still carries a subquery")

// clauseFilter translates a resolved clause into a filter document. The
// boolean is false when some criterion has no values and the clause can
// therefore match nothing.
func clauseFilter(clause domain.Clause) (bson.M, bool, error) {
	filter := bson.M{}
	var and []bson.M
	for _, c := range clause {
		if !c.Resolved() {
			return nil, false, errUnresolved
		}
		if len(c.Values) == 0 {
			return nil, false, nil
		}
		cond := bson.M{"$in": c.Values}
		if _, dup := filter[string(c.Attr)]; dup {
			// Two criteria on one attribute must both hold.
			and = append(and, bson.M{string(c.Attr): cond})
			continue
		}
		filter[string(c.Attr)] = cond
	}
	if len(and) > 0 {
		filter["$and"] = and
	}
	return filter, true, nil
}

// ResolveIDs answers a subquery with the _id of every matching document.
func (s *Store) ResolveIDs(ctx context.Context, sub domain.Subquery) ([]string, error) {
	name, ok := kindCollections[sub.Kind]
	if !ok {
		return nil, fmt.Errorf("resolve: unknown kind %q", sub.Kind)
	}
	filter, ok, err := clauseFilter(sub.Clause)
	if err != nil || !ok {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.db.Collection(name).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", sub.Kind, err)
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", sub.Kind, err)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// listScoped runs one query per clause of scope and merges the documents by
// _id. Subqueries are resolved first, so every query is a plain $in filter.
func listScoped[T any, PT interface {
	*T
	domain.Record
}](ctx context.Context, s *Store, col *mongo.Collection, scope domain.Scope) ([]PT, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var filters []bson.M
	if scope.Unrestricted {
		filters = []bson.M{{}}
	} else {
		resolved, err := scope.Resolve(func(sub domain.Subquery) ([]string, error) {
			return s.ResolveIDs(ctx, sub)
		})
		if err != nil {
			return nil, err
		}
		for _, clause := range resolved.Clauses {
			filter, ok, err := clauseFilter(clause)
			if err != nil {
				return nil, err
			}
			if ok {
				filters = append(filters, filter)
			}
		}
	}

	seen := make(map[string]bool)
	out := make([]PT, 0)
	for _, filter := range filters {
		cur, err := col.Find(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("find %s: %w", col.Name(), err)
		}
		var batch []T
		if err := cur.All(ctx, &batch); err != nil {
			return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
		}
		for i := range batch {
			doc := PT(&batch[i])
			if seen[doc.RecordID()] {
				continue
			}
			seen[doc.RecordID()] = true
			out = append(out, doc)
		}
	}
	return out, nil
}

// findOne decodes the document matching filter or returns notFound.
func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M, notFound error) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc T
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	return &doc, nil
}
