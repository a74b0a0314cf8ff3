package mongo

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeTx struct {
	started   int
	aborted   int
	committed int
	commitErr error
}

func (f *fakeTx) StartTransaction(...*options.TransactionOptions) error {
	f.started++
	return nil
}

func (f *fakeTx) AbortTransaction(context.Context) error {
	f.aborted++
	return nil
}

func (f *fakeTx) CommitTransaction(context.Context) error {
	f.committed++
	return f.commitErr
}

func TestRunTransaction_Commits(t *testing.T) {
	tx := &fakeTx{}
	calls := 0
	err := runTransaction(context.Background(), tx, func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("runTransaction returned error: %v", err)
	}
	if calls != 1 || tx.committed != 1 || tx.aborted != 0 {
		t.Fatalf("calls=%d committed=%d aborted=%d", calls, tx.committed, tx.aborted)
	}
}

func TestRunTransaction_AbortsOnError(t *testing.T) {
	tx := &fakeTx{}
	boom := errors.New("mail gateway down")
	err := runTransaction(context.Background(), tx, func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if tx.aborted != 1 || tx.committed != 0 {
		t.Fatalf("committed=%d aborted=%d", tx.committed, tx.aborted)
	}
}

func TestRunTransaction_TransientCommitErrorIsNotRetried(t *testing.T) {
	transient := mongo.CommandError{
		Code:   251,
		Name:   "NoSuchTransaction",
		Labels: []string{"TransientTransactionError"},
	}
	tx := &fakeTx{commitErr: transient}
	sends := 0
	err := runTransaction(context.Background(), tx, func(context.Context) error {
		sends++
		return nil
	})
	var cmdErr mongo.CommandError
	if !errors.As(err, &cmdErr) || !cmdErr.HasErrorLabel("TransientTransactionError") {
		t.Fatalf("expected the commit error back, got %v", err)
	}
	if sends != 1 || tx.started != 1 || tx.committed != 1 {
		t.Fatalf("sends=%d started=%d committed=%d", sends, tx.started, tx.committed)
	}
}
