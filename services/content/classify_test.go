package content

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyFirestore(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"resource exhausted", status.Error(codes.ResourceExhausted, "quota exceeded"), QuotaExceeded},
		{"document too large", status.Error(codes.InvalidArgument, "Document exceeds the maximum size"), QuotaExceeded},
		{"other invalid argument", status.Error(codes.InvalidArgument, "bad field path"), NetworkFailure},
		{"permission denied", status.Error(codes.PermissionDenied, "missing or insufficient permissions"), PermissionDenied},
		{"unauthenticated", status.Error(codes.Unauthenticated, "no token"), PermissionDenied},
		{"unavailable", status.Error(codes.Unavailable, "connection refused"), NetworkFailure},
		{"deadline", context.DeadlineExceeded, NetworkFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("firestore write doc: %w", classifyFirestore(tc.err))
			assert.Equal(t, tc.want, classify(wrapped))
			assert.ErrorIs(t, wrapped, tc.err)
		})
	}
}

func TestClassifyMongo(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"document too large", mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 17419, Message: "too large"}}}, QuotaExceeded},
		{"bson object too large", mongo.CommandError{Code: 10334, Message: "BSONObjectTooLarge"}, QuotaExceeded},
		{"unauthorized", mongo.CommandError{Code: 13, Message: "not authorized"}, PermissionDenied},
		{"authentication failed", mongo.CommandError{Code: 18, Message: "auth failed"}, PermissionDenied},
		{"duplicate key", mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}, NetworkFailure},
		{"plain error", errors.New("server selection timeout"), NetworkFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("mongo write doc: %w", classifyMongo(tc.err))
			assert.Equal(t, tc.want, classify(wrapped))
		})
	}
}

type erroringIterator struct {
	calls   int
	err     error
	stopped bool
}

func (it *erroringIterator) Next() (*firestore.DocumentSnapshot, error) {
	it.calls++
	if it.calls > 100 {
		panic("watch loop did not stop")
	}
	return nil, it.err
}

func (it *erroringIterator) Stop() { it.stopped = true }

func TestWatchSnapshots_ErrorEndsWatch(t *testing.T) {
	it := &erroringIterator{err: status.Error(codes.NotFound, "no document")}
	var changes int
	var got []error

	watchSnapshots(context.Background(), it, "websiteContent",
		func(Record, bool) { changes++ },
		func(err error) { got = append(got, err) })

	assert.Equal(t, 1, it.calls)
	assert.True(t, it.stopped)
	assert.Zero(t, changes)
	require.Len(t, got, 1)
	assert.Equal(t, NetworkFailure, classify(got[0]))
}

func TestWatchSnapshots_CanceledIsQuiet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	it := &erroringIterator{err: status.Error(codes.Canceled, "context canceled")}

	var got []error
	watchSnapshots(ctx, it, "websiteContent", func(Record, bool) {}, func(err error) { got = append(got, err) })

	assert.Empty(t, got)
	assert.True(t, it.stopped)
}
