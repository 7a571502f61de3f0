package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps the content record as a Firestore document.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{client: client, collection: collection}
}

func (f *FirestoreStore) Name() string { return "firestore" }

func (f *FirestoreStore) doc(docID string) *firestore.DocumentRef {
	return f.client.Collection(f.collection).Doc(docID)
}

func (f *FirestoreStore) Read(ctx context.Context, docID string) (Record, bool, error) {
	snap, err := f.doc(docID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("firestore read %s: %w", docID, classifyFirestore(err))
	}
	return snap.Data(), true, nil
}

func (f *FirestoreStore) Write(ctx context.Context, docID string, rec Record, merge bool) error {
	var err error
	if merge {
		_, err = f.doc(docID).Set(ctx, rec, firestore.MergeAll)
	} else {
		_, err = f.doc(docID).Set(ctx, rec)
	}
	if err != nil {
		return fmt.Errorf("firestore write %s: %w", docID, classifyFirestore(err))
	}
	return nil
}

func (f *FirestoreStore) Subscribe(ctx context.Context, docID string, onChange func(Record, bool), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	it := f.doc(docID).Snapshots(ctx)
	go watchSnapshots(ctx, it, docID, onChange, onError)
	return cancel, nil
}

// snapshotIterator is the part of *firestore.DocumentSnapshotIterator the watch loop uses.
type snapshotIterator interface {
	Next() (*firestore.DocumentSnapshot, error)
	Stop()
}

// watchSnapshots delivers snapshots until the iterator fails. A missing
// document arrives as a snapshot that does not exist; any iterator error
// ends the watch.
func watchSnapshots(ctx context.Context, it snapshotIterator, docID string, onChange func(Record, bool), onError func(error)) {
	defer it.Stop()
	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled {
				return
			}
			onError(fmt.Errorf("firestore snapshot %s: %w", docID, classifyFirestore(err)))
			return
		}
		if !snap.Exists() {
			onChange(nil, false)
			continue
		}
		onChange(snap.Data(), true)
	}
}

func classifyFirestore(err error) error {
	switch status.Code(err) {
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	case codes.InvalidArgument:
		// Oversized documents are rejected as invalid arguments.
		if strings.Contains(strings.ToLower(err.Error()), "maximum") {
			return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
		}
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timed out: %w", err)
	}
	return err
}
