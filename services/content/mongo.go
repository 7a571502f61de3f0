package content

import (
	"context"
	"errors"
	"fmt"

	"trinhnail/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps the content record as a MongoDB document keyed by _id.
// Subscriptions use change streams and need a replica set.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(client *mongo.Client, database, collection string) *MongoStore {
	return &MongoStore{coll: client.Database(database).Collection(collection)}
}

func (m *MongoStore) Name() string { return "mongo" }

type mongoContentDoc struct {
	HeroImage     string                `bson:"heroImage"`
	StoreImage    string                `bson:"storeImage"`
	ServiceImages *models.ServiceImages `bson:"serviceImages"`
}

func (d *mongoContentDoc) record() Record {
	rec := Record{"heroImage": d.HeroImage, "storeImage": d.StoreImage}
	if d.ServiceImages != nil {
		rec["serviceImages"] = serviceRecord(*d.ServiceImages)
	}
	return rec
}

func (m *MongoStore) Read(ctx context.Context, docID string) (Record, bool, error) {
	var doc mongoContentDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": docID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo read %s: %w", docID, classifyMongo(err))
	}
	return doc.record(), true, nil
}

func (m *MongoStore) Write(ctx context.Context, docID string, rec Record, merge bool) error {
	filter := bson.M{"_id": docID}
	var err error
	if merge {
		update := bson.M{"$set": flatten("", rec, bson.M{})}
		_, err = m.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	} else {
		_, err = m.coll.ReplaceOne(ctx, filter, rec, options.Replace().SetUpsert(true))
	}
	if err != nil {
		return fmt.Errorf("mongo write %s: %w", docID, classifyMongo(err))
	}
	return nil
}

// flatten turns nested maps into dotted $set paths so sibling fields survive a merge.
func flatten(prefix string, rec map[string]interface{}, out bson.M) bson.M {
	for k, v := range rec {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flatten(path, nested, out)
			continue
		}
		out[path] = v
	}
	return out
}

type mongoChangeEvent struct {
	OperationType string           `bson:"operationType"`
	FullDocument  *mongoContentDoc `bson:"fullDocument"`
}

func (m *MongoStore) Subscribe(ctx context.Context, docID string, onChange func(Record, bool), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: docID}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	cs, err := m.coll.Watch(ctx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("mongo watch %s: %w", docID, classifyMongo(err))
	}

	// Change streams only carry later changes; deliver the current state first.
	rec, exists, err := m.Read(ctx, docID)
	if err != nil {
		cs.Close(context.Background())
		cancel()
		return nil, err
	}

	go func() {
		defer cs.Close(context.Background())
		onChange(rec, exists)
		for cs.Next(ctx) {
			var ev mongoChangeEvent
			if err := cs.Decode(&ev); err != nil {
				onError(fmt.Errorf("mongo change event: %w", err))
				continue
			}
			switch {
			case ev.OperationType == "delete":
				onChange(nil, false)
			case ev.FullDocument != nil:
				onChange(ev.FullDocument.record(), true)
			}
		}
		if err := cs.Err(); err != nil && ctx.Err() == nil {
			onError(fmt.Errorf("mongo change stream %s: %w", docID, classifyMongo(err)))
		}
	}()
	return cancel, nil
}

// Server error codes that map to user-facing failure kinds.
const (
	mongoUnauthorized         = 13
	mongoAuthenticationFailed = 18
	mongoBSONObjectTooLarge   = 10334
	mongoDocumentTooLarge     = 17419
)

func classifyMongo(err error) error {
	switch mongoCode(err) {
	case mongoBSONObjectTooLarge, mongoDocumentTooLarge:
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	case mongoUnauthorized, mongoAuthenticationFailed:
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}

func mongoCode(err error) int {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return int(ce.Code)
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		if len(we.WriteErrors) > 0 {
			return we.WriteErrors[0].Code
		}
		if we.WriteConcernError != nil {
			return we.WriteConcernError.Code
		}
	}
	return 0
}
