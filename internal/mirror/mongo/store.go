// Package mongo is a mirror backend that keeps one MongoDB collection per
// entity type, keyed by local id.
package mongo

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// DefaultDatabase is the database the mirror uses when none is configured.
const DefaultDatabase = "trelloData"

const countersCollection = "counters"

type document struct {
	LocalID        string   `bson:"_id"`
	RemoteID       string   `bson:"remote_id"`
	ParentRemoteID string   `bson:"parent_remote_id"`
	ParentLocalID  string   `bson:"parent_local_id"`
	Seq            int64    `bson:"seq"`
	Body           bson.Raw `bson:"body"`
}

// Store is the MongoDB mirror backend.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ mirror.Store = (*Store)(nil)

// Open connects to uri and prepares the indexes of every collection.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// Drop removes the whole database. Used by tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	for _, c := range mirror.AllCollections {
		_, err := s.db.Collection(string(c)).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys: bson.D{{Key: "remote_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"remote_id": bson.M{"$gt": ""}}),
			},
			{Keys: bson.D{{Key: "parent_remote_id", Value: 1}}},
			{Keys: bson.D{{Key: "parent_local_id", Value: 1}}},
		})
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", c, err)
		}
	}
	return nil
}

// Find returns the documents whose parent matches, in insertion order.
func (s *Store) Find(ctx context.Context, c mirror.Collection, parent model.ID) ([]mirror.Document, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("find %s: %w", c, mirror.ErrUnknownCollection)
	}

	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.db.Collection(string(c)).Find(ctx, parentFilter(parent), opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c, err)
	}
	defer cur.Close(ctx)

	docs := []mirror.Document{}
	for cur.Next(ctx) {
		var d document
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c, err)
		}
		out, err := d.toMirror()
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c, d.LocalID, err)
		}
		docs = append(docs, out)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", c, err)
	}
	return docs, nil
}

// Insert adds a new document. Returns mirror.ErrDuplicate when the local id
// or remote id is already present in the collection.
func (s *Store) Insert(ctx context.Context, c mirror.Collection, doc mirror.Document) error {
	if !c.Valid() {
		return fmt.Errorf("insert %s: %w", c, mirror.ErrUnknownCollection)
	}
	if !doc.ID.HasLocal() {
		return fmt.Errorf("insert %s: %w", c, mirror.ErrNoLocalID)
	}

	seq, err := s.nextSeq(ctx)
	if err != nil {
		return fmt.Errorf("insert %s: %w", c, err)
	}
	body := mirror.MergeFields(nil, doc.Fields)

	_, err = s.db.Collection(string(c)).InsertOne(ctx, bson.M{
		"_id":              doc.ID.Local,
		"remote_id":        doc.ID.Remote,
		"parent_remote_id": doc.Parent.Remote,
		"parent_local_id":  doc.Parent.Local,
		"seq":              seq,
		"body":             map[string]any(body),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert %s %s: %w", c, doc.ID.Key(), mirror.ErrDuplicate)
		}
		return fmt.Errorf("insert %s: %w", c, err)
	}
	return nil
}

// UpsertByID sets each field of doc.Fields on the stored body. Identifier
// and parent sides are only written when present.
func (s *Store) UpsertByID(ctx context.Context, c mirror.Collection, doc mirror.Document) error {
	if !c.Valid() {
		return fmt.Errorf("upsert %s: %w", c, mirror.ErrUnknownCollection)
	}
	if !doc.ID.HasLocal() {
		return fmt.Errorf("upsert %s: %w", c, mirror.ErrNoLocalID)
	}

	set, unset := bson.M{}, bson.M{}
	for k, v := range doc.Fields {
		if v == nil {
			unset["body."+k] = ""
			continue
		}
		set["body."+k] = v
	}
	if doc.ID.HasRemote() {
		set["remote_id"] = doc.ID.Remote
	}
	if doc.Parent.HasRemote() {
		set["parent_remote_id"] = doc.Parent.Remote
	}
	if doc.Parent.HasLocal() {
		set["parent_local_id"] = doc.Parent.Local
	}

	coll := s.db.Collection(string(c))
	if len(set) == 0 && len(unset) == 0 {
		n, err := coll.CountDocuments(ctx, bson.M{"_id": doc.ID.Local})
		if err != nil {
			return fmt.Errorf("upsert %s: %w", c, err)
		}
		if n > 0 {
			return nil
		}
		return s.Insert(ctx, c, doc)
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": doc.ID.Local}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("upsert %s %s: %w", c, doc.ID.Key(), mirror.ErrDuplicate)
		}
		return fmt.Errorf("upsert %s: %w", c, err)
	}
	if res.MatchedCount == 0 {
		return s.Insert(ctx, c, doc)
	}
	return nil
}

// Delete removes a document by local id, or by remote id when the local
// side is absent. A missing document is not an error.
func (s *Store) Delete(ctx context.Context, c mirror.Collection, id model.ID) error {
	if !c.Valid() {
		return fmt.Errorf("delete %s: %w", c, mirror.ErrUnknownCollection)
	}

	var filter bson.M
	switch {
	case id.HasLocal():
		filter = bson.M{"_id": id.Local}
	case id.HasRemote():
		filter = bson.M{"remote_id": id.Remote}
	default:
		return fmt.Errorf("delete %s: %w", c, mirror.ErrNoLocalID)
	}

	if _, err := s.db.Collection(string(c)).DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("delete %s: %w", c, err)
	}
	return nil
}

func (s *Store) nextSeq(ctx context.Context) (int64, error) {
	var counter struct {
		Value int64 `bson:"value"`
	}
	err := s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": "seq"},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return counter.Value, nil
}

// parentFilter mirrors model.ID equality: one present side must match and
// no present side may disagree with a stored non-empty side.
func parentFilter(parent model.ID) bson.M {
	if parent.IsZero() {
		return bson.M{}
	}

	var anyOf, allOf []bson.M
	if parent.HasRemote() {
		anyOf = append(anyOf, bson.M{"parent_remote_id": parent.Remote})
		allOf = append(allOf, bson.M{"parent_remote_id": bson.M{"$in": bson.A{"", parent.Remote}}})
	}
	if parent.HasLocal() {
		anyOf = append(anyOf, bson.M{"parent_local_id": parent.Local})
		allOf = append(allOf, bson.M{"parent_local_id": bson.M{"$in": bson.A{"", parent.Local}}})
	}
	allOf = append(allOf, bson.M{"$or": anyOf})
	return bson.M{"$and": allOf}
}

// toMirror converts the stored body through relaxed extended JSON so that
// nested values decode the same way as on the other backends.
func (d document) toMirror() (mirror.Document, error) {
	fields := mirror.Fields{}
	if len(d.Body) > 0 {
		data, err := bson.MarshalExtJSON(d.Body, false, false)
		if err != nil {
			return mirror.Document{}, err
		}
		if err := json.Unmarshal(data, &fields); err != nil {
			return mirror.Document{}, err
		}
	}
	return mirror.Document{
		ID:     model.NewID(d.RemoteID, d.LocalID),
		Parent: model.NewID(d.ParentRemoteID, d.ParentLocalID),
		Fields: fields,
	}, nil
}
