// Package redis is a mirror backend that keeps each collection in one Redis
// hash keyed by local id, with a companion hash indexing remote ids.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/roach88/boardctl/internal/mirror"
	"github.com/roach88/boardctl/internal/model"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "boardctl"

// record is the JSON value stored under a local id.
type record struct {
	RemoteID       string        `json:"remote_id,omitempty"`
	ParentRemoteID string        `json:"parent_remote_id,omitempty"`
	ParentLocalID  string        `json:"parent_local_id,omitempty"`
	Seq            int64         `json:"seq"`
	Body           mirror.Fields `json:"body"`
}

// Store is the Redis mirror backend.
type Store struct {
	client *redis.Client
	prefix string
	owned  bool
}

var _ mirror.Store = (*Store)(nil)

// New wraps an existing client. The caller keeps ownership of client.
func New(client *redis.Client, prefix string) *Store {
	if client == nil {
		panic("redis.New: client is nil")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Open dials addr and verifies the connection. Close releases the client.
func Open(ctx context.Context, addr, prefix string) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	s := New(client, prefix)
	s.owned = true
	return s, nil
}

// Close releases the client when the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

func (s *Store) docsKey(c mirror.Collection) string {
	return s.prefix + ":" + string(c)
}

func (s *Store) remoteKey(c mirror.Collection) string {
	return s.prefix + ":" + string(c) + ":remote"
}

func (s *Store) seqKey() string {
	return s.prefix + ":seq"
}

// Find returns the documents whose parent matches, in insertion order.
func (s *Store) Find(ctx context.Context, c mirror.Collection, parent model.ID) ([]mirror.Document, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("find %s: %w", c, mirror.ErrUnknownCollection)
	}

	all, err := s.client.HGetAll(ctx, s.docsKey(c)).Result()
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c, err)
	}

	type entry struct {
		local string
		rec   record
	}
	entries := make([]entry, 0, len(all))
	for local, raw := range all {
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c, local, err)
		}
		if !mirror.ParentMatches(parent, model.NewID(rec.ParentRemoteID, rec.ParentLocalID)) {
			continue
		}
		entries = append(entries, entry{local: local, rec: rec})
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if a.rec.Seq != b.rec.Seq {
			if a.rec.Seq < b.rec.Seq {
				return -1
			}
			return 1
		}
		return strings.Compare(a.local, b.local)
	})

	docs := make([]mirror.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e.rec.document(e.local))
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

	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("insert %s: %w", c, err)
	}
	payload, err := encodeRecord(record{
		RemoteID:       doc.ID.Remote,
		ParentRemoteID: doc.Parent.Remote,
		ParentLocalID:  doc.Parent.Local,
		Seq:            seq,
		Body:           mirror.MergeFields(nil, doc.Fields),
	})
	if err != nil {
		return fmt.Errorf("insert %s: %w", c, err)
	}

	if doc.ID.HasRemote() {
		ok, err := s.client.HSetNX(ctx, s.remoteKey(c), doc.ID.Remote, doc.ID.Local).Result()
		if err != nil {
			return fmt.Errorf("insert %s: %w", c, err)
		}
		if !ok {
			return fmt.Errorf("insert %s %s: %w", c, doc.ID.Key(), mirror.ErrDuplicate)
		}
	}

	ok, err := s.client.HSetNX(ctx, s.docsKey(c), doc.ID.Local, payload).Result()
	if err != nil || !ok {
		if doc.ID.HasRemote() {
			_ = s.client.HDel(ctx, s.remoteKey(c), doc.ID.Remote).Err()
		}
		if err != nil {
			return fmt.Errorf("insert %s: %w", c, err)
		}
		return fmt.Errorf("insert %s %s: %w", c, doc.ID.Key(), mirror.ErrDuplicate)
	}
	return nil
}

// UpsertByID merges doc.Fields into the stored body. Identifier and parent
// sides keep their stored value when the incoming side is empty.
func (s *Store) UpsertByID(ctx context.Context, c mirror.Collection, doc mirror.Document) error {
	if !c.Valid() {
		return fmt.Errorf("upsert %s: %w", c, mirror.ErrUnknownCollection)
	}
	if !doc.ID.HasLocal() {
		return fmt.Errorf("upsert %s: %w", c, mirror.ErrNoLocalID)
	}

	rec, found, err := s.load(ctx, c, doc.ID.Local)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", c, err)
	}
	if !found {
		return s.Insert(ctx, c, doc)
	}

	oldRemote := rec.RemoteID
	rec.RemoteID = pick(doc.ID.Remote, rec.RemoteID)
	rec.ParentRemoteID = pick(doc.Parent.Remote, rec.ParentRemoteID)
	rec.ParentLocalID = pick(doc.Parent.Local, rec.ParentLocalID)
	rec.Body = mirror.MergeFields(rec.Body, doc.Fields)

	if rec.RemoteID != oldRemote {
		owner, err := s.client.HGet(ctx, s.remoteKey(c), rec.RemoteID).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("upsert %s: %w", c, err)
		}
		if err == nil && owner != doc.ID.Local {
			return fmt.Errorf("upsert %s %s: %w", c, doc.ID.Key(), mirror.ErrDuplicate)
		}
	}

	payload, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", c, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.docsKey(c), doc.ID.Local, payload)
		if rec.RemoteID != oldRemote {
			if oldRemote != "" {
				pipe.HDel(ctx, s.remoteKey(c), oldRemote)
			}
			pipe.HSet(ctx, s.remoteKey(c), rec.RemoteID, doc.ID.Local)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert %s: %w", c, err)
	}
	return nil
}

// Delete removes a document by local id, or by remote id when the local
// side is absent. A missing document is not an error.
func (s *Store) Delete(ctx context.Context, c mirror.Collection, id model.ID) error {
	if !c.Valid() {
		return fmt.Errorf("delete %s: %w", c, mirror.ErrUnknownCollection)
	}

	local := id.Local
	if local == "" {
		if !id.HasRemote() {
			return fmt.Errorf("delete %s: %w", c, mirror.ErrNoLocalID)
		}
		owner, err := s.client.HGet(ctx, s.remoteKey(c), id.Remote).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("delete %s: %w", c, err)
		}
		local = owner
	}

	rec, found, err := s.load(ctx, c, local)
	if err != nil {
		return fmt.Errorf("delete %s: %w", c, err)
	}
	if !found {
		return nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.docsKey(c), local)
		if rec.RemoteID != "" {
			pipe.HDel(ctx, s.remoteKey(c), rec.RemoteID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", c, err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, c mirror.Collection, local string) (record, bool, error) {
	raw, err := s.client.HGet(ctx, s.docsKey(c), local).Result()
	if errors.Is(err, redis.Nil) {
		return record{}, false, nil
	}
	if err != nil {
		return record{}, false, err
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return record{}, false, fmt.Errorf("decode %s/%s: %w", c, local, err)
	}
	return rec, true, nil
}

func (r record) document(local string) mirror.Document {
	body := r.Body
	if body == nil {
		body = mirror.Fields{}
	}
	return mirror.Document{
		ID:     model.NewID(r.RemoteID, local),
		Parent: model.NewID(r.ParentRemoteID, r.ParentLocalID),
		Fields: body,
	}
}

func encodeRecord(r record) (string, error) {
	if r.Body == nil {
		r.Body = mirror.Fields{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func pick(incoming, stored string) string {
	if incoming != "" {
		return incoming
	}
	return stored
}
