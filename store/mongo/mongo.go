// Package mongo adapts a MongoDB collection to the [astrodb.Store]
// interface.
//
// Each record is stored as one document: a "sources" array holding the
// provenance list, one embedded document per provenance entry with that row's
// fields, and the envelope bounds as top-level ra_min/ra_max/dec_min/dec_max
// for the rectangle prefilter. Records without a sky position omit the bounds
// and are invisible to Query, matching their never-merge semantics.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JHaller27/astrodb"
)

// Field names reserved at the top level of every document. Provenance labels
// are sanitized by the record builder and cannot collide with them.
const (
	sourcesField = "sources"
	raMinField   = "ra_min"
	raMaxField   = "ra_max"
	decMinField  = "dec_min"
	decMaxField  = "dec_max"
)

// Store is a MongoDB-backed document store for detection records.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect dials the MongoDB instance at uri and binds to the named database
// and collection. When dropExisting is true the collection is dropped first,
// giving a clean load. An index over the envelope bounds is ensured so the
// prefilter query stays cheap as the collection grows into the millions.
func Connect(ctx context.Context, uri, dbName, collName string, dropExisting bool) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", astrodb.ErrStoreConnection, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping %s: %v", astrodb.ErrStoreConnection, uri, err)
	}

	coll := client.Database(dbName).Collection(collName)
	if dropExisting {
		if err := coll.Drop(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("%w: drop %s: %v", astrodb.ErrStoreConnection, collName, err)
		}
	}

	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: raMinField, Value: 1},
			{Key: raMaxField, Value: 1},
			{Key: decMinField, Value: 1},
			{Key: decMaxField, Value: 1},
		},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ensure envelope index: %v", astrodb.ErrStoreConnection, err)
	}

	return &Store{client: client, coll: coll}, nil
}

// Close disconnects from the server.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Query returns every persisted record whose stored envelope intersects env,
// bounds inclusive.
func (s *Store) Query(ctx context.Context, env astrodb.Envelope) ([]astrodb.Record, error) {
	filter := bson.M{
		raMinField:  bson.M{"$lte": env.RAMax},
		raMaxField:  bson.M{"$gte": env.RAMin},
		decMinField: bson.M{"$lte": env.DecMax},
		decMaxField: bson.M{"$gte": env.DecMin},
	}

	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}

	records := make([]astrodb.Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := decode(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// InsertMany writes records as a single batch insert and returns the number
// accepted.
func (s *Store) InsertMany(ctx context.Context, records []astrodb.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, len(records))
	for i, rec := range records {
		docs[i] = encode(rec)
	}

	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		n := 0
		if res != nil {
			n = len(res.InsertedIDs)
		}
		return n, fmt.Errorf("%w: %v", astrodb.ErrStoreWrite, err)
	}
	return len(res.InsertedIDs), nil
}

// DeleteOne removes the persisted record with the given provenance list.
func (s *Store) DeleteOne(ctx context.Context, record astrodb.Record) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{sourcesField: record.Provenance})
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// encode maps a record onto its document form.
func encode(rec astrodb.Record) bson.M {
	doc := bson.M{sourcesField: rec.Provenance}

	for src, fields := range rec.Rows {
		sub := make(bson.M, len(fields))
		for name, v := range fields {
			sub[name] = v.Interface()
		}
		doc[src] = sub
	}

	if env, ok := rec.Envelope(); ok {
		doc[raMinField] = env.RAMin
		doc[raMaxField] = env.RAMax
		doc[decMinField] = env.DecMin
		doc[decMaxField] = env.DecMax
	}
	if rec.Key != nil {
		doc["_id"] = *rec.Key
	}
	return doc
}

// decode rebuilds a record from its document form. The envelope is not read
// back: records re-derive it from their row coordinates, so stale persisted
// bounds can never leak into a merge.
func decode(doc bson.M) (astrodb.Record, error) {
	raw, ok := doc[sourcesField].(bson.A)
	if !ok {
		return astrodb.Record{}, fmt.Errorf("persisted record missing %q array", sourcesField)
	}

	rec := astrodb.Record{
		Provenance: make([]string, 0, len(raw)),
		Rows:       make(map[string]astrodb.Fields, len(raw)),
	}
	for _, item := range raw {
		src, ok := item.(string)
		if !ok {
			return astrodb.Record{}, fmt.Errorf("persisted record has non-string source entry %v", item)
		}
		rec.Provenance = append(rec.Provenance, src)

		// The driver hands embedded documents back as bson.D when the
		// parent decodes into a bson.M.
		fields := astrodb.Fields{}
		switch sub := doc[src].(type) {
		case bson.D:
			for _, e := range sub {
				fields[e.Key] = astrodb.Normalize(e.Value)
			}
		case bson.M:
			for name, v := range sub {
				fields[name] = astrodb.Normalize(v)
			}
		}
		rec.Rows[src] = fields
	}

	switch id := doc["_id"].(type) {
	case int64:
		rec.Key = &id
	case int32:
		key := int64(id)
		rec.Key = &key
	}

	return rec, nil
}
