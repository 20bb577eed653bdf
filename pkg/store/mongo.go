package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/io"
	"github.com/matzehuels/flashtrack/pkg/observability"
)

const backendMongo = "mongo"

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps one document per course, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect mongo")
	}
	if err := ping(ctx, func(ctx context.Context) error { return client.Ping(ctx, nil) }); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) get(ctx context.Context, name string) (Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, errs.Wrap(errs.ErrCodeStorage, err, "mongo find %s", name)
	}
	return rec, nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (Record, error) {
	start := time.Now()
	rec, err := s.get(ctx, name)
	observability.Store().OnStoreGet(ctx, backendMongo, name, err == nil, time.Since(start), ignoreMiss(err))
	return rec, err
}

func (s *MongoStore) Save(ctx context.Context, f io.File) (Info, error) {
	start := time.Now()
	var prev *Record
	if err := errs.ValidateCourseName(f.Name); err == nil {
		old, err := s.get(ctx, f.Name)
		switch {
		case err == nil:
			prev = &old
		case !errors.Is(err, ErrNotFound):
			return Info{}, err
		}
	}
	rec, err := newRecord(f, prev, time.Now().UTC())
	if err != nil {
		return Info{}, err
	}

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.Name}, rec, options.Replace().SetUpsert(true))
	observability.Store().OnStoreSave(ctx, backendMongo, rec.Name, len(rec.Data), time.Since(start), err)
	if err != nil {
		return Info{}, errs.Wrap(errs.ErrCodeStorage, err, "mongo save %s", rec.Name)
	}
	return rec.Info, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		err = errs.Wrap(errs.ErrCodeStorage, err, "mongo delete %s", name)
	} else if res.DeletedCount == 0 {
		err = ErrNotFound
	}
	observability.Store().OnStoreDelete(ctx, backendMongo, name, ignoreMiss(err))
	return err
}

func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"data": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "mongo list")
	}
	var infos []Info
	if err := cur.All(ctx, &infos); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "mongo list")
	}
	return infos, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
