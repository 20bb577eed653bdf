package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/io"
	"github.com/matzehuels/flashtrack/pkg/observability"
)

const backendRedis = "redis"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // key prefix, e.g. "flashtrack:"
}

// RedisStore keeps each course as a JSON value under <prefix>course:<name>
// and the set of names under <prefix>courses.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := ping(ctx, func(ctx context.Context) error { return client.Ping(ctx).Err() }); err != nil {
		client.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect redis %s", cfg.Addr)
	}
	return &RedisStore{client: client, prefix: cfg.Prefix}, nil
}

func (s *RedisStore) key(name string) string { return s.prefix + "course:" + name }
func (s *RedisStore) index() string          { return s.prefix + "courses" }

func (s *RedisStore) get(ctx context.Context, name string) (Record, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, errs.Wrap(errs.ErrCodeStorage, err, "redis get %s", name)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, errs.Wrap(errs.ErrCodeStorage, err, "decode %s", name)
	}
	return rec, nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (Record, error) {
	start := time.Now()
	rec, err := s.get(ctx, name)
	observability.Store().OnStoreGet(ctx, backendRedis, name, err == nil, time.Since(start), ignoreMiss(err))
	return rec, err
}

func (s *RedisStore) Save(ctx context.Context, f io.File) (Info, error) {
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
	data, err := json.Marshal(rec)
	if err != nil {
		return Info{}, fmt.Errorf("encode record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(rec.Name), data, 0)
		pipe.SAdd(ctx, s.index(), rec.Name)
		return nil
	})
	observability.Store().OnStoreSave(ctx, backendRedis, rec.Name, len(rec.Data), time.Since(start), err)
	if err != nil {
		return Info{}, errs.Wrap(errs.ErrCodeStorage, err, "redis save %s", rec.Name)
	}
	return rec.Info, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.Del(ctx, s.key(name))
		pipe.SRem(ctx, s.index(), name)
		return nil
	})
	if err != nil {
		err = errs.Wrap(errs.ErrCodeStorage, err, "redis delete %s", name)
	} else if removed.Val() == 0 {
		err = ErrNotFound
	}
	observability.Store().OnStoreDelete(ctx, backendRedis, name, ignoreMiss(err))
	return err
}

func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	names, err := s.client.SMembers(ctx, s.index()).Result()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "redis list")
	}
	if len(names) == 0 {
		return nil, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = s.key(name)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "redis list")
	}

	infos := make([]Info, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			continue
		}
		infos = append(infos, rec.Info)
	}
	sortInfos(infos)
	return infos, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
