package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/flashtrack/pkg/config"
	"github.com/matzehuels/flashtrack/pkg/course"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/geom"
	"github.com/matzehuels/flashtrack/pkg/io"
)

func loop(t *testing.T, name string) io.File {
	t.Helper()
	c := course.New(course.DefaultOptions())
	a := c.AddNode(geom.Pt(300, 300))
	b := c.AddNode(geom.Pt(500, 300))
	x := c.AddNode(geom.Pt(400, 450))
	for _, pair := range [][2]course.NodeID{{a, b}, {b, x}, {x, a}} {
		if _, err := c.Connect(pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}
	return io.NewFile(name, c)
}

// testStore runs the behavior every backend must share.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("LoadMissing", func(t *testing.T) {
		if _, err := s.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("InvalidName", func(t *testing.T) {
		_, err := s.Save(ctx, loop(t, "../escape"))
		if !errs.Is(err, errs.ErrCodeInvalidName) {
			t.Errorf("Save error = %v, want %s", err, errs.ErrCodeInvalidName)
		}
	})

	t.Run("SaveLoad", func(t *testing.T) {
		want := loop(t, "triangle")
		info, err := s.Save(ctx, want)
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if info.ID == "" || info.Nodes != 3 || info.Edges != 3 || info.Color != io.DefaultColor {
			t.Errorf("info = %+v", info)
		}

		rec, err := s.Load(ctx, "triangle")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if rec.ID != info.ID {
			t.Errorf("ID = %q, want %q", rec.ID, info.ID)
		}
		got, err := rec.File()
		if err != nil {
			t.Fatalf("File: %v", err)
		}
		if got.Name != want.Name || len(got.Course.Edges) != 3 || got.Course.Nodes[2] != geom.Pt(400, 450) {
			t.Errorf("loaded %+v", got)
		}
	})

	t.Run("OverwriteKeepsID", func(t *testing.T) {
		f := loop(t, "overwrite")
		first, err := s.Save(ctx, f)
		if err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
		f.Completed = true
		f.Course.Edges = f.Course.Edges[:1]
		second, err := s.Save(ctx, f)
		if err != nil {
			t.Fatal(err)
		}
		if second.ID != first.ID {
			t.Errorf("ID changed: %q -> %q", first.ID, second.ID)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, second.CreatedAt)
		}
		if !second.Completed || second.Edges != 1 {
			t.Errorf("second = %+v", second)
		}
	})

	t.Run("ListSorted", func(t *testing.T) {
		for _, name := range []string{"zigzag", "alpha"} {
			if _, err := s.Save(ctx, loop(t, name)); err != nil {
				t.Fatal(err)
			}
		}
		infos, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var names []string
		for _, info := range infos {
			names = append(names, info.Name)
		}
		want := []string{"alpha", "overwrite", "triangle", "zigzag"}
		if len(names) != len(want) {
			t.Fatalf("List = %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Fatalf("List = %v, want %v", names, want)
			}
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.Delete(ctx, "alpha"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := s.Load(ctx, "alpha"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load after Delete error = %v", err)
		}
	})
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestFileStoreEmptyDir(t *testing.T) {
	if _, err := NewFileStore(""); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want %s", err, errs.ErrCodeInvalidInput)
	}
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(context.Background(), loop(t, "good")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir+"/bad.json", []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	infos, err := s.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Name != "good" {
		t.Errorf("List = %+v", infos)
	}
	if _, err := s.Load(context.Background(), "bad"); !errs.Is(err, errs.ErrCodeStorage) {
		t.Errorf("Load(bad) error = %v, want %s", err, errs.ErrCodeStorage)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("FLASHTRACK_TEST_REDIS")
	if addr == "" {
		t.Skip("FLASHTRACK_TEST_REDIS not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: "flashtrack-test:" + time.Now().Format("150405.000") + ":"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	testStore(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("FLASHTRACK_TEST_MONGO")
	if uri == "" {
		t.Skip("FLASHTRACK_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{
		URI:        uri,
		Database:   "flashtrack_test",
		Collection: "courses_" + time.Now().Format("150405000"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = s.coll.Drop(ctx)
		s.Close()
	}()
	testStore(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Backend: config.BackendFile, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("Open(file) = %T", s)
	}

	s, err = Open(ctx, config.StoreConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open(memory) = %T", s)
	}

	if _, err := Open(ctx, config.StoreConfig{Backend: "s3"}); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("Open(s3) error = %v", err)
	}
}

func TestNotFound(t *testing.T) {
	err := NotFound(ErrNotFound, "loop")
	if !errs.Is(err, errs.ErrCodeCourseNotFound) {
		t.Errorf("NotFound(ErrNotFound) = %v", err)
	}
	other := errors.New("boom")
	if NotFound(other, "loop") != other {
		t.Error("NotFound should pass other errors through")
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	calls := 0
	err := retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return retryable(boom)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry = %v after %d calls, want nil after 2", err, calls)
	}

	calls = 0
	err = retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return boom
	})
	if err != boom || calls != 1 {
		t.Errorf("non-retryable: %v after %d calls", err, calls)
	}

	ctx, cancel := context.WithCancel(ctx)
	cancel()
	err = retry(ctx, 3, time.Millisecond, func() error { return retryable(boom) })
	if err != context.Canceled {
		t.Errorf("cancelled retry = %v, want context.Canceled", err)
	}
}
