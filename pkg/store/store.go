// Package store persists named courses.
//
// A [Store] keeps one record per course name. Records carry the encoded
// course file plus catalog metadata so that listing never decodes courses.
// Backends:
//   - [FileStore]: one JSON file per course, for the CLI
//   - [MemoryStore]: process-local, for tests and the API without persistence
//   - [RedisStore]: shared storage for multi-instance API deployments
//   - [MongoStore]: document storage with a queryable catalog
//
// Every backend reports to [observability.Store].
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/flashtrack/pkg/errors"
	"github.com/matzehuels/flashtrack/pkg/io"
)

// ErrNotFound is returned when no course is stored under a name.
var ErrNotFound = errors.New("course not found")

// Info is the catalog entry of a stored course.
type Info struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"_id"`
	Color     string    `json:"color" bson:"color"`
	Completed bool      `json:"completed" bson:"completed"`
	Nodes     int       `json:"nodes" bson:"nodes"`
	Edges     int       `json:"edges" bson:"edges"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Record is a stored course: its catalog entry plus the JSON course file.
type Record struct {
	Info `bson:",inline"`
	Data []byte `json:"data" bson:"data"`
}

// File decodes the stored course file.
func (r Record) File() (io.File, error) {
	return io.UnmarshalJSON(r.Data)
}

// Store is the interface for course storage backends.
type Store interface {
	// Load returns the course stored under name, or ErrNotFound.
	Load(ctx context.Context, name string) (Record, error)

	// Save stores f under f.Name, replacing any previous version. The
	// record keeps its ID and CreatedAt across saves.
	Save(ctx context.Context, f io.File) (Info, error)

	// Delete removes the course stored under name, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error

	// List returns all stored courses sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Close releases backend resources.
	Close() error
}

// newRecord validates f and encodes it into a record. prev is the record
// being replaced, if any.
func newRecord(f io.File, prev *Record, now time.Time) (Record, error) {
	if err := errs.ValidateCourseName(f.Name); err != nil {
		return Record{}, err
	}
	data, err := io.MarshalJSON(f)
	if err != nil {
		return Record{}, err
	}
	// Mongo keeps millisecond precision.
	now = now.Truncate(time.Millisecond)
	rec := Record{
		Info: Info{
			ID:        uuid.NewString(),
			Name:      f.Name,
			Color:     f.Color,
			Completed: f.Completed,
			Nodes:     len(f.Course.Nodes),
			Edges:     len(f.Course.Edges),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Data: data,
	}
	if rec.Color == "" {
		rec.Color = io.DefaultColor
	}
	if prev != nil {
		rec.ID = prev.ID
		rec.CreatedAt = prev.CreatedAt
	}
	return rec, nil
}

// NotFound converts a store miss into a coded COURSE_NOT_FOUND error and
// passes other errors through.
func NotFound(err error, name string) error {
	if errors.Is(err, ErrNotFound) {
		return errs.Wrap(errs.ErrCodeCourseNotFound, err, "course %q", name)
	}
	return err
}
