// Package snapshot persists the projected dataset of a run into a SQL
// database so other tools can query the last published state.
//
// Every bucket (salons, cities, states, categories) is stored as one JSON
// payload row of the site_snapshot table and upserted on each run.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"

	"github.com/JonMunkholm/salonsite/internal/core"
)

// Driver identifies a Store implementation.
type Driver string

const (
	DriverNone     Driver = "none"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const tableSnapshot = "site_snapshot"

// Bucket names.
const (
	bucketSalons     = "salons"
	bucketCities     = "cities"
	bucketStates     = "states"
	bucketCategories = "categories"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot saved")

// Snapshot is the persisted result of one run.
type Snapshot struct {
	RunID       string
	GeneratedAt time.Time
	Dataset     *core.Dataset
}

// Store saves and loads snapshots.
type Store interface {
	Save(ctx context.Context, s Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
	Close() error
}

// Open returns the Store for driver. DriverNone (or "") yields a Store that
// discards saves.
func Open(ctx context.Context, driver Driver, dsn string) (Store, error) {
	switch driver {
	case DriverNone, "":
		return nopStore{}, nil
	case DriverSQLite:
		return NewSQLite(ctx, dsn)
	case DriverPostgres:
		return NewPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", driver)
	}
}

type nopStore struct{}

func (nopStore) Save(context.Context, Snapshot) error    { return nil }
func (nopStore) Load(context.Context) (*Snapshot, error) { return nil, ErrNoSnapshot }
func (nopStore) Close() error                            { return nil }

// row is one bucket ready to be written.
type row struct {
	bucket  string
	payload []byte
}

func encodeRows(ds *core.Dataset) ([]row, error) {
	parts := []struct {
		bucket string
		v      any
	}{
		{bucketSalons, ds.Salons},
		{bucketCities, ds.Cities},
		{bucketStates, ds.States},
		{bucketCategories, ds.Categories},
	}
	rows := make([]row, len(parts))
	for i, p := range parts {
		payload, err := sonic.Marshal(p.v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", p.bucket, err)
		}
		rows[i] = row{bucket: p.bucket, payload: payload}
	}
	return rows, nil
}

// decodeBucket stores payload into the matching Dataset field.
func decodeBucket(ds *core.Dataset, bucket string, payload []byte) error {
	var target any
	switch bucket {
	case bucketSalons:
		target = &ds.Salons
	case bucketCities:
		target = &ds.Cities
	case bucketStates:
		target = &ds.States
	case bucketCategories:
		target = &ds.Categories
	default:
		return nil
	}
	if err := sonic.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode %s: %w", bucket, err)
	}
	return nil
}

// upsert builds the insert-or-replace statement for one bucket.
func upsert(format sq.PlaceholderFormat, runID string, generatedAt time.Time, r row) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(format).
		Insert(tableSnapshot).
		Columns("bucket", "run_id", "generated_at", "payload").
		Values(r.bucket, runID, generatedAt.UTC().Format(time.RFC3339), r.payload).
		Suffix("ON CONFLICT (bucket) DO UPDATE SET run_id = excluded.run_id, generated_at = excluded.generated_at, payload = excluded.payload").
		ToSql()
}

func selectAll(format sq.PlaceholderFormat) (string, []any, error) {
	return sq.StatementBuilder.PlaceholderFormat(format).
		Select("bucket", "run_id", "generated_at", "payload").
		From(tableSnapshot).
		OrderBy("bucket").
		ToSql()
}

// scanned accumulates selected rows into a Snapshot.
type scanned struct {
	snap *Snapshot
}

func (s *scanned) add(bucket, runID, generatedAt string, payload []byte) error {
	if s.snap == nil {
		s.snap = &Snapshot{Dataset: &core.Dataset{}}
	}
	s.snap.RunID = runID
	if t, err := time.Parse(time.RFC3339, generatedAt); err == nil {
		s.snap.GeneratedAt = t
	}
	return decodeBucket(s.snap.Dataset, bucket, payload)
}

func (s *scanned) result() (*Snapshot, error) {
	if s.snap == nil {
		return nil, ErrNoSnapshot
	}
	return s.snap, nil
}
