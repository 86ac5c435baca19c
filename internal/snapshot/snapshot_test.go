package snapshot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/salonsite/internal/core"
)

func testDataset() *core.Dataset {
	salons, cities, states, categories := []core.Salon{
		{ID: "1", Title: "Salon A", CityID: "c1", StateID: "s1", CategoryIDs: "k1"},
	}, []core.City{{ID: "c1", Name: "Springfield", StateID: "s1"}},
		[]core.State{{ID: "s1", Name: "Illinois"}},
		[]core.Category{{ID: "k1", Name: "Hair"}}
	return core.Project(core.Link(salons, cities, states, categories))
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "nested", "snap.db"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	ds := testDataset()
	generated := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, Snapshot{RunID: "run-1", GeneratedAt: generated, Dataset: ds}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.RunID)
	assert.True(t, generated.Equal(got.GeneratedAt))
	assert.Equal(t, ds.Salons, got.Dataset.Salons)
	assert.Equal(t, ds.Cities, got.Dataset.Cities)
	assert.Equal(t, ds.States, got.Dataset.States)
	assert.Equal(t, ds.Categories, got.Dataset.Categories)
}

func TestSQLite_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	defer store.Close()

	ds := testDataset()
	require.NoError(t, store.Save(ctx, Snapshot{RunID: "run-1", GeneratedAt: time.Now(), Dataset: ds}))

	ds.Salons = nil
	require.NoError(t, store.Save(ctx, Snapshot{RunID: "run-2", GeneratedAt: time.Now(), Dataset: ds}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.RunID)
	assert.Empty(t, got.Dataset.Salons)
	assert.Len(t, got.Dataset.Cities, 1)
}

func TestUpsert_Placeholders(t *testing.T) {
	r := row{bucket: bucketCities, payload: []byte("[]")}

	query, args, err := upsert(sq.Dollar, "run-1", time.Unix(0, 0), r)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(query, "INSERT INTO site_snapshot (bucket,run_id,generated_at,payload) VALUES ($1,$2,$3,$4)"), query)
	assert.Contains(t, query, "ON CONFLICT (bucket) DO UPDATE")
	assert.Equal(t, []any{"cities", "run-1", "1970-01-01T00:00:00Z", []byte("[]")}, args)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, DriverNone, "")
	require.NoError(t, err)
	assert.NoError(t, s.Save(ctx, Snapshot{Dataset: &core.Dataset{}}))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = Open(ctx, "mysql", "")
	assert.Error(t, err)

	_, err = Open(ctx, DriverPostgres, "")
	assert.Error(t, err)
}
