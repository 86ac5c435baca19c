package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/salonsite/internal/core"
	"github.com/JonMunkholm/salonsite/internal/logging"
	"github.com/JonMunkholm/salonsite/internal/schema"
)

// Entities holds the decoded content of all four archive members.
type Entities struct {
	Salons     []core.Salon
	Cities     []core.City
	States     []core.State
	Categories []core.Category
}

// Load opens the archive at path and decodes every member listed by
// schema.Tables. Any failure aborts the whole load.
func Load(ctx context.Context, path string) (*Entities, error) {
	a, err := OpenArchive(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	return LoadArchive(ctx, a)
}

// LoadArchive decodes every member of an already opened archive.
func LoadArchive(ctx context.Context, a *Archive) (*Entities, error) {
	logger := logging.FromContext(ctx)
	out := &Entities{}

	for _, t := range schema.Tables() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		records, err := readMember(ctx, a, t)
		if err != nil {
			return nil, err
		}

		switch t.Key {
		case schema.Salons.Key:
			out.Salons = mapRecords(records, core.SalonFromRecord)
		case schema.Cities.Key:
			out.Cities = mapRecords(records, core.CityFromRecord)
		case schema.States.Key:
			out.States = mapRecords(records, core.StateFromRecord)
		case schema.Categories.Key:
			out.Categories = mapRecords(records, core.CategoryFromRecord)
		default:
			return nil, fmt.Errorf("no mapping for table %q", t.Key)
		}

		logger.Debug("member loaded",
			slog.String("table", t.Label),
			slog.String("member", t.Member),
			slog.Int("rows", len(records)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}
	return out, nil
}

func readMember(ctx context.Context, a *Archive, t schema.Table) ([]core.Record, error) {
	rc, err := a.Open(t.Member)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadTable(ctx, rc, t)
}

func mapRecords[T any](records []core.Record, fn func(core.Record) T) []T {
	out := make([]T, len(records))
	for i, r := range records {
		out[i] = fn(r)
	}
	return out
}
