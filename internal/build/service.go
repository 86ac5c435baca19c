// Package build runs the site generation pipeline: load the archive, link
// and project the data, then render and publish every output file.
//
// The linking phases run one after another on a single goroutine. Only the
// final write phase fans out, bounded by Options.Concurrency.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/salonsite/internal/core"
	"github.com/JonMunkholm/salonsite/internal/ingest"
	"github.com/JonMunkholm/salonsite/internal/logging"
	"github.com/JonMunkholm/salonsite/internal/metrics"
	"github.com/JonMunkholm/salonsite/internal/publish"
	"github.com/JonMunkholm/salonsite/internal/render"
	"github.com/JonMunkholm/salonsite/internal/sitemap"
	"github.com/JonMunkholm/salonsite/internal/snapshot"
)

// Options configures a Service.
type Options struct {
	ArchivePath string
	Site        render.Site
	ChunkSize   int // Companies per sitemap file
	CityPreview int // Cities listed on the sitemap page
	Concurrency int // Parallel writers; values below 1 mean 1
}

// Service runs builds.
type Service struct {
	opts      Options
	store     publish.Store
	snapshots snapshot.Store
	metrics   *metrics.Recorder

	now      func() time.Time
	newRunID func() string
}

// NewService creates a Service. snapshots and rec may be nil.
func NewService(opts Options, store publish.Store, snapshots snapshot.Store, rec *metrics.Recorder) *Service {
	if snapshots == nil {
		snapshots, _ = snapshot.Open(context.Background(), snapshot.DriverNone, "")
	}
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	return &Service{
		opts:      opts,
		store:     store,
		snapshots: snapshots,
		metrics:   rec,
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
}

// Result describes a finished run.
type Result struct {
	Manifest Manifest
	Dataset  *core.Dataset
}

// Run executes one build. Any error aborts the run; files already written
// stay in place.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	runID := s.newRunID()
	ctx = logging.WithRun(ctx, runID)
	logger := logging.FromContext(ctx)
	started := s.now()

	logger.Info("build started", slog.String("archive", s.opts.ArchivePath), slog.String("output", string(s.store.Driver())))

	var entities *ingest.Entities
	err := s.phase(ctx, "load", func() error {
		var err error
		entities, err = ingest.Load(ctx, s.opts.ArchivePath)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	logger.Info("archive loaded",
		slog.Int("salons", len(entities.Salons)),
		slog.Int("cities", len(entities.Cities)),
		slog.Int("states", len(entities.States)),
		slog.Int("categories", len(entities.Categories)),
	)

	ds, report := s.link(ctx, entities)
	s.metrics.ObserveDataset(ds)
	s.metrics.ObserveLinks(report)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	generatedAt := s.now().UTC()
	var sitemaps []sitemap.File
	err = s.phase(ctx, "sitemap", func() error {
		var err error
		sitemaps, err = sitemap.Build(ds, sitemap.Options{
			BaseURL:   s.opts.Site.BaseURL,
			ChunkSize: s.opts.ChunkSize,
			Now:       generatedAt,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("sitemap: %w: %w", ErrRender, err)
	}

	files := plan(ds, s.opts.Site, sitemaps, s.opts.CityPreview)
	if err := s.phase(ctx, "write", func() error { return s.writeAll(ctx, files) }); err != nil {
		return nil, err
	}

	err = s.phase(ctx, "snapshot", func() error {
		return s.snapshots.Save(ctx, snapshot.Snapshot{RunID: runID, GeneratedAt: generatedAt, Dataset: ds})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}

	// The manifest goes out last: its presence marks a complete run.
	manifest := Manifest{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Counts: Counts{
			Salons:     len(ds.Salons),
			Cities:     len(ds.Cities),
			States:     len(ds.States),
			Categories: len(ds.Categories),
			Sitemaps:   len(sitemaps),
			Files:      len(files) + 1,
		},
		LinkReport: report,
	}
	if err := s.write(ctx, jsonFile(ManifestJSON, manifest)); err != nil {
		return nil, err
	}

	s.metrics.MarkSuccess(s.now())
	logger.Info("build complete",
		slog.Int("files", manifest.Counts.Files),
		slog.Int64("duration_ms", s.now().Sub(started).Milliseconds()),
	)
	return &Result{Manifest: manifest, Dataset: ds}, nil
}

// link runs resolve, infer, aggregate and project in order.
func (s *Service) link(ctx context.Context, e *ingest.Entities) (*core.Dataset, core.LinkReport) {
	var g *core.Graph
	var ds *core.Dataset

	s.timed(ctx, "resolve", func() {
		g = core.Resolve(e.Salons, e.Cities, e.States, e.Categories)
	})
	s.timed(ctx, "infer", func() { g = core.Infer(g) })
	s.timed(ctx, "aggregate", func() { g = core.Aggregate(g) })

	report := core.Report(g)
	if report.Total() > 0 {
		logging.FromContext(ctx).Debug("unresolved links",
			slog.Int("total", report.Total()),
			slog.Int("salons_without_city", report.SalonsWithoutCity),
			slog.Int("salons_without_state", report.SalonsWithoutState),
			slog.Int("unknown_category_refs", report.UnknownCategoryRefs),
			slog.Int("cities_without_state", report.CitiesWithoutState),
		)
	}

	s.timed(ctx, "project", func() { ds = core.Project(g) })
	return ds, report
}

// timed runs a phase that cannot fail.
func (s *Service) timed(ctx context.Context, name string, fn func()) {
	start := s.now()
	fn()
	d := s.now().Sub(start)
	s.metrics.ObservePhase(name, d)
	logging.WithFields(ctx, "phase", name, "duration_ms", d.Milliseconds()).Debug("phase complete")
}

// phase times fn and logs the outcome.
func (s *Service) phase(ctx context.Context, name string, fn func() error) error {
	start := s.now()
	err := fn()
	d := s.now().Sub(start)
	s.metrics.ObservePhase(name, d)

	logger := logging.WithFields(ctx, "phase", name, "duration_ms", d.Milliseconds())
	if err != nil {
		logger.Error("phase failed", slog.Any("error", err))
		return err
	}
	logger.Debug("phase complete")
	return nil
}

// writeAll renders and publishes files with at most Concurrency writers.
// The first failure cancels the remaining writes.
func (s *Service) writeAll(ctx context.Context, files []file) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.opts.Concurrency, 1))

	for _, f := range files {
		f := f
		g.Go(func() error { return s.write(gctx, f) })
	}
	return g.Wait()
}

func (s *Service) write(ctx context.Context, f file) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := f.render(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", f.key, ErrRender, err)
	}
	if err := s.store.Put(ctx, f.key, body); err != nil {
		return fmt.Errorf("%s: %w: %w", f.key, ErrWrite, err)
	}
	s.metrics.FileWritten()
	return nil
}
