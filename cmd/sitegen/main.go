// Command sitegen builds the salon directory site from a CSV archive.
//
// Usage:
//
//	sitegen          build the site (default)
//	sitegen build    same as above
//	sitegen serve    preview OUTPUT_DIR over HTTP
//
// Settings come from the environment and an optional .env file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/salonsite/internal/build"
	"github.com/JonMunkholm/salonsite/internal/config"
	"github.com/JonMunkholm/salonsite/internal/logging"
	"github.com/JonMunkholm/salonsite/internal/metrics"
	"github.com/JonMunkholm/salonsite/internal/publish"
	"github.com/JonMunkholm/salonsite/internal/render"
	"github.com/JonMunkholm/salonsite/internal/snapshot"
	"github.com/JonMunkholm/salonsite/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err == nil {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err, "code", build.MapError(err).Code)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := "build"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "build":
		err = runBuild(ctx, cfg)
	case "serve":
		err = runServe(ctx, cfg)
	default:
		err = fmt.Errorf("unknown command %q (want build or serve)", cmd)
	}

	if err != nil {
		msg := build.MapError(err)
		slog.Error(build.FormatUserError(err), "error", err, "code", msg.Code)
		stop()
		os.Exit(1)
	}
}

func runBuild(ctx context.Context, cfg *config.Config) error {
	if err := cfg.RequireArchive(); err != nil {
		return err
	}

	store, err := publish.Open(ctx, publish.Options{
		Driver: publish.Driver(cfg.Output.Driver),
		Root:   cfg.Output.Dir,
		S3: publish.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			MaxRetries:      uint64(cfg.S3.MaxRetries),
		},
	})
	if err != nil {
		return fmt.Errorf("open output: %w: %w", build.ErrWrite, err)
	}

	snaps, err := snapshot.Open(ctx, snapshot.Driver(cfg.Snapshot.Driver), cfg.Snapshot.DSN)
	if err != nil {
		return fmt.Errorf("%w: %w", build.ErrSnapshot, err)
	}
	defer snaps.Close()

	rec := metrics.NewRecorder()
	svc := build.NewService(build.Options{
		ArchivePath: cfg.Input.Archive,
		Site:        render.NewSite(cfg.Site.Name, cfg.Site.BaseURL),
		ChunkSize:   cfg.Sitemap.ChunkSize,
		CityPreview: cfg.Sitemap.CityPreview,
		Concurrency: cfg.Output.Concurrency,
	}, store, snaps, rec)

	_, runErr := svc.Run(ctx)

	// Failed runs still export their metrics; last_success stays unset.
	if cfg.Metrics.Textfile != "" {
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			slog.Warn("failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}
	return runErr
}

func runServe(ctx context.Context, cfg *config.Config) error {
	var snaps snapshot.Store
	if snapshot.Driver(cfg.Snapshot.Driver) != snapshot.DriverNone {
		s, err := snapshot.Open(ctx, snapshot.Driver(cfg.Snapshot.Driver), cfg.Snapshot.DSN)
		if err != nil {
			return fmt.Errorf("%w: %w", build.ErrSnapshot, err)
		}
		defer s.Close()
		snaps = s
	}

	server := web.NewServer(web.Options{
		Addr:           cfg.Server.Addr(),
		Root:           cfg.Output.Dir,
		ReadTimeout:    cfg.Server.ReadTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TrustedProxies: cfg.Server.Proxies(),
		Snapshots:      snaps,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
