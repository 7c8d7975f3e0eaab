// Package server wires the publication pipeline together: database and
// migrations, object-storage signing, the index sync worker, the services and
// the HTTP API, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/vidpress/internal/logging"
	"github.com/dmitrijs2005/vidpress/internal/server/config"
	"github.com/dmitrijs2005/vidpress/internal/server/httpapi"
	"github.com/dmitrijs2005/vidpress/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vidpress/internal/server/search"
	"github.com/dmitrijs2005/vidpress/internal/server/services"
	"github.com/dmitrijs2005/vidpress/internal/server/storage"
	"golang.org/x/sync/errgroup"
)

const indexRequestTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	uploads *services.UploadService
	syncer  *search.Syncer
	httpSrv *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()

	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	signer := storage.NewS3Signer(storage.S3Config{
		Region:       cfg.S3Region,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		BaseEndpoint: cfg.S3BaseEndpoint,
		URLTTL:       cfg.UploadSessionTTL,
	})

	indexer := search.NewHTTPIndexer(cfg.IndexBaseEndpoint, indexRequestTimeout)
	syncer := search.NewSyncer(indexer, cfg.IndexName, cfg.IndexQueueSize,
		uint64(cfg.IndexMaxRetries), cfg.IndexRetryBackoff, logger)

	uploads := services.NewUploadService(db, repos, signer, syncer, cfg.S3Bucket, cfg.UploadSessionTTL, logger)
	documents := services.NewDocumentService(db, repos, syncer, logger)
	access := services.NewAccessService(db, repos, logger)
	secrets := services.NewSecretService(cfg.StagingSecretsFile)

	httpSrv := httpapi.NewServer(cfg.EndpointAddrHTTP, logger, uploads, documents, access, secrets, cfg.SecretKey)

	return &App{
		config:  cfg,
		logger:  logger,
		uploads: uploads,
		syncer:  syncer,
		httpSrv: httpSrv,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runSweeper expires overdue pending upload sessions on a fixed interval.
func (app *App) runSweeper(ctx context.Context) error {
	ticker := time.NewTicker(app.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := app.uploads.SweepExpired(ctx); err != nil {
				app.logger.Error(ctx, "session sweep failed", "error", err)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.httpSrv.Run(ctx)
	})

	g.Go(func() error {
		return app.runSweeper(ctx)
	})

	err := g.Wait()

	// drain queued index work before exiting
	app.syncer.Close()

	return err
}
