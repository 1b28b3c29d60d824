package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/aksamedia/aksamedia-admin/internal/admin"
	api "github.com/aksamedia/aksamedia-admin/internal/api/http"
	auth "github.com/aksamedia/aksamedia-admin/internal/auth/middleware"
	"github.com/aksamedia/aksamedia-admin/internal/config"
	"github.com/aksamedia/aksamedia-admin/internal/db"
	"github.com/aksamedia/aksamedia-admin/internal/division"
	"github.com/aksamedia/aksamedia-admin/internal/employee"
	"github.com/aksamedia/aksamedia-admin/internal/score"
	"github.com/aksamedia/aksamedia-admin/internal/storage"
	"github.com/aksamedia/aksamedia-admin/pkg/logger"
	"github.com/aksamedia/aksamedia-admin/pkg/metrics"
)

const (
	shutdownTimeout = 15 * time.Second
	purgeInterval   = time.Hour
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		_ = logger.Init("info", true)
		logger.Get().Fatal(ctx, "load config", logger.Error(err))
	}
	if err := logger.Init(cfg.LogLevel, cfg.Mode == config.ModeOnline); err != nil {
		_ = logger.Init("info", true)
		logger.Get().Fatal(ctx, "init logger", logger.Error(err))
	}
	log := logger.Named("gateway")

	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatal(ctx, "db open failed", logger.Error(err))
	}
	defer dbh.Close()

	bs, err := storage.NewFSStore(cfg.BlobBasePath, cfg.BaseURL()+"/storage")
	if err != nil {
		log.Fatal(ctx, "blob store", logger.Error(err))
	}

	// --- Services ---
	revocations := auth.NewSQLRevocations(dbh)
	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.TokenTTL, revocations)
	divisions := division.NewSQLStore(dbh)
	employees := employee.NewService(employee.NewSQLStore(dbh), divisions, bs, logger.Named("employee"))
	scores := score.NewService(score.NewSQLStore(dbh), score.WithLogger(logger.Named("score")))

	handler := api.NewRouter(api.Deps{
		Config:    cfg,
		DB:        dbh,
		Auth:      authSvc,
		Limiter:   auth.NewLoginLimiter(cfg.LoginRate, cfg.LoginBurst),
		Admins:    admin.NewSQLStore(dbh),
		Divisions: divisions,
		Employees: employees,
		Scores:    scores,
		Blobs:     bs,
		Log:       logger.Get(),
	})

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(gctx, log, "api", apiSrv) })
	g.Go(func() error { return serve(gctx, log, "metrics", metricsSrv) })
	g.Go(func() error {
		t := time.NewTicker(purgeInterval)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-t.C:
				n, err := revocations.Purge(gctx, now)
				if err != nil {
					log.Warn(gctx, "purge revoked tokens", logger.Error(err))
					continue
				}
				log.Debug(gctx, "purged revoked tokens", logger.Int64("rows", n))
			}
		}
	})

	log.Info(ctx, "listening",
		logger.String("addr", cfg.HTTPAddr),
		logger.String("metrics_addr", cfg.MetricsAddr),
		logger.String("mode", string(cfg.Mode)),
		logger.String("db", cfg.DBDriver))
	if err := g.Wait(); err != nil {
		log.Error(ctx, "gateway stopped", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "gateway stopped")
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, log logger.Logger, name string, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down", logger.String("server", name))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
