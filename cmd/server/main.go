package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	grpclib "google.golang.org/grpc"

	grpcadapter "github.com/simaogato/networth-backend/internal/adapter/grpc"
	"github.com/simaogato/networth-backend/internal/adapter/quote/yahoo"
	"github.com/simaogato/networth-backend/internal/adapter/repository/file"
	"github.com/simaogato/networth-backend/internal/adapter/repository/sqldb"
	"github.com/simaogato/networth-backend/internal/adapter/web"
	"github.com/simaogato/networth-backend/internal/config"
	"github.com/simaogato/networth-backend/internal/domain"
	"github.com/simaogato/networth-backend/internal/usecase/dashboard"
	"github.com/simaogato/networth-backend/pkg/logger"
)

const (
	shutdownTimeout = 15 * time.Second
	dbConnectTries  = 5
	sqliteFileName  = "networth.db"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, App: "networth"})
	logger.SetGlobalLogger(log)

	loc, err := cfg.TimeLocation()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid location")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 2. Stores
	settingsRepo, historyRepo, closeStores, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open stores")
	}
	defer closeStores()

	// 3. Services
	quotes := yahoo.NewClient(cfg.QuoteBaseURL, cfg.QuoteTimeout, log)
	dashboardService := dashboard.NewDashboardService(settingsRepo, historyRepo, quotes, log,
		dashboard.WithLocation(loc),
	)

	if err := dashboardService.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed default settings")
	}

	// 4. gRPC and HTTP servers
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterNetWorthServiceServer(grpcServer, grpcadapter.NewServer(dashboardService))

	webServer := web.New(web.Config{
		Addr:      cfg.HTTPAddr,
		Log:       log,
		Dashboard: dashboardService,
	})

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("Failed to listen")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.GRPCAddr).Msg("gRPC server listening")
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		if err := webServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return waitForShutdown(log, grpcServer, webServer)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Servers stopped")
}

// waitForShutdown stops both servers once a signal arrives or either server fails
func waitForShutdown(log zerolog.Logger, grpcServer *grpclib.Server, webServer *web.Server) error {
	log.Info().Msg("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := webServer.Shutdown(ctx)

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
		log.Info().Msg("gRPC server stopped")
	case <-ctx.Done():
		grpcServer.Stop()
		log.Warn().Msg("gRPC server forced to stop")
	}

	return err
}

// openStores builds the settings and history stores for the configured backend
func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (domain.SettingsRepository, domain.HistoryRepository, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		settingsRepo, err := file.NewSettingsRepository(cfg.DataDir)
		if err != nil {
			return nil, nil, nil, err
		}
		historyRepo, err := file.NewHistoryRepository(cfg.DataDir, log)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info().Str("dir", cfg.DataDir).Msg("Using file store")
		return settingsRepo, historyRepo, func() {}, nil

	case config.BackendSQLite, config.BackendPostgres:
		driver, dsn := sqldb.DriverPostgres, cfg.DatabaseURL
		if cfg.StoreBackend == config.BackendSQLite {
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return nil, nil, nil, fmt.Errorf("failed to create data directory: %w", err)
			}
			driver, dsn = sqldb.DriverSQLite, filepath.Join(cfg.DataDir, sqliteFileName)
		}

		db, err := connectWithRetry(ctx, driver, dsn, log)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		log.Info().Str("driver", driver).Msg("Using SQL store")
		closeDB := func() {
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close database")
			}
		}
		return sqldb.NewSettingsRepository(db), sqldb.NewSnapshotRepository(db), closeDB, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// connectWithRetry gives a freshly started database container time to come up
func connectWithRetry(ctx context.Context, driver, dsn string, log zerolog.Logger) (*sqldb.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= dbConnectTries; attempt++ {
		db, err := sqldb.NewDB(driver, dsn)
		if err == nil {
			return db, nil
		}
		lastErr = err
		if driver != sqldb.DriverPostgres {
			break
		}

		wait := time.Duration(attempt) * time.Second
		log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("Database not ready, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", dbConnectTries, lastErr)
}
