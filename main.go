package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cjodon01/autoauthadmin/domain/repository"
	"github.com/cjodon01/autoauthadmin/infrastructure/cache"
	"github.com/cjodon01/autoauthadmin/infrastructure/clients/social"
	"github.com/cjodon01/autoauthadmin/infrastructure/configuration"
	"github.com/cjodon01/autoauthadmin/infrastructure/logger"
	"github.com/cjodon01/autoauthadmin/infrastructure/metrics"
	"github.com/cjodon01/autoauthadmin/infrastructure/persistence"
	"github.com/cjodon01/autoauthadmin/infrastructure/pubsub"
	"github.com/cjodon01/autoauthadmin/infrastructure/servicebus"
	httpHandler "github.com/cjodon01/autoauthadmin/interfaces/http"
	"github.com/cjodon01/autoauthadmin/server"
	"github.com/cjodon01/autoauthadmin/usecase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

// Repositories is the vendor specific storage set.
type Repositories struct {
	Connections repository.IConnection
	Pages       repository.IPage
	CallRecords repository.ICallRecord
	ContentLog  repository.IContentLog
	Report      repository.ICallRecordReport
}

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	app := configuration.C.App

	db, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	defer db.Close()

	repos, err := InitiateRepositories(db, configuration.C.Database.Vendor)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Repository initialization failed")
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewMetrics(registry)

	redisClient, backlog := InitiateBacklog(ctx)
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, closePublisher := InitiatePublisher(ctx)
	defer closePublisher()

	audit := usecase.NewAuditUsecase(repos.CallRecords, backlog, publisher, recorder, usecase.AuditOptions{
		Retries:      configuration.C.Audit.Retries,
		RetryDelay:   time.Duration(configuration.C.Audit.RetryDelayMillis) * time.Millisecond,
		WriteTimeout: time.Duration(configuration.C.Audit.WriteTimeoutSeconds) * time.Second,
	})

	socialCfg := configuration.C.Social
	httpClient := social.NewHTTPClient(time.Duration(socialCfg.TimeoutSeconds) * time.Second)
	graphBaseURL := socialCfg.GraphBaseURL
	if graphBaseURL == "" {
		graphBaseURL = social.DefaultGraphBaseURL
	}
	linkedInBaseURL := socialCfg.LinkedInBaseURL
	if linkedInBaseURL == "" {
		linkedInBaseURL = social.DefaultLinkedInBaseURL
	}
	graph := social.NewGraphClient(httpClient, graphBaseURL)
	adapter := social.NewRouter(
		graph,
		social.NewLinkedInClient(httpClient, linkedInBaseURL),
		social.NewTwitterStub(),
		social.NewRedditStub(),
	)
	logger.GetLogger().WithFields(map[string]interface{}{
		"graph":    graphBaseURL,
		"linkedin": linkedInBaseURL,
		"timeout":  socialCfg.TimeoutSeconds,
	}).Info("Platform adapters initialized")

	credentials := usecase.NewCredentialUsecase(repos.Connections, repos.Pages)
	dispatchUsecase := usecase.NewDispatchUsecase(credentials, adapter, audit, recorder)
	singlePostUsecase := usecase.NewSinglePostUsecase(repos.Pages, graph, audit, repos.ContentLog)
	callRecordUsecase := usecase.NewCallRecordUsecase(repos.Report)

	socialHandler := httpHandler.NewSocialHandler(dispatchUsecase, singlePostUsecase, callRecordUsecase)
	healthHandler := httpHandler.NewHealthHandler(db)

	router := server.InitiateRouter(server.RouterConfig{
		SecretKey:      app.SecretKey,
		AllowedOrigins: app.AllowedOrigins,
	}, socialHandler, healthHandler, metrics.Handler(registry))

	if backlog != nil {
		interval := time.Duration(configuration.C.Audit.ReplayIntervalSeconds) * time.Second
		batch := configuration.C.Audit.ReplayBatch
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					replayCtx, cancelReplay := context.WithTimeout(ctx, interval)
					if _, err := audit.ReplayBacklog(replayCtx, batch); err != nil {
						logger.GetLogger().WithField("error", err).Warn("Call record replay stopped early")
					}
					cancelReplay()
				}
			}
		})
	}

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Warn("HTTP server shutdown incomplete")
	}
	audit.Wait()

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
	logger.GetLogger().Info("Application stopped")
}

// InitiateDatabase opens the store selected by DB_VENDOR and makes sure the
// audit tables exist.
func InitiateDatabase() (*sql.DB, error) {
	switch configuration.C.Database.Vendor {
	case "mssql":
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to MSSQL")
			return nil, err
		}
		if err := persistence.EnsureAuditSchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring audit schema")
		}
		return db, nil
	case "postgres":
		db, err := persistence.NewPostgreSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
			return nil, err
		}
		if err := persistence.EnsureAuditSchema(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring audit schema")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database vendor %q", configuration.C.Database.Vendor)
	}
}

func InitiateRepositories(db *sql.DB, vendor string) (*Repositories, error) {
	if vendor == "mssql" {
		return &Repositories{
			Connections: persistence.NewConnectionRepositoryMSSQL(db),
			Pages:       persistence.NewPageRepositoryMSSQL(db),
			CallRecords: persistence.NewCallRecordRepositoryMSSQL(db),
			ContentLog:  persistence.NewContentLogRepositoryMSSQL(db),
			Report:      persistence.NewCallRecordReportRepositoryMSSQL(db),
		}, nil
	}
	reportDB, err := persistence.NewReportDB(db)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		Connections: persistence.NewConnectionRepository(db),
		Pages:       persistence.NewPageRepository(db),
		CallRecords: persistence.NewCallRecordRepository(db),
		ContentLog:  persistence.NewContentLogRepository(db),
		Report:      persistence.NewCallRecordReportRepository(reportDB),
	}, nil
}

// InitiateBacklog connects the Redis list used to park call records. Both
// results are nil when Redis is not reachable.
func InitiateBacklog(ctx context.Context) (*redis.Client, repository.IAuditBacklog) {
	cfg := configuration.C.RedisClient
	if cfg.Host == "" {
		logger.GetLogger().Info("Redis not configured - call records will not be parked")
		return nil, nil
	}
	client, err := cache.NewCache(ctx, fmt.Sprintf("%s:%s", cfg.Host, cfg.Port), cfg.Username, cfg.Password)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - call records will not be parked")
		return nil, nil
	}
	key := cfg.BacklogKey
	if key == "" {
		key = cache.DefaultAuditBacklogKey
	}
	logger.GetLogger().WithField("key", key).Info("Redis client initialized successfully.")
	return client, cache.NewAuditBacklog(client, key)
}

// InitiatePublisher returns the call-recorded event sink, preferring Pub/Sub
// over Service Bus. The returned func releases it.
func InitiatePublisher(ctx context.Context) (repository.IEventPublisher, func()) {
	noop := func() {}

	if ps := configuration.C.Pubsub; ps.ProjectID != "" && ps.Topic != "" {
		client, err := pubsub.NewPubSub(ctx, ps.ProjectID, ps.CredentialsFile)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while instantiate PubSub")
			return nil, noop
		}
		publisher, err := pubsub.NewCallRecordPublisher(ctx, client, ps.Topic)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while preparing PubSub topic")
			_ = client.Close()
			return nil, noop
		}
		logger.GetLogger().WithField("topic", ps.Topic).Info("Publishing call records to PubSub")
		return publisher, func() {
			if s, ok := publisher.(interface{ Stop() }); ok {
				s.Stop()
			}
			_ = client.Close()
		}
	}

	if sb := configuration.C.ServiceBus; sb.Namespace != "" && sb.Queue != "" {
		client, err := servicebus.NewServiceBus(ctx, sb.Namespace)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without call record events")
			return nil, noop
		}
		sender, err := servicebus.NewCallRecordSender(client, sb.Queue)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus sender not available")
			_ = client.Close(ctx)
			return nil, noop
		}
		logger.GetLogger().WithField("queue", sb.Queue).Info("Publishing call records to Service Bus")
		return sender, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = sender.Close(closeCtx)
			_ = client.Close(closeCtx)
		}
	}

	logger.GetLogger().Info("No event sink configured - call recorded events disabled")
	return nil, noop
}
