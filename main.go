package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"tglive/internal/config"
	"tglive/internal/db"
	"tglive/internal/handlers"
	"tglive/internal/logging"
	"tglive/internal/middleware"
	"tglive/internal/observability"
	"tglive/internal/rabbitmq"
	"tglive/internal/repositories"
	"tglive/internal/session"
	"tglive/internal/td"
	"tglive/internal/td/loopback"
	"tglive/internal/telemetry"
	"tglive/internal/ws"
)

const serviceName = "tglive"

func main() {
	cfg, err := config.Load(os.Getenv("TGLIVE_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, serviceName, cfg.OTLPEndpoint)
		if err != nil {
			logger.Fatal("failed to set up tracing", zap.Error(err))
		}
		defer shutdown(context.Background())
	}

	var audit *telemetry.AuditEmitter
	if cfg.AMQPURL != "" {
		eventPub, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Fatal("failed to connect event publisher", zap.Error(err))
		}
		defer eventPub.Close()
		observability.SetPublisher(eventPub)

		auditPub, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			logger.Fatal("failed to connect audit publisher", zap.Error(err))
		}
		defer auditPub.Close()
		audit = telemetry.NewAuditEmitter(auditPub, "audit.tglive", serviceName, cfg.Environment, logger)
	}

	var lookupRepo repositories.LookupRepository
	if cfg.DatabaseDSN != "" {
		database, err := db.Connect(cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal("failed to connect to db", zap.Error(err))
		}
		defer database.Close()
		lookupRepo = repositories.NewLookupRepository(database)
	}

	dial, err := backendDialer(cfg, logger)
	if err != nil {
		logger.Fatal("failed to select backend", zap.Error(err))
	}

	sess, err := session.New(dial, session.Options{
		GatewayTimeout: cfg.GatewayTimeout,
		JoinBackoff:    cfg.JoinRetryBackoff,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("failed to start session", zap.Error(err))
	}
	defer sess.Close()

	if err := sess.Auth.WaitReady(ctx); err != nil {
		logger.Fatal("authorization did not reach ready", zap.Error(err))
	}

	channelHandler := handlers.NewChannelHandler(sess.Calls, lookupRepo, audit, logger)
	callHandler := handlers.NewCallHandler(sess.Calls, audit, logger)
	channelWS := ws.NewChannelWebSocketHandler(sess.Router, logger)
	callWS := ws.NewCallWebSocketHandler(sess.Router, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/channels/:username", channelHandler.GetChannel)
	router.GET("/channels/id/:id", channelHandler.GetChannelByID)
	router.GET("/lookups/recent", channelHandler.RecentLookups)

	router.GET("/calls/:id", callHandler.GetGroupCall)
	router.POST("/calls/:id/join", callHandler.JoinGroupCall)
	router.POST("/calls/:id/leave", callHandler.LeaveGroupCall)

	router.GET("/ws/channels/:id", channelWS.Handle)
	router.GET("/ws/calls/:id", callWS.Handle)

	handlers.RegisterDebugRoutes(router, sess.Router, cfg.DebugRoutes)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("listening", zap.String("port", cfg.HTTPPort), zap.String("backend", cfg.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

// backendDialer selects the protocol client. The loopback backend serves
// development and tests; real clients are provided by embedding builds.
func backendDialer(cfg config.Config, logger *zap.Logger) (td.Dialer, error) {
	switch cfg.Backend {
	case "loopback":
		backend := loopback.New()
		if cfg.Environment == "development" {
			backend.AddChannel(1001, "tglive_demo", "tglive demo", "loopback demo channel", 500, 42)
			backend.AddCall(&td.GroupCall{ID: 42, Title: "demo call", ParticipantCount: 3, IsActive: true})
			logger.Info("seeded loopback demo channel", zap.String("username", "tglive_demo"))
		}
		return backend.Dial, nil
	default:
		return nil, errors.New("unknown backend: " + cfg.Backend)
	}
}
