package internal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/repcoin-app/backend/internal/challenge"
	"github.com/repcoin-app/backend/internal/config"
	"github.com/repcoin-app/backend/internal/db"
	"github.com/repcoin-app/backend/internal/geoip"
	"github.com/repcoin-app/backend/internal/middleware"
	"github.com/repcoin-app/backend/internal/misc"
	"github.com/repcoin-app/backend/internal/pose"
	"github.com/repcoin-app/backend/internal/reps"
	"github.com/repcoin-app/backend/internal/sessions"
	"github.com/repcoin-app/backend/internal/status"
	"github.com/repcoin-app/backend/internal/store"
	"github.com/repcoin-app/backend/internal/telemetry/metrics"
	metricsmiddleware "github.com/repcoin-app/backend/internal/telemetry/metrics/middleware"
	"github.com/repcoin-app/backend/internal/telemetry/tracing"
	"github.com/repcoin-app/backend/internal/users"
	"github.com/repcoin-app/backend/internal/wallet"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config        *config.Config
	dbPool        *pgxpool.Pool
	geoIp         *geoip.Api
	poseAnalyzer  *pose.GeminiAnalyzer
	quotesManager *misc.QuotesManager

	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	GeminiAPIKey            string
	IpInfoAPIKey            string
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "repcoin_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("repcoin", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // set to 1 when all is set and ran

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "repcoin-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	// the single tenant every endpoint defaults to
	if _, err := users.NewRepo(dbPool).EnsureUser(ctx, users.DefaultUsername); err != nil {
		return nil, fmt.Errorf("ensure %s user: %w", users.DefaultUsername, err)
	}

	s := &Server{
		config: params.Config,
		dbPool: dbPool,
		geoIp: geoip.NewApi(
			geoip.DefaultIpInfoBaseURL,
			params.IpInfoAPIKey,
			tracedHttpClient,
			rdb,
		),
		poseAnalyzer: pose.NewGeminiAnalyzer(params.GeminiAPIKey, params.Config.PoseModel),
		versionInfo:  params.VersionInfo,

		redisClient: rdb,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	quotesCsvFile, err := os.Open(params.Config.QuotesCsvPath)
	if err != nil {
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer func() {
		if err := quotesCsvFile.Close(); err != nil {
			log.Warnf("close quotes csv file: %s", err)
		}
	}()

	s.quotesManager, err = misc.NewQuoteManager(csv.NewReader(quotesCsvFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create quote manager: %s", err)
	}

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("repcoin-router"))

	apiRouter := r.PathPrefix("/api").Subrouter()

	usersRepo := users.NewRepo(s.dbPool)

	repsRepo := reps.NewRepo(s.dbPool)
	repsHandler := reps.NewHandler(repsRepo, usersRepo, s.metricsManager)
	apiRouter.HandleFunc("/reps", repsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-rep")
	apiRouter.HandleFunc("/reps", repsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-reps")
	apiRouter.HandleFunc("/reps/{id}", repsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-rep")

	sessionsRepo := sessions.NewRepo(s.dbPool)
	sessionsHandler := sessions.NewHandler(sessionsRepo, s.metricsManager)
	apiRouter.HandleFunc("/sessions", sessionsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-session")
	apiRouter.HandleFunc("/sessions", sessionsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")

	statusHandler := status.NewHandler(status.NewRepo(s.dbPool), s.geoIp)
	apiRouter.HandleFunc("/status", statusHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-status-check")
	apiRouter.HandleFunc("/status", statusHandler.HandleList).Methods("GET", "OPTIONS").Name("list-status-checks")

	walletHandler := wallet.NewHandler(repsRepo, sessionsRepo)
	apiRouter.HandleFunc("/wallet", walletHandler.HandleGet).Methods("GET", "OPTIONS").Name("wallet")

	challengeHandler := challenge.NewHandler(
		challenge.NewService(challenge.NewRepo(s.dbPool)),
		s.metricsManager,
	)
	challengeHandler.SetupRoutes(apiRouter)

	storeHandler := store.NewHandler(
		store.NewService(store.NewRepo(s.dbPool), usersRepo),
		s.metricsManager,
	)
	apiRouter.HandleFunc("/store", storeHandler.HandleGetStore).Methods("GET", "OPTIONS").Name("get-store")
	apiRouter.HandleFunc("/store/purchase", storeHandler.HandlePurchase).Methods("POST", "OPTIONS").Name("store-purchase")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	poseHandler := pose.NewHandler(
		s.poseAnalyzer,
		time.Duration(s.config.PoseAnalysisTimeoutSeconds)*time.Second,
		s.metricsManager,
	)
	poseHandler.SetupRoutes(apiRouter, reqRateLimiter, s.config.AnalyzePoseRateLimitAllowedPerMin, s.metricsManager)

	miscHandler := misc.NewHandler(s.geoIp, s.quotesManager, s.versionInfo)
	miscHandler.SetupRoutes(apiRouter)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metricsmiddleware.
		New(s.promRegistry, nil).
		WrapHandler("/metrics", promhttp.HandlerFor(
			s.promRegistry,
			promhttp.HandlerOpts{}),
		))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > rep coin backend listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
