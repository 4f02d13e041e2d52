package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/coocood/freecache"
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

	"github.com/fitflow/fitflow/internal/coach"
	"github.com/fitflow/fitflow/internal/config"
	"github.com/fitflow/fitflow/internal/db"
	"github.com/fitflow/fitflow/internal/history"
	"github.com/fitflow/fitflow/internal/localstore"
	"github.com/fitflow/fitflow/internal/middleware"
	"github.com/fitflow/fitflow/internal/plan"
	"github.com/fitflow/fitflow/internal/sessions"
	"github.com/fitflow/fitflow/internal/settings"
	"github.com/fitflow/fitflow/internal/telemetry/metrics"
	"github.com/fitflow/fitflow/internal/telemetry/tracing"
	"github.com/fitflow/fitflow/pkg"
)

const (
	defaultCoachModel   = "gemini-3-flash-preview"
	coachCacheSizeBytes = 10 * 1024 * 1024
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	appSecret         string // shared secret of the mobile/web clients
	versionInfo       string
	userID            string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	fallback    *localstore.Store

	planStore       *plan.Store
	planEditor      *plan.Editor
	persisterCancel context.CancelFunc
	sessionsService *sessions.Service
	coachApi        *coach.Api

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	AppSecret               string
	CoachAPIKey             string
	RedisPassword           string
	VersionInfo             string
	UserID                  string
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

	// a failing ping is not fatal, the local fallback store covers reads
	// until postgres comes back
	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitflow", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

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
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitflow-backend")
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Minute,
	}

	fallback := localstore.NewStore(rdb)
	planRepo := plan.NewRepo(dbPool)

	planStore := plan.NewStore(plan.Load(ctx, planRepo, fallback, params.UserID))

	persisterCtx, persisterCancel := context.WithCancel(context.Background())
	go plan.NewPersister(planRepo, fallback, params.UserID).
		Run(persisterCtx, planStore.Updates())

	sessionsService := sessions.NewService(
		sessions.NewRepo(dbPool),
		fallback,
		planStore,
		params.UserID,
	)

	coachModel := params.Config.CoachModel
	if coachModel == "" {
		coachModel = defaultCoachModel
	}

	return &Server{
		appSecret:   params.AppSecret,
		versionInfo: params.VersionInfo,
		userID:      params.UserID,

		config:      params.Config,
		dbPool:      dbPool,
		redisClient: rdb,
		fallback:    fallback,

		planStore:       planStore,
		planEditor:      plan.NewEditor(planStore),
		persisterCancel: persisterCancel,
		sessionsService: sessionsService,
		coachApi: coach.NewApi(
			params.Config.CoachBaseURL,
			params.CoachAPIKey,
			coachModel,
			tracedHttpClient,
			freecache.NewCache(coachCacheSizeBytes),
		),

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitflow-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteResponse(w, "", "I'm FitFlow, fit and flowing.")
	}).Methods("GET").Name("root")
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteResponse(w, "", s.versionInfo)
	}).Methods("GET").Name("version")

	planHandler := plan.NewHandler(
		s.planStore,
		s.planEditor,
		s.fallback,
		s.metricsManager,
		s.userID,
	)
	planHandler.SetupRoutes(r)

	sessionsHandler := sessions.NewHandler(s.sessionsService, s.metricsManager)
	sessionsHandler.SetupRoutes(r)

	historyHandler := history.NewHandler(
		history.NewAnalyzer(s.sessionsService),
	)
	historyHandler.SetupRoutes(r)

	settingsHandler := settings.NewHandler(
		s.fallback,
		s.planStore,
		s.sessionsService,
		s.userID,
	)
	settingsHandler.SetupRoutes(r)

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	coachHandler := coach.NewHandler(s.coachApi, s.metricsManager)
	coachHandler.SetupRoutes(r, reqRateLimiter, s.config.CoachRateLimitPerMinute)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.appSecret)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
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

	s.persisterCancel()
	log.Trace("plan persister stopped ...")

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
