package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"photo-manager-api/config"
	"photo-manager-api/internal/application/ports"
	"photo-manager-api/internal/application/services"
	"photo-manager-api/internal/infrastructure/cache"
	"photo-manager-api/internal/infrastructure/cloudinary"
	"photo-manager-api/internal/infrastructure/db/postgres"
	"photo-manager-api/internal/infrastructure/db/postgres/photo"
	"photo-manager-api/internal/infrastructure/db/postgres/user"
	"photo-manager-api/internal/infrastructure/jwt"
	"photo-manager-api/internal/infrastructure/metrics"
	"photo-manager-api/internal/infrastructure/mq"
	"photo-manager-api/internal/interface/api/rest"
	"photo-manager-api/internal/interface/api/rest/middleware"
	"photo-manager-api/pkg/rmqconsumer"
)

type Options struct {
	EnvFile string
	// Migrate applies pending schema migrations before serving.
	Migrate bool
}

type App struct {
	logger        *zap.Logger
	cfg           config.Config
	db            *pgxpool.Pool
	redis         *redis.Client
	images        ports.ImageStore
	cache         ports.PhotoCache
	httpSrv       *http.Server
	router        *gin.Engine
	mCounter      *prometheus.CounterVec
	mq            ports.RabbitMQ
	mqConsumer    ports.RMQConsumer
	uploadLimiter *middleware.IPRateLimiter
}

// bootstrap builds the logger and loads the configuration; a missing env
// file is not an error, the process environment is used as is.
func bootstrap(envFile string) (*zap.Logger, config.Config) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	if envFile != "" {
		if err = godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Fatal("error loading env file", zap.String("file", envFile), zap.Error(err))
			}
			logger.Info("env file not found, using process environment", zap.String("file", envFile))
		}
	}

	return logger, config.Load()
}

func connectDB(ctx context.Context, logger *zap.Logger, cfg config.Config) *pgxpool.Pool {
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	return dbPool
}

// Migrate applies pending migrations and exits.
func Migrate(ctx context.Context, envFile string) error {
	logger, cfg := bootstrap(envFile)
	defer logger.Sync()

	dbPool := connectDB(ctx, logger, cfg)
	defer dbPool.Close()

	return postgres.Migrate(ctx, logger, dbPool)
}

func NewApp(ctx context.Context, opts Options) (*App, error) {
	// logger + config
	logger, cfg := bootstrap(opts.EnvFile)

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// db
	dbPool := connectDB(ctx, logger, cfg)
	if opts.Migrate {
		if err := postgres.Migrate(ctx, logger, dbPool); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	// image store
	if err := cfg.CloudinaryReady(); err != nil {
		logger.Fatal("Cloudinary config error", zap.Error(err))
	}
	images := cloudinary.New(logger, cfg.Cloudinary)

	// cache
	var photoCache ports.PhotoCache = cache.Noop{}
	redisClient := cache.NewRedisClient(ctx, logger, cfg.Redis)
	if redisClient != nil {
		photoCache = cache.NewPhotoCache(redisClient, logger, cfg.Redis)
	}

	// rabbitMQ
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	// rmqConsumer shares the publisher's connection on its own channel
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, rbMQ.GetConn(), images, mCounter)
	if err = rmqConsumer.Init(); err != nil {
		logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}

	return &App{
		logger:        logger,
		cfg:           cfg,
		db:            dbPool,
		redis:         redisClient,
		images:        images,
		cache:         photoCache,
		httpSrv:       httpSrv,
		router:        r,
		mCounter:      mCounter,
		mq:            rbMQ,
		mqConsumer:    rmqConsumer,
		uploadLimiter: middleware.NewIPRateLimiter(ctx, rate.Limit(cfg.Limits.UploadRPS), cfg.Limits.UploadBurst),
	}, nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// errgroup: one context for the server and both mq workers,
	// the first error cancels the rest
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.mq.PublisherWorker(ctx)
		return nil
	})

	g.Go(func() error {
		a.mqConsumer.DeliveryWorker(ctx)
		return nil
	})

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := user.NewRepository(a.db)
	photoRepo := photo.NewRepository(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	authService := services.NewAuthService(jwtService)
	userService := services.NewUserService(userRepo)
	photoService := services.NewPhotoService(a.images, photoRepo, userRepo, a.cache, a.mq, a.mCounter, a.logger)

	// controllers
	rest.NewAuthController(a.router, a.logger, userService, authService)
	rest.NewPhotoController(a.router, photoService, a.logger, jwtService, a.uploadLimiter)

	// ops
	a.router.GET(rest.RouteHealth, a.healthHandler)
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := a.db.Ping(ctx); err != nil {
		a.logger.Warn("health check: db ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *App) Logger() *zap.Logger { return a.logger }
