package main // Entry point package

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"

    "github.com/iliyamo/office-seat-reservation/internal/config"
    "github.com/iliyamo/office-seat-reservation/internal/database"
    "github.com/iliyamo/office-seat-reservation/internal/handler"
    "github.com/iliyamo/office-seat-reservation/internal/middleware"
    "github.com/iliyamo/office-seat-reservation/internal/queue"
    "github.com/iliyamo/office-seat-reservation/internal/repository"
    "github.com/iliyamo/office-seat-reservation/internal/router"
    "github.com/iliyamo/office-seat-reservation/internal/service"
)

func main() {
    _ = godotenv.Load() // .env is optional

    cfg, err := config.Load()
    logger := newLogger(err == nil && cfg.IsDev())
    defer logger.Sync()
    if err != nil {
        logger.Fatal("load config", zap.Error(err))
    }

    dsn := database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if cfg.DatabaseURI != "" {
        if dsn, err = database.NormalizeDSN(cfg.DatabaseURI); err != nil {
            logger.Fatal("database uri", zap.Error(err))
        }
    }
    db, err := database.Open(dsn)
    if err != nil {
        logger.Fatal("database", zap.Error(err))
    }
    defer db.Close()
    migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
    err = database.Migrate(migrateCtx, db)
    cancelMigrate()
    if err != nil {
        logger.Fatal("migrate", zap.Error(err))
    }

    rdb := config.NewRedisClient(config.LoadRedisConfig())
    if rdb == nil {
        logger.Warn("redis unavailable; rate limiting and report cache disabled")
    } else {
        defer rdb.Close()
    }

    var events service.EventPublisher = queue.Nop{}
    if ec := config.LoadEventsConfig(); ec.URL != "" {
        pub := queue.NewPublisher(ec.URL, ec.Queue, logger)
        defer pub.Close()
        events = pub
        logger.Info("publishing reservation events", zap.String("queue", ec.Queue))
    }

    clock := service.Clock{Now: time.Now, Location: cfg.Location}
    users := repository.NewUserRepo(db)
    seats := repository.NewSeatRepo(db)
    reservations := repository.NewReservationRepo(db)

    authSvc := service.NewAuthService(users, cfg.BcryptCost, logger)
    sessions := service.NewSessionService(repository.NewSessionRepo(db), cfg.SecretKey, cfg.SessionTTL(), clock, logger)
    resSvc := service.NewReservationService(reservations, users, seats, logger,
        service.WithClock(clock), service.WithEvents(events))
    inventory := service.NewInventoryService(seats, logger)
    reports := service.NewReportService(repository.NewReportRepo(db), reservations, clock)

    secure := !cfg.IsDev()
    e := echo.New()
    e.HideBanner = true
    e.Validator = handler.Validator{}
    e.Use(echomw.Recover())
    e.Use(requestLogger(logger))

    router.Register(e, router.Deps{
        Sessions:      sessions,
        Auth:          handler.NewAuthHandler(authSvc, sessions, logger, secure),
        Booking:       handler.NewBookingHandler(resSvc, inventory, logger),
        Admin:         handler.NewAdminHandler(resSvc, inventory, reports, authSvc, logger),
        Limiter:       middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger),
        Cache:         middleware.NewRedisCache(config.LoadCacheConfig(), rdb, router.CacheSkipper),
        SecureCookies: secure,
        Log:           logger,
    })

    go func() {
        addr := ":" + cfg.Port
        logger.Info("server listening", zap.String("addr", addr), zap.String("env", cfg.Env))
        if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Fatal("server", zap.Error(err))
        }
    }()

    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer cancel()
    if err := e.Shutdown(shutdownCtx); err != nil {
        logger.Error("server shutdown", zap.Error(err))
    }
    logger.Info("server stopped")
}

func newLogger(dev bool) *zap.Logger {
    zc := zap.NewProductionConfig()
    if dev {
        zc = zap.NewDevelopmentConfig()
    }
    zc.EncoderConfig.TimeKey = "timestamp"
    zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
    logger, err := zc.Build()
    if err != nil {
        return zap.NewNop()
    }
    return logger
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
    return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
        LogMethod:   true,
        LogURI:      true,
        LogStatus:   true,
        LogLatency:  true,
        LogRemoteIP: true,
        LogError:    true,
        HandleError: true,
        LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
            fields := []zap.Field{
                zap.String("method", v.Method),
                zap.String("uri", v.URI),
                zap.Int("status", v.Status),
                zap.Duration("latency", v.Latency),
                zap.String("remote_ip", v.RemoteIP),
            }
            if v.Error != nil {
                logger.Error("request", append(fields, zap.Error(v.Error))...)
                return nil
            }
            logger.Info("request", fields...)
            return nil
        },
    })
}
