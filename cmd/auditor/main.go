// Command auditor drains the reservation event queue into an append-only
// audit log.
package main

import (
    "context"
    "os"
    "os/signal"
    "syscall"

    "github.com/joho/godotenv"
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"

    "github.com/iliyamo/office-seat-reservation/internal/config"
    "github.com/iliyamo/office-seat-reservation/internal/queue"
)

func main() {
    _ = godotenv.Load()

    logger := newLogger()
    defer logger.Sync()

    cfg := config.LoadEventsConfig()
    if cfg.URL == "" {
        logger.Fatal("RABBITMQ_URL is not set")
    }
    if err := os.MkdirAll(cfg.AuditDir, 0o755); err != nil {
        logger.Fatal("audit dir", zap.String("dir", cfg.AuditDir), zap.Error(err))
    }

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    c := &queue.Consumer{URL: cfg.URL, Queue: cfg.Queue, Dir: cfg.AuditDir, Log: logger}
    logger.Info("auditor started", zap.String("queue", cfg.Queue), zap.String("dir", cfg.AuditDir))
    if err := c.Run(ctx); err != nil && ctx.Err() == nil {
        logger.Fatal("consumer", zap.Error(err))
    }
    logger.Info("auditor stopped")
}

func newLogger() *zap.Logger {
    zc := zap.NewProductionConfig()
    zc.EncoderConfig.TimeKey = "timestamp"
    zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
    logger, err := zc.Build()
    if err != nil {
        return zap.NewNop()
    }
    return logger
}
