package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func setBase(t *testing.T) {
    t.Setenv("APP_ENV", "dev")
    t.Setenv("APP_PORT", "8080")
    t.Setenv("DB_USER", "app")
    t.Setenv("DB_HOST", "db")
    t.Setenv("DB_PORT", "3306")
    t.Setenv("DB_NAME", "seats")
    t.Setenv("SECRET_KEY", "s3cret")
    t.Setenv("SESSION_TTL_DAYS", "")
    t.Setenv("BCRYPT_COST", "")
    t.Setenv("DATABASE_URI", "")
    t.Setenv("APP_TIMEZONE", "UTC")
}

func TestLoadDefaults(t *testing.T) {
    setBase(t)

    cfg, err := Load()

    require.NoError(t, err)
    assert.Equal(t, 7, cfg.SessionTTLDays)
    assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
    assert.Equal(t, 12, cfg.BcryptCost)
    assert.Equal(t, time.UTC, cfg.Location)
    assert.True(t, cfg.IsDev())
}

func TestLoadReportsAllProblems(t *testing.T) {
    setBase(t)
    t.Setenv("SECRET_KEY", "")
    t.Setenv("BCRYPT_COST", "high")
    t.Setenv("APP_TIMEZONE", "Mars/Olympus")

    _, err := Load()

    require.Error(t, err)
    assert.Contains(t, err.Error(), "SECRET_KEY")
    assert.Contains(t, err.Error(), "BCRYPT_COST")
    assert.Contains(t, err.Error(), "APP_TIMEZONE")
}

func TestDatabaseURIReplacesParts(t *testing.T) {
    setBase(t)
    t.Setenv("DB_USER", "")
    t.Setenv("DATABASE_URI", "app:pw@tcp(db:3306)/seats?parseTime=true")

    cfg, err := Load()

    require.NoError(t, err)
    assert.Equal(t, "app:pw@tcp(db:3306)/seats?parseTime=true", cfg.DatabaseURI)
}

func TestSubConfigs(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
    t.Setenv("RATE_LIMIT_TTL", "1s")
    rl := LoadRateLimitConfig()
    assert.Equal(t, 1, rl.Capacity)
    assert.Equal(t, 5*time.Minute, rl.TTL)

    t.Setenv("CACHE_METHODS", "get, head")
    assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, LoadCacheConfig().Methods)

    t.Setenv("REDIS_HOST", "cache")
    t.Setenv("REDIS_PORT", "6380")
    assert.Equal(t, "cache:6380", LoadRedisConfig().Addr)

    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://broker/")
    ev := LoadEventsConfig()
    assert.Equal(t, "amqp://broker/", ev.URL)
    assert.Equal(t, "reservation.events", ev.Queue)
}
