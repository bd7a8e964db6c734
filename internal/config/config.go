package config // package config loads application configuration from environment variables

import (
    "fmt"
    "os"
    "strconv"
    "strings"
    "time"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env            string         // application environment (e.g. "dev", "prod")
    Port           string         // HTTP port to listen on
    DBUser         string         // database username
    DBPass         string         // database password (optional)
    DBHost         string         // database host address
    DBPort         string         // database port number
    DBName         string         // database name
    DatabaseURI    string         // full DSN overriding the DB_* parts (optional)
    SecretKey      string         // signs session tokens and the CSRF cookie
    SessionTTLDays int            // session lifetime in days
    BcryptCost     int            // bcrypt cost for password hashing
    Location       *time.Location // timezone that defines "today"
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
    switch strings.ToLower(c.Env) {
    case "dev", "development", "local", "test":
        return true
    }
    return false
}

// SessionTTL is the session lifetime as a duration.
func (c Config) SessionTTL() time.Duration {
    return time.Duration(c.SessionTTLDays) * 24 * time.Hour
}

// Load reads configuration values from environment variables.  Every
// missing or malformed required variable is reported in one error.
func Load() (Config, error) {
    var l loader
    cfg := Config{
        Env:            l.must("APP_ENV"),
        Port:           l.must("APP_PORT"),
        DBPass:         os.Getenv("DB_PASS"),
        DatabaseURI:    os.Getenv("DATABASE_URI"),
        SecretKey:      l.must("SECRET_KEY"),
        SessionTTLDays: l.mustInt("SESSION_TTL_DAYS", 7),
        BcryptCost:     l.mustInt("BCRYPT_COST", 12),
    }
    // The DB_* parts are only required when no full DSN is given.
    if cfg.DatabaseURI == "" {
        cfg.DBUser = l.must("DB_USER")
        cfg.DBHost = l.must("DB_HOST")
        cfg.DBPort = l.must("DB_PORT")
        cfg.DBName = l.must("DB_NAME")
    }
    if cfg.SessionTTLDays < 1 {
        l.fail("SESSION_TTL_DAYS must be at least 1")
    }
    loc, err := time.LoadLocation(envStr("APP_TIMEZONE", "Local"))
    if err != nil {
        l.fail(fmt.Sprintf("invalid APP_TIMEZONE: %v", err))
    }
    cfg.Location = loc
    if len(l.problems) > 0 {
        return Config{}, fmt.Errorf("config: %s", strings.Join(l.problems, "; "))
    }
    return cfg, nil
}

type loader struct{ problems []string }

func (l *loader) fail(msg string) { l.problems = append(l.problems, msg) }

// must retrieves the value of a required environment variable.
func (l *loader) must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        l.fail("missing required env var: " + key)
    }
    return v
}

// mustInt reads an integer variable, falling back to def when unset.  A
// value that does not parse is an error.
func (l *loader) mustInt(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        l.fail(fmt.Sprintf("invalid int for %s: %q", key, s))
    }
    return n
}
