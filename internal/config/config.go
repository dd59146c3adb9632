package config // package config loads application configuration from environment variables

import (
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The remote database is optional: when DBHost is
// empty the service runs entirely on the local store.
type Config struct {
	Env            string // application environment (local, development, production)
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address; empty disables the remote store
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time‑to‑live in minutes
	RefreshTTLDays int    // refresh token time‑to‑live in days
	BcryptCost     int    // bcrypt cost for password hashing

	AdminEmail    string // seeded administrator
	AdminPassword string

	Timezone string // IANA zone used to decide what "today" is

	LocalStore    string // redis | memcached | memory
	MemcachedAddr string

	RabbitURL     string
	EventsEnabled bool

	WorkersEnabled      bool
	StatusSweepInterval time.Duration
	PruneInterval       time.Duration
}

// RemoteEnabled reports whether a MySQL database is configured.
func (c Config) RemoteEnabled() bool { return c.DBHost != "" }

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first when it
// exists.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load()

	rabbit := os.Getenv("RABBITMQ_URL")
	if rabbit == "" {
		rabbit = os.Getenv("AMQP_URL")
	}
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         getenv("DB_USER", "root"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         getenv("DB_PORT", "3306"),
		DBName:         getenv("DB_NAME", "marlett"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Timezone: getenv("APP_TIMEZONE", "America/Mexico_City"),

		LocalStore:    getenv("LOCAL_STORE", "redis"),
		MemcachedAddr: getenv("MEMCACHED_ADDR", "localhost:11211"),

		RabbitURL:     rabbit,
		EventsEnabled: envBool("EVENTS_ENABLED", rabbit != ""),

		WorkersEnabled:      envBool("WORKERS_ENABLED", true),
		StatusSweepInterval: envDur("STATUS_SWEEP_INTERVAL", 30*time.Minute),
		PruneInterval:       envDur("PRUNE_INTERVAL", time.Hour),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
