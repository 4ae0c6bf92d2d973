package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  The token pepper is the
// server-wide constant mixed into every credential digest; it is
// injected into the identity service at construction and must never
// be read from anywhere else.
type Config struct {
	Env         string // application environment (e.g. "dev", "prod")
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	TokenPepper string // server-wide pepper for credential digests
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:         must("APP_ENV"),
		Port:        must("APP_PORT"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"), // empty allowed
		DBHost:      must("DB_HOST"),
		DBPort:      must("DB_PORT"),
		DBName:      must("DB_NAME"),
		TokenPepper: must("DEVICE_TOKEN_PEPPER"),
	}
}

// must retrieves the value of a required environment variable.  If
// the variable is unset or empty, the application logs a fatal error
// and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
