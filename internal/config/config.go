package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Remote    RemoteConfig
	Fallback  FallbackConfig
	Auth      AuthConfig
	WebSocket WebSocketConfig
	CORS      CORSConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

// RemoteConfig describes the remote CouchDB backend. An empty URL means
// the deployment runs against the local fallback store only.
type RemoteConfig struct {
	URL      string
	User     string
	Password string
	Database string
}

// Configured reports whether remote credentials are present. Reachability
// is not probed here; it is discovered by attempting the real operation.
func (c RemoteConfig) Configured() bool {
	return c.URL != ""
}

// DSN renders the CouchDB connection string with basic credentials.
// Userinfo goes through net/url so reserved characters in the password
// survive percent-encoded.
func (c RemoteConfig) DSN() string {
	if c.User == "" {
		return c.URL
	}

	raw := c.URL
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.User = url.UserPassword(c.User, c.Password)
	return u.String()
}

type FallbackConfig struct {
	Path string
}

type AuthConfig struct {
	Password      string
	JWTSecret     string
	JWTExpiration time.Duration
}

type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	godotenv.Load()

	jwtExp, err := time.ParseDuration(getEnv("JWT_EXPIRATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Remote: RemoteConfig{
			URL:      getEnv("REMOTE_URL", ""),
			User:     getEnv("REMOTE_USER", ""),
			Password: getEnv("REMOTE_PASSWORD", ""),
			Database: getEnv("REMOTE_DATABASE", "driftnote"),
		},
		Fallback: FallbackConfig{
			Path: getEnv("FALLBACK_PATH", "driftnote.db"),
		},
		Auth: AuthConfig{
			Password:      getEnv("AUTH_PASSWORD", "driftnote"),
			JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-in-production"),
			JWTExpiration: jwtExp,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getEnvAsInt("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getEnvAsInt("WS_WRITE_BUFFER_SIZE", 1024),
			WriteWait:       10 * time.Second,
			PongWait:        60 * time.Second,
			PingPeriod:      54 * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
