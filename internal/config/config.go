package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	HTTPAddr    string
	DBPath      string
	SeedOnStart bool

	JWTSecret string
	TokenTTL  time.Duration

	// Broker opcional para eventos de venta; vacío = deshabilitado.
	RabbitURL      string
	QSaleCommitted string

	CORSOrigins []string

	CatalogCacheSize int
	CatalogCacheTTL  time.Duration

	// Usuario admin sembrado al arrancar (solo si no existe).
	AdminEmail    string
	AdminPassword string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func Load() Config {
	return Config{
		ServiceName: getenv("POS_SERVICE_NAME", "bookshop-pos"),
		HTTPAddr:    getenv("POS_HTTP_ADDR", ":8080"),
		DBPath:      getenv("POS_DB_PATH", "bookshop.db"),
		SeedOnStart: getenv("POS_SEED", "true") == "true",

		JWTSecret: getenv("POS_JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:  getdur("POS_TOKEN_TTL", 8*time.Hour),

		RabbitURL:      os.Getenv("RABBITMQ_URL"),
		QSaleCommitted: getenv("Q_SALE_COMMITTED", "sales.committed"),

		CORSOrigins: strings.Split(getenv("POS_CORS_ORIGINS", "*"), ","),

		CatalogCacheSize: getint("POS_CATALOG_CACHE_SIZE", 256),
		CatalogCacheTTL:  getdur("POS_CATALOG_CACHE_TTL", 5*time.Second),

		AdminEmail:    getenv("POS_ADMIN_EMAIL", "admin@bookshop.local"),
		AdminPassword: getenv("POS_ADMIN_PASSWORD", "admin123"),
	}
}

const ShutdownGrace = 10 * time.Second
