package main

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr           string
	DatabaseURL    string
	WebDir         string
	CookieName     string
	SessionTTL     time.Duration
	CookieSecure   bool
	CookieSameSite http.SameSite
	AdminUsername  string
	AdminToken     string
	CORSOrigins    []string
	LogLevel       slog.Level
	DBMaxOpenConns int
	LoginLimit     int
}

func loadConfig() Config {
	return Config{
		Addr:           getenv("ADDR", ":8080"),
		DatabaseURL:    getenv("DATABASE_URL", "postgres://postgres:postgres@db:5432/midias?sslmode=disable"),
		WebDir:         getenv("WEB_DIR", "./web"),
		CookieName:     getenv("SESSION_COOKIE_NAME", "session"),
		SessionTTL:     getenvDuration("SESSION_TTL", 8*time.Hour),
		CookieSecure:   getenvBool("COOKIE_SECURE", false),
		CookieSameSite: parseSameSite(getenv("COOKIE_SAMESITE", "lax")),
		AdminUsername:  strings.ToLower(strings.TrimSpace(getenv("ADMIN_USERNAME", ""))),
		AdminToken:     getenv("ADMIN_TOKEN", ""),
		CORSOrigins:    splitList(getenv("CORS_ORIGINS", "")),
		LogLevel:       parseLevel(getenv("LOG_LEVEL", "info")),
		DBMaxOpenConns: getenvInt("DB_MAX_OPEN_CONNS", 10),
		LoginLimit:     getenvInt("LOGIN_RATE_LIMIT", 30),
	}
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	if v := os.Getenv(key + "_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func parseLevel(v string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
