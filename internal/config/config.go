package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	RedisAddr            string
	RedisPassword        string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	// Quiz generation provider (OpenAI-compatible endpoint).
	QuizAPIKey     string
	QuizAPIBaseURL string
	QuizModel      string

	// Operational timezone: reminder matching and quiz-day boundaries
	// are computed in this location.
	Timezone *time.Location

	ScanInterval time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		RedisAddr:            getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        getenv("REDIS_PASSWORD", ""),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	cfg.QuizAPIKey = mustGetenv("QUIZ_API_KEY")
	cfg.QuizAPIBaseURL = getenv("QUIZ_API_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	cfg.QuizModel = getenv("QUIZ_MODEL", "gemini-2.0-flash")

	loc, err := time.LoadLocation(getenv("TIMEZONE", "Europe/Istanbul"))
	if err != nil {
		panic("invalid TIMEZONE: " + err.Error())
	}
	cfg.Timezone = loc

	interval, err := time.ParseDuration(getenv("SCAN_INTERVAL", "20s"))
	if err != nil {
		panic("invalid SCAN_INTERVAL: " + err.Error())
	}
	cfg.ScanInterval = interval

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
