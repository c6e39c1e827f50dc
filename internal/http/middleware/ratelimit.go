package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/redis/go-redis/v9"
)

// RateLimit is a fixed-window per-IP limiter backed by Redis, so the count
// holds across restarts and replicas. Redis being down fails open: the
// limiter protects registration traffic, it is not a security boundary.
func RateLimit(rdb *redis.Client, limit int64, window time.Duration, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + clientIP(r)

			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				log.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(r.Context(), key, window)
			}

			if count > limit {
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, map[string]any{
					"success": false,
					"message": "Çok fazla istek yapıldı, lütfen 15 dakika sonra tekrar deneyin",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
