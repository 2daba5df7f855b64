package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	idempotencyLockTTL = 30 * time.Second
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// recorder tees the downstream response so it can be cached.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func idempotencyKeys(r *http.Request, key string) (cacheKey, lockKey string) {
	userID := "anonymous"
	if _, claims, err := jwtauth.FromContext(r.Context()); err == nil {
		if id, ok := claims["user_id"].(string); ok && id != "" {
			userID = id
		}
	}
	cacheKey = fmt.Sprintf("idemp:%s:%s:%s", r.URL.Path, userID, key)
	return cacheKey, cacheKey + ":lock"
}

// Idempotency replays the stored response of a request that carried the same
// Idempotency-Key, scoped per path and user. A concurrent request holding the
// same key gets 409 until the first one finishes. Requests without the header
// and a nil client pass through untouched.
func Idempotency(rdb redis.Cmdable, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cacheKey, lockKey := idempotencyKeys(r, key)

			cached, err := rdb.Get(ctx, cacheKey).Result()
			switch {
			case err == nil:
				if replay(w, cacheKey, cached) {
					return
				}
			case !errors.Is(err, redis.Nil):
				// Redis being down must not block payroll operations.
				slog.Error("idempotency: cache lookup failed", "key", cacheKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			locked, err := rdb.SetNX(ctx, lockKey, "processing", idempotencyLockTTL).Result()
			if err != nil {
				slog.Error("idempotency: lock failed", "key", lockKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !locked {
				response.Error(w, http.StatusConflict, "PROCESSING", "A request with this idempotency key is already being processed", nil)
				return
			}
			defer rdb.Del(ctx, lockKey)

			// The previous holder may have stored its response between the lookup and the lock.
			cached, err = rdb.Get(ctx, cacheKey).Result()
			switch {
			case err == nil:
				if replay(w, cacheKey, cached) {
					return
				}
			case !errors.Is(err, redis.Nil):
				slog.Error("idempotency: cache lookup failed", "key", cacheKey, "error", err)
			}

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status < 200 || rec.status >= 300 {
				return
			}

			payload, err := json.Marshal(cachedResponse{Status: rec.status, Body: rec.body.String()})
			if err != nil {
				return
			}
			if err := rdb.Set(ctx, cacheKey, string(payload), ttl).Err(); err != nil {
				slog.Error("idempotency: failed to store response", "key", cacheKey, "error", err)
			}
		})
	}
}

// replay writes a stored response. It reports false when the entry is unreadable.
func replay(w http.ResponseWriter, cacheKey, cached string) bool {
	var stored cachedResponse
	if err := json.Unmarshal([]byte(cached), &stored); err != nil {
		slog.Warn("idempotency: discarding unreadable cached response", "key", cacheKey)
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write([]byte(stored.Body))
	return true
}
