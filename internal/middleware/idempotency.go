package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Eursukkul/airport-ground-ops/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour
	idempotencyPending   = "PROCESSING"
)

type storedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// state-changing requests. Requests without the header, and every request
// when client is nil, pass straight through. Redis failures fail open.
func Idempotency(client *redis.Client, log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if client == nil {
				return next(c)
			}
			req := c.Request()
			switch req.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			default:
				return next(c)
			}
			key := req.Header.Get(IdempotencyHeader)
			if key == "" {
				return next(c)
			}

			ctx := req.Context()
			redisKey := idempotencyKey(c, key)

			val, err := client.Get(ctx, redisKey).Result()
			switch {
			case err == nil:
				if val == idempotencyPending {
					return echo.NewHTTPError(http.StatusConflict, "a request with this idempotency key is still in progress")
				}
				var stored storedResponse
				if err := json.Unmarshal([]byte(val), &stored); err != nil {
					return echo.NewHTTPError(http.StatusConflict, "request already processed")
				}
				c.Response().Header().Set("X-Idempotency-Hit", "true")
				return c.Blob(stored.Status, echo.MIMEApplicationJSON, stored.Body)
			case err != redis.Nil:
				log.Warn("idempotency lookup failed", "error", err)
				return next(c)
			}

			acquired, err := client.SetNX(ctx, redisKey, idempotencyPending, idempotencyLockTTL).Result()
			if err != nil {
				log.Warn("idempotency lock failed", "error", err)
				return next(c)
			}
			if !acquired {
				return echo.NewHTTPError(http.StatusConflict, "a request with this idempotency key is still in progress")
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer}
			c.Response().Writer = rec

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			if status >= http.StatusInternalServerError {
				client.Del(ctx, redisKey)
				return nil
			}
			payload, _ := json.Marshal(storedResponse{Status: status, Body: rec.body.Bytes()})
			if err := client.Set(ctx, redisKey, payload, idempotencyResultTTL).Err(); err != nil {
				log.Warn("idempotency store failed", "error", err)
			}
			return nil
		}
	}
}

// idempotencyKey scopes the client key to the caller and the route.
func idempotencyKey(c echo.Context, key string) string {
	var worker uint
	if actor, ok := ActorFrom(c); ok {
		worker = actor.WorkerID
	}
	return fmt.Sprintf("idempotency:%d:%s:%s:%s", worker, c.Request().Method, c.Request().URL.Path, key)
}

type bodyRecorder struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
