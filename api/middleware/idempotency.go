package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/storefront-pricing/api/responses"
	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
	"github.com/angelmondragon/storefront-pricing/pkg/logger"
	pkgredis "github.com/angelmondragon/storefront-pricing/pkg/redis"
)

const (
	// DefaultIdempotencyTTL is used when no TTL is configured.
	DefaultIdempotencyTTL = 24 * time.Hour

	idempotencyHeader = "Idempotency-Key"
	replayHeader      = "Idempotent-Replayed"
	maxKeyLen         = 255
	// A claim outlives any sane handler; a crashed pod cannot wedge the key.
	claimTTL = 30 * time.Second
)

// Double submits of these would add a line twice, redeem a coupon twice or
// restart a buy-now session.
var idempotentRoutes = map[string]bool{
	http.MethodPost + " /api/v1/cart/add":             true,
	http.MethodPost + " /api/v1/cart/apply-coupon":    true,
	http.MethodPost + " /api/v1/buy-now":              true,
	http.MethodPost + " /api/v1/buy-now/apply-coupon": true,
}

type storedResponse struct {
	Pending     bool   `json:"pending,omitempty"`
	RequestHash string `json:"requestHash"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency makes the guarded checkout mutations safe to retry. The first
// request with a key claims it, runs, and stores its response; repeats get
// that response back. A repeat that arrives while the first is still running
// is refused, and a key reused with a different body is rejected. Server
// errors drop the claim so the client can retry. Mount it where the chi
// route pattern is already resolved.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil || !guarded(r.Method, routePattern(r)) {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			switch {
			case clientKey == "":
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			case len(clientKey) > maxKeyLen:
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key too long"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := fingerprint(body)
			key := store.IdempotencyKey(scopeOf(r), clientKey)

			claimed, err := claim(ctx, store, key, hash)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim idempotency key"))
				return
			}
			if !claimed {
				replay(ctx, store, key, hash, w, logg)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			if err := settle(ctx, store, key, hash, capture, ttl); err != nil && logg != nil {
				logg.Error(logg.WithField(ctx, "idempotency_key", clientKey), "idempotency.persist_failed", err)
			}
		})
	}
}

func claim(ctx context.Context, store pkgredis.IdempotencyStore, key, hash string) (bool, error) {
	marker, err := json.Marshal(storedResponse{Pending: true, RequestHash: hash})
	if err != nil {
		return false, err
	}
	return store.SetNX(ctx, key, string(marker), claimTTL)
}

// settle swaps the claim for the final response, or drops it after a
// server error.
func settle(ctx context.Context, store pkgredis.IdempotencyStore, key, hash string, capture *responseCapture, ttl time.Duration) error {
	// The handler may have been cancelled with the client; the outcome
	// still has to be recorded.
	ctx = context.WithoutCancel(ctx)
	if err := store.Del(ctx, key); err != nil {
		return err
	}
	status := capture.statusCode()
	if status >= http.StatusInternalServerError {
		return nil
	}
	payload, err := json.Marshal(storedResponse{
		RequestHash: hash,
		Status:      status,
		ContentType: capture.Header().Get("Content-Type"),
		Body:        capture.body.Bytes(),
	})
	if err != nil {
		return err
	}
	_, err = store.SetNX(ctx, key, string(payload), ttl)
	return err
}

func replay(ctx context.Context, store pkgredis.IdempotencyStore, key, hash string, w http.ResponseWriter, logg *logger.Logger) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		// The claim expired or was dropped between SetNX and Get.
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "request is being processed, retry shortly"))
		return
	}
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load idempotency record"))
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	switch {
	case stored.RequestHash != hash:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case stored.Pending:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "request is being processed, retry shortly"))
	default:
		if stored.ContentType != "" {
			w.Header().Set("Content-Type", stored.ContentType)
		}
		w.Header().Set(replayHeader, "true")
		w.WriteHeader(stored.Status)
		_, _ = w.Write(stored.Body)
	}
}

// scopeOf keys records by shopper and route so two shoppers may share a key.
func scopeOf(r *http.Request) string {
	return strings.Join([]string{UserIDFromContext(r.Context()), r.Method, routePattern(r)}, "|")
}

func fingerprint(body []byte) string {
	sum := sha256.Sum256(bytes.TrimSpace(body))
	return hex.EncodeToString(sum[:])
}

func routePattern(r *http.Request) string {
	pattern := r.URL.Path
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			pattern = p
		}
	}
	if len(pattern) > 1 {
		pattern = strings.TrimSuffix(pattern, "/")
	}
	return pattern
}

func guarded(method, pattern string) bool {
	return idempotentRoutes[method+" "+pattern]
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseCapture) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
