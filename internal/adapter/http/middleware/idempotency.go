package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gowebpki/jcs"
	"github.com/rs/zerolog"

	"github.com/iho/paytransfer/internal/infrastructure/metrics"
	"github.com/iho/paytransfer/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader marks a response served from the store.
	IdempotencyReplayHeader = "X-Idempotency-Replay"
)

// idempotencyRecord is what the store holds for a key. Status is zero while
// the first request is still being served.
type idempotencyRecord struct {
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status"`
	Body        []byte `json:"body,omitempty"`
}

// IdempotencyMiddleware handles request idempotency using Redis.
type IdempotencyMiddleware struct {
	store   usecase.IdempotencyStore
	ttl     time.Duration
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger, m *metrics.Metrics) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}

	return &IdempotencyMiddleware{
		store:   store,
		ttl:     ttl,
		logger:  logger,
		metrics: m,
	}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "Malformed request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		fingerprint := requestFingerprint(r, body)
		claim, _ := json.Marshal(idempotencyRecord{Fingerprint: fingerprint})

		exists, stored, err := m.store.CheckAndSet(r.Context(), key, claim, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Str("idempotency_key", key).Msg("idempotency check failed")
			writeError(w, r, http.StatusInternalServerError, "Idempotency check failed")

			return
		}

		if exists {
			m.replay(w, r, stored, fingerprint)
			return
		}

		ctx := context.WithoutCancel(r.Context())

		// Anything but a stored 2xx frees the key, including a panic in next
		completed := false
		defer func() {
			if completed {
				return
			}
			if err := m.store.Release(ctx, key); err != nil {
				m.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}()

		// Capture response
		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			return
		}
		completed = true

		record, _ := json.Marshal(idempotencyRecord{
			Fingerprint: fingerprint,
			Status:      recorder.statusCode,
			Body:        recorder.body.Bytes(),
		})
		if err := m.store.Update(ctx, key, record, m.ttl); err != nil {
			m.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to store idempotent response")
		}
	})
}

func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, r *http.Request, stored []byte, fingerprint string) {
	var record idempotencyRecord
	if err := json.Unmarshal(stored, &record); err != nil {
		m.logger.Error().Err(err).Msg("corrupt idempotency record")
		writeError(w, r, http.StatusInternalServerError, "Idempotency check failed")

		return
	}

	if record.Fingerprint != fingerprint {
		writeError(w, r, http.StatusUnprocessableEntity, "Idempotency key was already used with a different request")
		return
	}

	if record.Status == 0 {
		writeError(w, r, http.StatusConflict, "A request with this idempotency key is still being processed")
		return
	}

	if m.metrics != nil {
		m.metrics.IdempotentReplays.Inc()
	}

	w.Header().Set(IdempotencyReplayHeader, "true")
	if len(record.Body) > 0 {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(record.Status)
	w.Write(record.Body)
}

// requestFingerprint hashes the method, path and canonical JSON body so that
// formatting differences in the body do not count as a different request.
func requestFingerprint(r *http.Request, body []byte) string {
	canonical, err := jcs.Transform(body)
	if err != nil {
		canonical = body
	}

	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte{0})
	h.Write([]byte(r.URL.Path))
	h.Write([]byte{0})
	h.Write(canonical)

	return hex.EncodeToString(h.Sum(nil))
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
