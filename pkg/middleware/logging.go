package middleware

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"noticeboard/pkg/common"
	"noticeboard/pkg/logger"
)

type requestIDKey string

const RequestIDKey requestIDKey = "requestID"

type Logging struct {
	logger *zap.SugaredLogger
}

func NewLoggingMiddleware(l *zap.SugaredLogger) *Logging {
	return &Logging{logger: l}
}

// SetupTracing assigns every request an id the whole middleware chain
// and the handlers can refer to.
func (lm *Logging) SetupTracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), RequestIDKey, common.RandStringRunes(12))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetupLogging puts a logger carrying the trace id into the request
// context, so every handler line is attributable.
func (lm *Logging) SetupLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, _ := r.Context().Value(RequestIDKey).(string)
		ctxLogger := lm.logger.With(
			zap.String("trace_id", requestID),
		)
		ctx := logger.WithLogger(r.Context(), ctxLogger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (lm *Logging) AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Log(r.Context()).Infow("request handled",
			"method", r.Method,
			"url", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"took", time.Since(start),
		)
	})
}
