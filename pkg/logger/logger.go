package logger

import (
	"context"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKey string

const LoggerKey loggerKey = "logger"

var defaultLogger = zap.NewNop().Sugar()

// Run builds the root sugared logger with the given level
// (debug|info|warn|error|fatal). It is installed per request
// by the logging middleware.
func Run(level string) *zap.SugaredLogger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		log.Printf("logger: unknown level %q, falling back to info", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	zapLogger, err := cfg.Build()
	if err != nil {
		log.Fatalln("logger: can't build zap logger:", err)
	}

	defaultLogger = zapLogger.Sugar()
	return defaultLogger
}

func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, LoggerKey, l)
}

// Log returns the request-scoped logger if the middleware has put one
// into the context, otherwise the root logger.
func Log(ctx context.Context) *zap.SugaredLogger {
	l, ok := ctx.Value(LoggerKey).(*zap.SugaredLogger)
	if !ok || l == nil {
		return defaultLogger
	}
	return l
}
