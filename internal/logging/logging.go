// Package logging builds the process logger and turns request events into
// log lines.
package logging

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	eventbus "github.com/hanpama/userdir/internal/eventbus"
	events "github.com/hanpama/userdir/internal/events"
	reqid "github.com/hanpama/userdir/internal/reqid"
)

// New returns a logger writing to stderr. format is "json" or "console".
func New(level, format string) (*zap.Logger, error) {
	return newLogger(level, format, zapcore.Lock(os.Stderr))
}

func newLogger(level, format string, ws zapcore.WriteSyncer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	var enc zapcore.Encoder
	switch format {
	case "json", "":
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "console":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return zap.New(zapcore.NewCore(enc, ws, lvl)), nil
}

// StdLog adapts logger for net/http's ErrorLog.
func StdLog(logger *zap.Logger) *log.Logger {
	l, err := zap.NewStdLogAt(logger.Named("http"), zapcore.ErrorLevel)
	if err != nil {
		return zap.NewStdLog(logger)
	}
	return l
}

// Subscribe logs one access line per HTTP request, a warning per GraphQL
// operation that produced errors, and a debug line per created user.
func Subscribe(logger *zap.Logger) (unsubscribe func()) {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) {
			logger.Info("http request",
				zap.String("method", e.Request.Method),
				zap.String("path", e.Request.URL.Path),
				zap.Int("status", e.Status),
				zap.Duration("duration", e.Duration),
				requestID(ctx),
			)
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
			if len(e.Errors) == 0 {
				logger.Debug("graphql operation",
					zap.String("operation", e.OperationName),
					zap.String("type", e.OperationType),
					zap.Duration("duration", e.Duration),
					requestID(ctx),
				)
				return
			}
			logger.Warn("graphql operation failed",
				zap.String("operation", e.OperationName),
				zap.String("type", e.OperationType),
				zap.Bool("data", e.HasData),
				zap.Errors("errors", e.Errors),
				zap.Duration("duration", e.Duration),
				requestID(ctx),
			)
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.UserCreated) {
			logger.Debug("user stored",
				zap.String("id", e.ID),
				zap.Bool("replaced", e.Replaced),
				requestID(ctx),
			)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func requestID(ctx context.Context) zap.Field {
	if rid, ok := reqid.FromContext(ctx); ok {
		return zap.String("request_id", reqid.String(rid))
	}
	return zap.Skip()
}
