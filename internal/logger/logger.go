package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init が呼ばれるまでは何も出力しない
var log = zap.NewNop()

type requestIDKey struct{}

// Init は環境ごとの zap ロガーを作ってグローバルに置く
func Init(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := config.Build()
	if err != nil {
		return nil, err
	}
	log = l
	return l, nil
}

// L はグローバルロガー
func L() *zap.Logger {
	return log
}

// Set はテストなどで差し替える
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return "unknown"
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	log.Info(msg, append(fields, zap.String("request_id", RequestID(ctx)))...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	log.Warn(msg, append(fields, zap.String("request_id", RequestID(ctx)))...)
}

// Error は err と request_id を付けて出す
func Error(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("request_id", RequestID(ctx)))
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	log.Error(msg, fields...)
}
