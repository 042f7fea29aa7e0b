package logger

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// SetLevel changes the level of every logger created by New.
func SetLevel(s string) error {
	lv, err := zapcore.ParseLevel(s)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", s, err)
	}
	level.SetLevel(lv)
	return nil
}

type Logger struct {
	service   string
	requestID string
	z         *zap.Logger
}

// New writes one JSON object per entry to stdout.
func New(service string) *Logger {
	enc := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stdout), level)
	return FromZap(service, zap.New(core))
}

// FromZap wraps an existing zap logger, e.g. an observer in tests.
func FromZap(service string, z *zap.Logger) *Logger {
	return &Logger{
		service: service,
		z:       z.With(zap.String("service", service), zap.String("hostname", hostname())),
	}
}

func NewNop() *Logger { return &Logger{service: "nop", z: zap.NewNop()} }

func (l *Logger) Named(service string) *Logger {
	return &Logger{service: service, requestID: l.requestID, z: l.z.With(zap.String("component", service))}
}

func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{service: l.service, requestID: id, z: l.z}
}

func (l *Logger) RequestID() string { return l.requestID }

func (l *Logger) Zap() *zap.Logger { return l.z }

func (l *Logger) Sync() { _ = l.z.Sync() }

func (l *Logger) fields(action string, fields map[string]any, err error) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+3)
	out = append(out, zap.String("action", action), zap.String("request_id", l.requestID))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	if err != nil {
		out = append(out, zap.Dict("error", zap.String("msg", err.Error()), zap.String("type", fmt.Sprintf("%T", err))))
	}
	return out
}

func (l *Logger) Info(action string, fields map[string]any) {
	l.z.Info(action, l.fields(action, fields, nil)...)
}

func (l *Logger) Debug(action string, fields map[string]any) {
	l.z.Debug(action, l.fields(action, fields, nil)...)
}

func (l *Logger) Warn(action string, fields map[string]any) {
	l.z.Warn(action, l.fields(action, fields, nil)...)
}

func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.z.Error(action, l.fields(action, fields, err)...)
}

func hostname() string { h, _ := os.Hostname(); return h }
