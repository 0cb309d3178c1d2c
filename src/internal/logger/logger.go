package logger

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"passwordhash":  {},
	"password_hash": {},
	"xauthtoken":    {},
	"authorization": {},
}

// Card numbers are kept in the audit table but only the last four digits
// may reach the logs.
var cardKeys = map[string]struct{}{
	"tocard":                  {},
	"to_card":                 {},
	"cardnumber":              {},
	"card_number":             {},
	"destinationcardnumber":   {},
	"destination_card_number": {},
}

var current atomic.Pointer[zap.Logger]

func init() {
	l, err := build(zapcore.InfoLevel)
	if err != nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// Configure replaces the process logger with a JSON logger at level.
func Configure(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	l, err := build(lvl)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	current.Store(l)
	return nil
}

// Use installs l as the process logger. Intended for tests.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

func Sync() error {
	return current.Load().Sync()
}

func build(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build(zap.AddCallerSkip(1))
}

func Info(message string, fields Fields) {
	current.Load().Info(message, zapFields(fields)...)
}

func Warn(message string, fields Fields) {
	current.Load().Warn(message, zapFields(fields)...)
}

func Error(message string, err error, fields Fields) {
	base := Fields{}
	for k, v := range fields {
		base[k] = v
	}
	if err != nil {
		base["error"] = err.Error()
	}

	current.Load().Error(message, zapFields(base)...)
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func zapFields(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	sanitized, ok := SanitizePayload(fields).(map[string]any)
	if !ok {
		return []zap.Field{zap.String("fields", "<unavailable>")}
	}

	keys := make([]string, 0, len(sanitized))
	for k := range sanitized {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, sanitized[k]))
	}
	return out
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			switch {
			case isSensitiveKey(key):
				out[key] = "******"
			case isCardKey(key):
				out[key] = maskCard(inner)
			default:
				out[key] = sanitizeValue(inner)
			}
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
}

func isSensitiveKey(key string) bool {
	_, ok := sensitiveKeys[normalizeKey(key)]
	return ok
}

func isCardKey(key string) bool {
	_, ok := cardKeys[normalizeKey(key)]
	return ok
}

func maskCard(value any) any {
	s, ok := value.(string)
	if !ok {
		return "******"
	}
	s = strings.ReplaceAll(s, " ", "")
	if len(s) <= 4 {
		return "****"
	}
	return "**** " + s[len(s)-4:]
}
