package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Logger is a zap SugaredLogger that scrubs credentials from key/value pairs.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
	redact        redactor
}

// New builds a logger for the given LOG_MODE. "test" returns a no-op logger.
// Redaction follows LOG_REDACTION_ENABLED (default on) and LOG_HASH_SALT.
func New(mode string) (*Logger, error) {
	red := redactorFromEnv()
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "test", "nop":
		return &Logger{SugaredLogger: zap.NewNop().Sugar(), redact: red}, nil
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar(), redact: red}, nil
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Fatalw(msg, l.redact.kvs(keysAndValues)...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(l.redact.kvs(keysAndValues)...), redact: l.redact}
}

// secretKeys are substrings of keys whose values never reach the log.
var secretKeys = []string{"token", "authorization", "password", "secret", "cookie", "refresh", "jti"}

// hashedKeys identify a person; their values are logged as a salted digest.
var hashedKeys = map[string]bool{"email": true, "username": true}

type redactor struct {
	disabled bool
	salt     string
}

func redactorFromEnv() redactor {
	r := redactor{salt: strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		r.disabled = true
	}
	return r
}

func (r redactor) kvs(kv []interface{}) []interface{} {
	if len(kv) == 0 || r.disabled {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := toString(kv[i])
		out = append(out, key, r.value(strings.ToLower(strings.TrimSpace(key)), kv[i+1]))
	}
	return out
}

func (r redactor) value(key string, val interface{}) interface{} {
	if key == "" {
		return val
	}
	for _, needle := range secretKeys {
		if strings.Contains(key, needle) {
			return "[REDACTED]"
		}
	}
	if hashedKeys[key] {
		return r.hash(val)
	}
	if s, ok := val.(string); ok && looksLikeJWT(s) {
		return "[REDACTED]"
	}
	return val
}

func (r redactor) hash(val interface{}) string {
	raw := toString(val)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	_, _ = h.Write([]byte(r.salt))
	_, _ = h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
