// Package logging provides the structured, level-filtered, secret-redacting
// logger used by the vault crypto pipeline's per-slot failure path and by
// the CLI. Adapted from the teacher repository's
// pkg/infrastructure/logging package; trimmed to the handful of knobs this
// codec actually needs and extended with the vault's own secret vocabulary
// (salt, nonce, tag, wrapped key) in addition to the generic
// password/secret/token patterns the teacher already redacted.
package logging

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// LogLevel is the minimum severity a Logger will emit.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a level name, case-insensitively. "warning" is
// accepted as an alias for "warn".
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("logging: invalid log level: %s", level)
	}
}

// LogFormat selects how a LogEntry is rendered.
type LogFormat int

const (
	TextFormat LogFormat = iota
	JSONFormat
)

// LogEntry is a single emitted log line.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger is a minimal structured logger: level-filtered, optionally
// JSON-formatted, and, when Config.Sanitize is set, sanitizing fields and
// values that look like secret material before they reach Output.
type Logger struct {
	mu        sync.RWMutex
	level     LogLevel
	format    LogFormat
	output    io.Writer
	component string
	sanitize  bool
}

// Config configures a new Logger.
type Config struct {
	Level     LogLevel
	Format    LogFormat
	Output    io.Writer
	Component string
	Sanitize  bool
}

// DefaultConfig returns info-level, text-formatted logging to stderr with
// sanitizing enabled.
func DefaultConfig() *Config {
	return &Config{
		Level:    InfoLevel,
		Format:   TextFormat,
		Output:   os.Stderr,
		Sanitize: true,
	}
}

var sensitiveFieldPattern = regexp.MustCompile(
	`(?i)(password|passphrase|secret|token|key|auth|credential|salt|nonce|tag|master[-_]?key)`,
)

// hexKeyMaterialPattern matches string values that look like hex-encoded
// key material: 24 or more hex digits, the width of a 12-byte nonce.
var hexKeyMaterialPattern = regexp.MustCompile(`^[0-9a-fA-F]{24,}$`)

// New creates a Logger from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Logger{
		level:     cfg.Level,
		format:    cfg.Format,
		output:    cfg.Output,
		component: cfg.Component,
		sanitize:  cfg.Sanitize,
	}
}

// WithComponent returns a copy of l tagged with the given component name.
func (l *Logger) WithComponent(component string) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Logger{
		level:     l.level,
		format:    l.format,
		output:    l.output,
		component: component,
		sanitize:  l.sanitize,
	}
}

// SetLevel changes the minimum level l will emit.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) enabled(level LogLevel) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= l.level
}

func (l *Logger) isSensitiveFieldName(name string) bool {
	return sensitiveFieldPattern.MatchString(name)
}

func (l *Logger) sanitizeFields(fields map[string]interface{}) map[string]interface{} {
	if !l.sanitize || fields == nil {
		return fields
	}
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if l.isSensitiveFieldName(k) {
			out[k] = "[REDACTED]"
			continue
		}
		if s, ok := v.(string); ok && hexKeyMaterialPattern.MatchString(s) {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = v
	}
	return out
}

func (l *Logger) log(level LogLevel, message string, fields map[string]interface{}) {
	if !l.enabled(level) {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Message:   message,
		Fields:    l.sanitizeFields(fields),
	}
	if l.component != "" {
		if entry.Fields == nil {
			entry.Fields = make(map[string]interface{})
		}
		entry.Fields["component"] = l.component
	}

	var line string
	switch l.format {
	case JSONFormat:
		data, _ := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(entry)
		line = string(data) + "\n"
	default:
		line = formatText(entry)
	}
	io.WriteString(l.output, line)
}

func formatText(entry LogEntry) string {
	var b strings.Builder
	b.WriteString(entry.Timestamp.Format("2006-01-02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(entry.Level)
	b.WriteString("] ")
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		b.WriteString(" [")
		first := true
		for k, v := range entry.Fields {
			if !first {
				b.WriteString(" ")
			}
			first = false
			fmt.Fprintf(&b, "%s=%v", k, v)
		}
		b.WriteString("]")
	}
	b.WriteString("\n")
	return b.String()
}

// Debug logs message at DebugLevel with optional structured fields.
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	l.log(DebugLevel, message, firstOrNil(fields))
}

// Info logs message at InfoLevel with optional structured fields.
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	l.log(InfoLevel, message, firstOrNil(fields))
}

// Warn logs message at WarnLevel with optional structured fields. This is
// what the vault crypto pipeline calls for each slot that fails to
// authenticate before moving on to the next one.
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	l.log(WarnLevel, message, firstOrNil(fields))
}

// Error logs message at ErrorLevel with optional structured fields.
func (l *Logger) Error(message string, fields ...map[string]interface{}) {
	l.log(ErrorLevel, message, firstOrNil(fields))
}

func firstOrNil(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}
