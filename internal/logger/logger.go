package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
}

// Logger writes coloured lines to the terminal writer and, when configured,
// one JSON object per line to the json writer. A nil *Logger discards
// everything, so components can be built without one in tests.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	jsonOut  io.Writer
	minLevel Level
	now      func() time.Time
}

type Option func(*Logger)

func WithLevel(level Level) Option {
	return func(l *Logger) { l.minLevel = level }
}

func WithJSON(w io.Writer) Option {
	return func(l *Logger) { l.jsonOut = w }
}

func WithoutColor() Option {
	return func(*Logger) { color.NoColor = true }
}

func New(out io.Writer, opts ...Option) *Logger {
	l := &Logger{out: out, minLevel: INFO, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewFile logs to stdout and appends JSON lines to <dir>/<service>-<date>.log.
// The returned closer closes the file.
func NewFile(dir, service string, opts ...Option) (*Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("%s-%s.log", service, time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(os.Stdout, append([]Option{WithJSON(f)}, opts...)...)
	l.Info("LOGGER", "log file: "+name)
	return l, f, nil
}

// Open returns a stdout logger, or a file-backed one when dir is set.
func Open(dir, service, level string) (*Logger, io.Closer, error) {
	opt := WithLevel(ParseLevel(level))
	if dir == "" {
		return New(os.Stdout, opt), io.NopCloser(nil), nil
	}
	return NewFile(dir, service, opt)
}

func (l *Logger) log(level Level, category, message string) {
	if l == nil || level < l.minLevel {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if ok {
		file = filepath.Base(file)
	}

	entry := Entry{
		Timestamp: l.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Level:     level.String(),
		Category:  strings.ToUpper(category),
		Message:   message,
		File:      file,
		Line:      line,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out != nil {
		fmt.Fprint(l.out, formatTerminal(entry))
	}
	if l.jsonOut != nil {
		data, _ := json.Marshal(entry)
		l.jsonOut.Write(append(data, '\n'))
	}
}

func formatTerminal(entry Entry) string {
	var levelColor *color.Color
	switch entry.Level {
	case "DEBUG":
		levelColor = color.New(color.FgCyan)
	case "WARN":
		levelColor = color.New(color.FgYellow)
	case "ERROR":
		levelColor = color.New(color.FgRed, color.Bold)
	default:
		levelColor = color.New(color.FgGreen)
	}

	ts := entry.Timestamp[11:19]
	out := fmt.Sprintf("%s %s %s %s",
		color.New(color.FgBlue).Sprint(ts),
		levelColor.Sprintf("%-5s", entry.Level),
		levelColor.Add(color.Bold).Sprintf("[%-8s]", entry.Category),
		entry.Message)
	if entry.File != "" && entry.Line > 0 {
		out += color.New(color.FgMagenta).Sprintf(" (%s:%d)", entry.File, entry.Line)
	}
	return out + "\n"
}

func (l *Logger) Debug(category, message string) { l.log(DEBUG, category, message) }
func (l *Logger) Info(category, message string)  { l.log(INFO, category, message) }
func (l *Logger) Warn(category, message string)  { l.log(WARN, category, message) }
func (l *Logger) Error(category, message string) { l.log(ERROR, category, message) }

func (l *Logger) LogBooking(action string, bookingID int64, message string) {
	l.log(INFO, "BOOKING", fmt.Sprintf("[%s] %d - %s", action, bookingID, message))
}

func (l *Logger) LogAPI(method, path string, status int, duration time.Duration) {
	l.log(INFO, "API", fmt.Sprintf("%s %s - %d (%s)", method, path, status, duration))
}

func (l *Logger) LogKafka(action, topic, message string) {
	l.log(INFO, "KAFKA", fmt.Sprintf("[%s] %s - %s", action, topic, message))
}

func (l *Logger) LogDatabase(operation, table, message string) {
	l.log(INFO, "DATABASE", fmt.Sprintf("[%s] %s - %s", operation, table, message))
}

func (l *Logger) LogSecurity(event, message string) {
	l.log(WARN, "SECURITY", fmt.Sprintf("[%s] %s", event, message))
}
