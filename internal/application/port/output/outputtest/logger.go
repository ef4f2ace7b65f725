package outputtest

import (
	"sync"

	"browser-mcp/internal/application/port/output"
)

var _ output.LoggerPort = (*Logger)(nil)

type Entry struct {
	Level string
	Msg   string
	Args  []any
}

// Logger keeps log entries in memory.
type Logger struct {
	mu      *sync.Mutex
	entries *[]Entry
}

func NewLogger() *Logger {
	return &Logger{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (l *Logger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, Entry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...any) { l.add("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.add("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.add("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.add("ERROR", msg, args) }

func (l *Logger) WithField(key string, value any) output.LoggerPort { return l }

func (l *Logger) WithFields(fields map[string]any) output.LoggerPort { return l }

func (l *Logger) Close() error { return nil }

func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), *l.entries...)
}

// Has reports whether a message was logged at level.
func (l *Logger) Has(level, msg string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && e.Msg == msg {
			return true
		}
	}
	return false
}
