package logger

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger = zap.NewNop()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	file   *os.File
)

// Init configures JSONL logging into log/app.log. With alsoStderr every
// record is written to stderr as well.
func Init(baseDir string, alsoStderr bool) error {
	logDir := filepath.Join(baseDir, "log")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(logDir, "app.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	cores := []zapcore.Core{newCore(f)}
	if alsoStderr {
		cores = append(cores, newCore(os.Stderr))
	}
	swap(zapcore.NewTee(cores...), f)
	return nil
}

// SetOutput sends all further records to w. A log file opened by Init is
// closed.
func SetOutput(w io.Writer) {
	swap(newCore(w), nil)
}

// Close flushes and closes the log file opened by Init, if any. Later
// records are discarded until the next Init or SetOutput.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	logger = zap.NewNop()
	return closeFile(nil)
}

func newCore(w io.Writer) zapcore.Core {
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:     "ts",
		LevelKey:    "level",
		MessageKey:  "msg",
		EncodeTime:  func(t time.Time, pe zapcore.PrimitiveArrayEncoder) { pe.AppendString(t.UTC().Format(time.RFC3339Nano)) },
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	})
	return zapcore.NewCore(enc, zapcore.AddSync(w), level)
}

func swap(core zapcore.Core, f *os.File) {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	logger = zap.New(core)
	_ = closeFile(f)
}

// closeFile closes the current log file and remembers next. mu must be held.
func closeFile(next *os.File) error {
	var err error
	if file != nil {
		err = file.Close()
	}
	file = next
	return err
}

func SetDebug(enabled bool) {
	if enabled {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(zapcore.InfoLevel)
}

func Debug(msg string, fields map[string]any) {
	write(zapcore.DebugLevel, msg, fields)
}

func Info(msg string, fields map[string]any) {
	write(zapcore.InfoLevel, msg, fields)
}

func Warn(msg string, fields map[string]any) {
	write(zapcore.WarnLevel, msg, fields)
}

func Error(msg string, fields map[string]any) {
	write(zapcore.ErrorLevel, msg, fields)
}

// Sync flushes buffered records; call it before exit.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
}

func write(lvl zapcore.Level, msg string, fields map[string]any) {
	if !level.Enabled(lvl) {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	zf := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		zf = append(zf, zap.Any(k, fields[k]))
	}

	mu.Lock()
	l := logger
	mu.Unlock()
	if ce := l.Check(lvl, msg); ce != nil {
		ce.Write(zf...)
	}
}
