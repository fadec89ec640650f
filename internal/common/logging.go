// Package common provides logging and build metadata shared by every
// contentflow-mcp package.
package common

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

const logTimeFormat = "2006-01-02T15:04:05Z07:00"

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// Logger wraps arbor.ILogger so callers share one fluent interface.
type Logger struct {
	arbor.ILogger
}

// discardWriter drops everything. It keeps silent loggers from falling
// through to writers registered globally by other loggers.
type discardWriter struct{}

func (w *discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (w *discardWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *discardWriter) GetFilePath() string                   { return "" }
func (w *discardWriter) Close() error                          { return nil }

// lineWriter renders arbor's JSON events as single text lines on out.
type lineWriter struct {
	out   io.Writer
	level log.Level
}

func (w *lineWriter) Write(p []byte) (int, error) {
	var evt models.LogEvent
	if err := json.Unmarshal(p, &evt); err != nil {
		return w.out.Write(p)
	}
	if evt.Level < w.level {
		return len(p), nil
	}

	keys := make([]string, 0, len(evt.Fields))
	for k := range evt.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	line := evt.Message
	for _, k := range keys {
		line += fmt.Sprintf(" %s=%v", k, evt.Fields[k])
	}
	if evt.Error != "" {
		line += " error=" + evt.Error
	}
	if _, err := w.out.Write([]byte(line + "\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *lineWriter) WithLevel(level log.Level) writers.IWriter {
	w.level = level
	return w
}

func (w *lineWriter) GetFilePath() string { return "" }
func (w *lineWriter) Close() error        { return nil }

// NewLogger creates a logger at the given level writing to stderr only.
func NewLogger(level string) *Logger {
	return NewLoggerFromConfig(LoggingConfig{
		Level:   level,
		Outputs: []string{"console"},
	})
}

// NewLoggerFromConfig creates a logger from LoggingConfig.
//
// The console writer always targets stderr: with the stdio transport stdout
// carries JSON-RPC frames and must never see a log line.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	level := cfg.Level
	if level == "" {
		level = "info"
	}

	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console"}
	}

	l := arbor.NewLogger()
	for _, out := range outputs {
		switch out {
		case "console":
			l = l.WithConsoleWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeConsole,
				Writer:     os.Stderr,
				TimeFormat: logTimeFormat,
			})
		case "file":
			filePath := cfg.FilePath
			if filePath == "" {
				filePath = "logs/contentflow-mcp.log"
			}
			maxSize := int64(cfg.MaxSizeMB) * 1024 * 1024
			if maxSize <= 0 {
				maxSize = 10 * 1024 * 1024
			}
			maxBackups := cfg.MaxBackups
			if maxBackups <= 0 {
				maxBackups = 3
			}
			l = l.WithFileWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeFile,
				FileName:   filePath,
				MaxSize:    maxSize,
				MaxBackups: maxBackups,
				TimeFormat: logTimeFormat,
			})
		case "memory":
			l = l.WithMemoryWriter(models.WriterConfiguration{
				Type: models.LogWriterTypeMemory,
			})
		}
	}

	return &Logger{ILogger: l.WithLevelFromString(level)}
}

// NewLoggerWithOutput creates a logger that renders text lines to w.
// Tests use it to assert on log output.
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	arbor.RegisterWriter(arbor.WRITER_CONSOLE, &lineWriter{out: w, level: log.TraceLevel})

	l := arbor.NewLogger().
		WithMemoryWriter(models.WriterConfiguration{
			Type: models.LogWriterTypeMemory,
		}).
		WithLevelFromString(level)

	return &Logger{ILogger: l}
}

// NewSilentLogger creates a logger that discards all output.
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger().WithWriters([]writers.IWriter{&discardWriter{}})}
}

// WithCorrelationId returns a child logger tagged with id.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
