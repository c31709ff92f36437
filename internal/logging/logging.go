// Package logging builds the zap logger shared by the shell and the Wails
// runtime.
package logging

import (
	"fmt"
	"os"
	"strings"

	wlogger "github.com/wailsapp/wails/v2/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level string
	// FilePath enables a JSON log file when non-empty.
	FilePath string
}

func ParseLevel(s string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return lvl, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return lvl, nil
}

// New returns a console logger on stderr, teed into a JSON file when asked.
func New(opts Options) (*zap.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), lvl),
	}
	if opts.FilePath != "" {
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(f),
			lvl,
		))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

// WailsLogger routes Wails runtime logs into zap.
type WailsLogger struct {
	log *zap.Logger
}

var _ wlogger.Logger = (*WailsLogger)(nil)

func NewWailsLogger(log *zap.Logger) *WailsLogger {
	return &WailsLogger{log: log.Named("wails").WithOptions(zap.AddCallerSkip(1))}
}

func (w *WailsLogger) Print(message string)   { w.log.Info(message) }
func (w *WailsLogger) Trace(message string)   { w.log.Debug(message) }
func (w *WailsLogger) Debug(message string)   { w.log.Debug(message) }
func (w *WailsLogger) Info(message string)    { w.log.Info(message) }
func (w *WailsLogger) Warning(message string) { w.log.Warn(message) }
func (w *WailsLogger) Error(message string)   { w.log.Error(message) }

// Fatal is logged as an error; the Wails runtime exits on its own after
// calling it.
func (w *WailsLogger) Fatal(message string) { w.log.Error(message) }

// WailsLevel maps a zap level onto the Wails runtime log level.
func WailsLevel(lvl zapcore.Level) wlogger.LogLevel {
	switch {
	case lvl <= zapcore.DebugLevel:
		return wlogger.DEBUG
	case lvl == zapcore.InfoLevel:
		return wlogger.INFO
	case lvl == zapcore.WarnLevel:
		return wlogger.WARNING
	default:
		return wlogger.ERROR
	}
}
