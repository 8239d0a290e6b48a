// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the log file created in the state directory.
const FileName = "gisthub.log"

// Options selects where and how much is logged.
type Options struct {
	// Level is a zap level name; "off" or "" disables logging.
	Level string
	// Dir holds the log file when File is empty.
	Dir string
	// File overrides the log file path.
	File string
	// Fields are attached to every entry.
	Fields map[string]string
}

// Setup builds the process logger and installs it as zap's global logger.
// The returned function flushes and restores the previous global.
func Setup(opts Options) (*zap.Logger, func(), error) {
	logger, closeFile, err := New(opts)
	if err != nil {
		return nil, nil, err
	}
	restore := zap.ReplaceGlobals(logger)
	return logger, func() {
		_ = logger.Sync()
		restore()
		closeFile()
	}, nil
}

// New builds a JSON file logger. It returns a no-op logger when logging is off.
func New(opts Options) (*zap.Logger, func(), error) {
	level := strings.ToLower(strings.TrimSpace(opts.Level))
	if level == "" || level == "off" || level == "none" {
		return zap.NewNop(), func() {}, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	path := opts.File
	if path == "" {
		if opts.Dir == "" {
			return nil, nil, fmt.Errorf("log directory is not set")
		}
		path = filepath.Join(opts.Dir, FileName)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	core := zapcore.NewCore(newEncoder(), zapcore.AddSync(f), lvl)
	logger := zap.New(core, zap.AddCaller())
	if len(opts.Fields) > 0 {
		fields := make([]zap.Field, 0, len(opts.Fields))
		for k, v := range opts.Fields {
			fields = append(fields, zap.String(k, v))
		}
		logger = logger.With(fields...)
	}
	return logger, func() { _ = f.Close() }, nil
}

func newEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}
