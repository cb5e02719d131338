// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zap logger shared by the CLI and the HTTP server.
// Logs go to stderr so command output on stdout stays machine-readable.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

const (
	formatJSON    = "json"
	formatConsole = "console"
)

// New returns a logger writing to stderr.
func New(cfg types.LogConfig) (*zap.Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter returns a logger writing to w. An empty level means info and
// an empty format means console.
func NewWithWriter(cfg types.LogConfig, w io.Writer) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
		}
	}

	encoder, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	switch strings.ToLower(format) {
	case formatJSON:
		return zapcore.NewJSONEncoder(encoderCfg), nil
	case formatConsole, "":
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderCfg), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q: use json or console", format)
	}
}
