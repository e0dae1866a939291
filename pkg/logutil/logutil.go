// Copyright 2024 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logutil owns the process-wide logger. The logger is configured at
// most once; afterwards the configuration is read-only and has no effect on
// pipeline semantics.
package logutil

import (
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig describes the global logger.
type LogConfig struct {
	// Level is the minimum level emitted: debug, info, warn, error.
	Level string `toml:"level"`

	// Format selects the encoder: console or json.
	Format string `toml:"format"`

	// Filename, when set, sends output to a rotating file instead of stderr.
	Filename string `toml:"filename"`

	// MaxSize is the rotation threshold in megabytes.
	MaxSize int `toml:"max-size"`

	// MaxBackups is the number of rotated files to retain.
	MaxBackups int `toml:"max-backups"`
}

var (
	once         sync.Once
	globalLogger atomic.Value // *zap.Logger
	globalLevel  zap.AtomicLevel
)

func init() {
	globalLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	globalLogger.Store(newLogger(LogConfig{Format: "console"}))
}

// Setup configures the global logger. Only the first call takes effect.
func Setup(cfg LogConfig) {
	once.Do(func() {
		if lv, ok := parseLevel(cfg.Level); ok {
			globalLevel.SetLevel(lv)
		}
		globalLogger.Store(newLogger(cfg))
	})
}

// parseLevel maps a level name to its zapcore level. Unknown or empty names
// leave the level untouched.
func parseLevel(name string) (zapcore.Level, bool) {
	if name == "" {
		return 0, false
	}
	var lv zapcore.Level
	if err := lv.UnmarshalText([]byte(name)); err != nil {
		return 0, false
	}
	return lv, true
}

// EnableDebug lowers the global level to debug. It is the backing switch for
// the engine's tracing toggle and never changes query results.
func EnableDebug() {
	globalLevel.SetLevel(zapcore.DebugLevel)
}

// GetGlobalLogger returns the process-wide logger.
func GetGlobalLogger() *zap.Logger {
	return globalLogger.Load().(*zap.Logger)
}

func newLogger(cfg LogConfig) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	var sink zapcore.WriteSyncer
	if cfg.Filename != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}

	return zap.New(zapcore.NewCore(enc, sink, globalLevel))
}
