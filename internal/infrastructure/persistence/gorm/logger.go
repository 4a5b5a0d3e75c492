package gorm

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// LogLevel maps a configured level name to a GORM log level. GORM is one
// level noisier than the rest of the service, so each name maps one step down.
func LogLevel(name string) gormlogger.LogLevel {
	switch strings.ToLower(name) {
	case "debug":
		return gormlogger.Info
	case "info":
		return gormlogger.Warn
	case "warn", "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

// zapWriter adapts a zap logger to GORM's printf-style writer
type zapWriter struct {
	logger *zap.Logger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// NewLogger builds a GORM logger that writes through zap
func NewLogger(logger *zap.Logger, level gormlogger.LogLevel) gormlogger.Interface {
	return gormlogger.New(
		zapWriter{logger: logger.Named("gorm").WithOptions(zap.AddCallerSkip(1))},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
