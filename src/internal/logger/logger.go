package logger

import (
	"go.uber.org/zap"
)

type Fields map[string]any

// log defaults to a nop logger so packages can log before Init, which keeps
// tests quiet without any setup.
var log = zap.NewNop()

func Init() error {
	l, err := zap.NewProduction()
	if err != nil {
		return err
	}
	log = l
	return nil
}

func Sync() {
	_ = log.Sync()
}

func Info(message string, fields Fields) {
	log.Info(message, zapFields(fields)...)
}

func Error(message string, err error, fields Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	log.Error(message, zf...)
}

func zapFields(fields Fields) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	for key, value := range fields {
		out = append(out, zap.Any(key, value))
	}
	return out
}
