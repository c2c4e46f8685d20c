package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	instance *zap.Logger
	sugar    *zap.SugaredLogger
}

// New writes JSON logs to stdout and, when file is set, to a rotated file.
// Unknown levels fall back to info.
func New(level string, file string) *Logger {
	atomicLevel := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if err := atomicLevel.UnmarshalText([]byte(level)); err != nil {
		atomicLevel.SetLevel(zapcore.InfoLevel)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), atomicLevel)}

	if file != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
		cores = append(cores, zapcore.NewCore(encoder, writer, atomicLevel))
	}

	return FromZap(zap.New(zapcore.NewTee(cores...)))
}

// FromZap wraps an existing zap logger.
func FromZap(instance *zap.Logger) *Logger {
	return &Logger{instance: instance, sugar: instance.Sugar()}
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *Logger) GetInstance() *zap.Logger {
	return l.instance
}

func (l *Logger) Sync() error {
	return l.instance.Sync()
}
