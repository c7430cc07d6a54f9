package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how logs are written.
type Options struct {
	Name        string
	Development bool
	// File が空でなければ JSON ログをローテーション付きで追記する。
	File   string
	Output io.Writer
}

// New はコンソール出力と任意のファイル出力を束ねたロガーを返す。
// 開発時は人が読みやすい形式、本番では JSON 形式で出力する。
func New(opts Options) *zap.SugaredLogger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var consoleEncoder zapcore.Encoder
	if opts.Development {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		consoleEncoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	level := zap.InfoLevel
	if opts.Development {
		level = zap.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(out), level),
	}
	if opts.File != "" {
		fileSyncer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     7, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), fileSyncer, level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	if opts.Name != "" {
		logger = logger.Named(opts.Name)
	}
	return logger.Sugar()
}
