package preninja

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"shanhu.io/misc/errcode"
)

// NewLogger creates a logger that writes to stderr. Development loggers
// use the console encoding; others use json.
func NewLogger(level string, dev bool) (*zap.Logger, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, errcode.InvalidArgf("invalid log level %q", level)
	}

	enc := zap.NewProductionEncoderConfig()
	encoding := "json"
	if dev {
		enc = zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoding = "console"
	}
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(l),
		Development:       dev,
		Encoding:          encoding,
		EncoderConfig:     enc,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !dev,
		DisableStacktrace: true,
	}
	return config.Build()
}
