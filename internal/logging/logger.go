package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a development logger when verbose is set and a production
// logger otherwise. Production output stays at info level and above.
func New(verbose bool) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stderr"}
		logger, err = cfg.Build()
	}

	if err != nil {
		return nil, err
	}
	return logger, nil
}
