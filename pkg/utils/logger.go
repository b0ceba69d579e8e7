package utils

import "go.uber.org/zap"

// NewLogger returns a zap logger named "cinematch". When debug is true, uses development
// config (human-readable, debug level); otherwise uses production config (JSON, info level).
// Both write to stderr so command output on stdout stays clean.
func NewLogger(debug bool) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Named("cinematch"), nil
}
