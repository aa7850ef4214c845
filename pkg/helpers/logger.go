package helpers

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process-wide logrus logger. Development gets
// human-readable text at debug level; everything else emits JSON at info
// so log shippers can parse it.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger ready")
	return logger
}
