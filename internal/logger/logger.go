// Package logger owns the process-wide structured logger.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is usable before Init runs (tests, early startup) with logrus defaults.
var Log = logrus.New()

// Init configures Log from the LOG_LEVEL / LOG_FORMAT settings.  Unknown
// levels fall back to info.
func Init(level, format string) {
	Log.SetOutput(os.Stdout)
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	if strings.EqualFold(format, "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
