package logger

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = log.New()

func init() {
	configure(os.Getenv("ENV"), os.Getenv("LOG_TO_FILE") == "true")
	SetLevel(os.Getenv("LOG_LEVEL"))
}

// configure writes JSON to stdout by default (better with systemd/docker).
// LOG_TO_FILE=true switches to a rotated file under ./logs.
func configure(env string, logToFile bool) {
	logger.Out = os.Stdout
	if logToFile {
		name := "app.log"
		if env != "" {
			name = "app-" + env + ".log"
		}
		cwd, err := os.Getwd()
		if err != nil {
			log.WithField("error", err).Warn("Failed get current working directory, logging to stdout")
		} else {
			logger.Out = &lumberjack.Logger{
				Filename:   filepath.Join(cwd, "logs", name),
				MaxSize:    100, // megabytes
				MaxBackups: 7,
				MaxAge:     28, // days
				Compress:   true,
			}
		}
	}

	logger.Formatter = &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
}

// SetLevel applies a logrus level name; unknown or empty names fall back to debug.
func SetLevel(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
}

func GetLogger() *log.Entry {
	function, file, line, _ := runtime.Caller(1)

	functionObject := runtime.FuncForPC(function)
	entry := logger.WithFields(log.Fields{
		"function": functionObject.Name(),
		"file":     file,
		"line":     line,
	})

	return entry
}
