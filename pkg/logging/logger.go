package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Params struct {
	Level      string
	FormatJSON bool
	// FileName enables a rotated log file next to (or instead of) stdout.
	FileName    string
	LogToStdout bool
}

// New builds the application logger. Nothing is written to the logrus
// standard logger; callers pass the result down as a logrus.FieldLogger.
func New(params Params) *logrus.Logger {
	log := logrus.New()
	if params.FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	log.SetLevel(GetLevel(params.Level))
	log.SetOutput(Output(params))
	return log
}

// Output resolves where log lines go: stdout only, the rotated file only, or both.
func Output(params Params) io.Writer {
	if params.FileName == "" {
		return os.Stdout
	}
	if !strings.HasSuffix(params.FileName, ".log") {
		params.FileName += ".log"
	}
	file := &lumberjack.Logger{
		Filename:   params.FileName,
		MaxSize:    20, // megabytes
		MaxBackups: 10,
		Compress:   true,
	}
	if params.LogToStdout {
		return io.MultiWriter(os.Stdout, file)
	}
	return file
}

func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
