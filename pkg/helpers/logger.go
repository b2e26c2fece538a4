package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// appHook stamps every entry with the process name so API, worker and seed
// lines can be told apart in a shared sink.
type appHook struct{ app string }

func (h appHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h appHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["app"]; !ok {
		e.Data["app"] = h.app
	}
	return nil
}

// NewLogger creates a configured Logrus logger: text in development, JSON elsewhere.
func NewLogger(appName, env string) *logrus.Logger {
	return newLogger(os.Stdout, appName, env)
}

func newLogger(out io.Writer, appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.AddHook(appHook{app: appName})
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.WithField("env", env).Debug("logger initialized")
	return logger
}

// LogError logs msg at error level with err flattened into the fields.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	logger.WithFields(withError(fields, err)).Error(msg)
}

// LogWarn is LogError for degraded-but-running conditions.
func LogWarn(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	logger.WithFields(withError(fields, err)).Warn(msg)
}

func withError(fields logrus.Fields, err error) logrus.Fields {
	if fields == nil {
		fields = logrus.Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}
