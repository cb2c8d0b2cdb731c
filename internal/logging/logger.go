package logging

import (
	"io"
	"os"
	"strings"

	"github.com/2beens/gymvariations/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger. The returned func closes the
// log file, if one is used.
func Setup(params LoggerSetupParams) func() {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))
	logrus.AddHook(NewStaticFieldsHook(logrus.Fields{
		"service": params.SentryServerName,
		"env":     params.Environment,
	}))

	if params.SentryEnabled {
		setupSentry(params)
	}

	if params.LogFileName == "" {
		logrus.SetOutput(os.Stdout)
		logrus.Println("writing logs only to STDOUT")
		return func() {}
	}

	fileWriter := newFileWriter(params.LogFileName)
	var out io.Writer = fileWriter
	if params.LogToStdout {
		logrus.Println("writing logs to file and STDOUT")
		out = pkg.NewCombinedWriter(os.Stdout, fileWriter)
	}
	logrus.SetOutput(out)

	return func() {
		if err := fileWriter.Close(); err != nil {
			logrus.Errorf("close log file: %s", err)
		}
	}
}

func setupSentry(params LoggerSetupParams) {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("sentry set up successfully")
}

func newFileWriter(fileName string) *lumberjack.Logger {
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}
	return &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    50, // megabytes
		MaxBackups: 10,
		LocalTime:  false,
		Compress:   true,
	}
}

// GetLevel parses level, falling back to trace for anything unknown.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.TraceLevel
	}
	return parsed
}

// StaticFieldsHook adds the same fields to every entry that does not set them itself.
type StaticFieldsHook struct {
	fields logrus.Fields
}

func NewStaticFieldsHook(fields logrus.Fields) *StaticFieldsHook {
	return &StaticFieldsHook{fields: fields}
}

func (h *StaticFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *StaticFieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if v == "" {
			continue
		}
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}
