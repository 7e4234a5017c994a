package logging

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logrus instance
var Logger = logrus.New()
var once sync.Once

// LineFormatter writes one "key: value" line per entry
type LineFormatter struct {
	SystemName string
}

// Format renders a log entry as a single line
func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
	b.WriteString(fmt.Sprintf(" [%s] %s: %s", strings.ToUpper(entry.Level.String()), f.SystemName, entry.Message))

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(" %s=%v", k, entry.Data[k]))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// InitLogger configures the global logger. An empty file logs to stdout,
// anything else is rotated through lumberjack.
func InitLogger(level, file string) {
	once.Do(func() {
		if file != "" {
			Logger.SetOutput(&lumberjack.Logger{
				Filename:   file,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		} else {
			Logger.SetOutput(os.Stdout)
		}

		Logger.SetFormatter(&LineFormatter{SystemName: "taskboard"})

		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			parsed = logrus.InfoLevel
		}
		Logger.SetLevel(parsed)

		Logger.WithField("level", parsed.String()).Info("logger initialized")
	})
}
