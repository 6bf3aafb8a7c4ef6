package telemetry

import (
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimestampFieldName = "ts"
	zerolog.MessageFieldName = "msg"
	zerolog.TimeFieldFormat = time.RFC3339
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write(zerolog.InfoLevel, msg, fields)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	write(zerolog.WarnLevel, msg, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	write(zerolog.ErrorLevel, msg, fields)
}

// os.Stdout is resolved per call so tests can redirect it.
func write(level zerolog.Level, msg string, fields map[string]any) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	event := logger.WithLevel(level)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := fields[k].(type) {
		case error:
			event = event.AnErr(k, v)
		default:
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
}
