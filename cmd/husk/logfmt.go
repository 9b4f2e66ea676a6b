package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const reset = "\033[0m"

const (
	cyan        = 36
	lightGray   = 37
	darkGray    = 90
	lightRed    = 91
	lightYellow = 93
)

func colorize(colorCode int, v string) string {
	return fmt.Sprintf("\033[%dm%s%s", colorCode, v, reset)
}

// logFormatter renders one JSON slog record the way `husk logs` prints it:
// local timestamp, colorized level, message, then the remaining attrs as
// compact JSON (dimmed so the message stays readable).
type logFormatter struct {
	colorize bool
}

func (f *logFormatter) Format(line string) (string, error) {
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return "", err
	}

	levelName, ok := rec[slog.LevelKey].(string)
	if !ok {
		return "", fmt.Errorf("level is not a string")
	}
	var levelColor int
	switch strings.ToUpper(levelName) {
	case "DEBUG":
		levelColor = lightGray
	case "INFO":
		levelColor = cyan
	case "WARN":
		levelColor = lightYellow
	case "ERROR":
		levelColor = lightRed
	default:
		return "", fmt.Errorf("unknown level name %q", levelName)
	}
	level := levelName + ":"
	if f.colorize {
		level = colorize(levelColor, level)
	}

	var timestamp string
	if raw, ok := rec[slog.TimeKey].(string); ok {
		ts, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			timestamp = raw
		} else {
			timestamp = ts.Local().Format(time.DateTime)
		}
	}

	msg, _ := rec[slog.MessageKey].(string)

	delete(rec, slog.LevelKey)
	delete(rec, slog.TimeKey)
	delete(rec, slog.MessageKey)

	out := strings.Builder{}
	if timestamp != "" {
		out.WriteString(timestamp)
		out.WriteString(" ")
	}
	out.WriteString(level)
	if msg != "" {
		out.WriteString(" ")
		out.WriteString(msg)
	}
	if len(rec) > 0 {
		attrs, err := json.Marshal(rec)
		if err != nil {
			return "", fmt.Errorf("error when marshaling attrs: %w", err)
		}
		out.WriteString(" ")
		if f.colorize {
			out.WriteString(colorize(darkGray, string(attrs)))
		} else {
			out.WriteString(string(attrs))
		}
	}
	return out.String(), nil
}
