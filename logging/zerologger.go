package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	HandIDKey   string = "handID"
	ActionIDKey string = "actionID"
	RoundKey    string = "round"
	PositionKey string = "position"
	ScriptKey   string = "script"
)

func getEnableColorLog() string {
	v := os.Getenv("COLORIZE_LOG")
	if v == "" {
		// Use colorized logging by default.
		return "true"
	}
	return v
}

func IsColorLoggingEnabled() bool {
	return getEnableColorLog() == "1" || strings.ToLower(getEnableColorLog()) == "true"
}

func GetZeroLogger(name string, out io.Writer) *zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	noColor := !IsColorLoggingEnabled()
	output := zerolog.ConsoleWriter{Out: out, NoColor: noColor, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Str("logger", name).Logger()
	return &logger
}

// NopLogger discards everything. Used when a caller does not supply a logger.
func NopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// HandLogger returns a child logger tagged with the hand id.
func HandLogger(base *zerolog.Logger, handID string) zerolog.Logger {
	if base == nil {
		base = NopLogger()
	}
	return base.With().Str(HandIDKey, handID).Logger()
}
