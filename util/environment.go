package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

const (
	defaultStartingStack = 100
	defaultMaxOpenHands  = 64
	defaultUndoDepth     = 50
)

type recorderEnvironment struct {
	StartingStack string
	ChipUnit      string
	MaxOpenHands  string
	UndoDepth     string
	LogLevel      string
}

// Env is a helper object for accessing environment variables.
var Env = &recorderEnvironment{
	StartingStack: "STARTING_STACK",
	ChipUnit:      "CHIP_UNIT",
	MaxOpenHands:  "MAX_OPEN_HANDS",
	UndoDepth:     "UNDO_DEPTH",
	LogLevel:      "LOG_LEVEL",
}

func (r *recorderEnvironment) GetStartingStack() float64 {
	s := os.Getenv(r.StartingStack)
	if s == "" {
		return defaultStartingStack
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		msg := fmt.Sprintf("Invalid starting stack %s", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return v
}

func (r *recorderEnvironment) GetChipUnit() ChipUnit {
	s := os.Getenv(r.ChipUnit)
	unit, err := ParseChipUnit(s)
	if err != nil {
		environmentLogger.Error().Msg(err.Error())
		panic(err.Error())
	}
	return unit
}

func (r *recorderEnvironment) GetMaxOpenHands() int {
	return r.getPositiveInt(r.MaxOpenHands, defaultMaxOpenHands)
}

func (r *recorderEnvironment) GetUndoDepth() int {
	return r.getPositiveInt(r.UndoDepth, defaultUndoDepth)
}

func (r *recorderEnvironment) GetLogLevel() zerolog.Level {
	s := strings.ToLower(os.Getenv(r.LogLevel))
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		environmentLogger.Warn().Msgf("Invalid log level %s. Using info", s)
		return zerolog.InfoLevel
	}
	return level
}

func (r *recorderEnvironment) getPositiveInt(name string, def int) int {
	s := os.Getenv(name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		msg := fmt.Sprintf("Invalid %s %s", name, s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return v
}
