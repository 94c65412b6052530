package util

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var (
	Logger zerolog.Logger
)

func LogInit(inlevel string) {
	LogInitTo(os.Stderr, inlevel)
}

// LogInitTo points the console logger at out. Color is only used on stderr.
func LogInitTo(out io.Writer, inlevel string) {
	var level zerolog.Level
	switch strings.ToLower(inlevel) {
	case "debug":
		level = zerolog.DebugLevel
	case "trace":
		level = zerolog.TraceLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	Logger = zerolog.New(
		zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: out != os.Stderr},
	).Level(level).With().Timestamp().Caller().Logger()

	Logger.Debug().Msgf("logging initialized at level %v", level)
}
