package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Log is the shared logger used throughout the backend.
var Log = log.Logger

func init() {
	Setup(strings.ToLower(os.Getenv("DEBUG")) == "true", os.Getenv("ENV"))
}

// Setup configures the global level and output format. Development builds log
// in human-readable form; any other environment gets JSON lines on stderr.
func Setup(debug bool, env string) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var out io.Writer = os.Stderr
	if env == "" || env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	Log = zerolog.New(out).With().Timestamp().Logger()
}
