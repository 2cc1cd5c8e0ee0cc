package logging

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Setup replaces the global logger. Unknown or empty levels mean info.
func Setup(w io.Writer, level string) {
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.000"
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	log.Logger = zerolog.New(w).Level(lvl).With().Timestamp().Caller().Logger()

	if err != nil {
		log.Warn().Msgf("Unknown log level [%s], using %s", level, lvl)
	}
}
