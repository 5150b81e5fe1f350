package aio

import (
	"io"

	"github.com/rs/zerolog/log"
)

// Close closes the given closer and logs any close error instead of
// returning it. Meant for defer statements on read paths where a close
// failure must not overwrite the actual result.
func Close(toClose io.Closer) {
	if err := toClose.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close resource")
	}
}
