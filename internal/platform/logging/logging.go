// Package logging configures the shared structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger writing to w at the given level.
//
// Level accepts the standard zerolog names (debug, info, warn, error); an
// empty level defaults to info.
func New(w io.Writer, service string, level string) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	parsed := zerolog.InfoLevel
	if trimmed := strings.TrimSpace(level); trimmed != "" {
		var err error
		parsed, err = zerolog.ParseLevel(strings.ToLower(trimmed))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", level, err)
		}
	}

	logger := zerolog.New(w).Level(parsed).With().Timestamp()
	if service = strings.TrimSpace(service); service != "" {
		logger = logger.Str("service", service)
	}
	return logger.Logger(), nil
}
