// Package internal holds the process-level plumbing shared by the
// binaries: environment configuration and logger construction.
package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080" validate:"gt=0,lte=65535"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true" validate:"required"`
	BlugeFilepath        string        `env:"BLUGE_FILEPATH,required=true" validate:"required"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64" validate:"gt=0"`
	HistoryLimit         int           `env:"HISTORY_LIMIT,default=50" validate:"gt=0"`
	GCInterval           time.Duration `env:"GC_INTERVAL,default=5m" validate:"gt=0"`
	StatsInterval        time.Duration `env:"STATS_INTERVAL,default=15s" validate:"gt=0"`
	EnableModeration     bool          `env:"ENABLE_MODERATION,default=true"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
}

var validate = validator.New()

func (c Config) Validate() error {
	return validate.Struct(c)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
