package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds environment-based settings.
type Config struct {
	DataDir       string
	ReferenceDir  string
	LogLevel      string
	SchemaVersion int
}

// CurrentSchemaVersion is the version this build of the console writes.
const CurrentSchemaVersion = 2

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	dataDir := os.Getenv("RETAILCAST_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	refDir := os.Getenv("RETAILCAST_REFERENCE_DIR")
	if refDir == "" {
		refDir = "./reference"
	}
	level := os.Getenv("RETAILCAST_LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	version := CurrentSchemaVersion
	if raw := os.Getenv("RETAILCAST_SCHEMA_VERSION"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn().Str("value", raw).Msg("ignoring malformed RETAILCAST_SCHEMA_VERSION")
		} else {
			version = v
		}
	}

	return &Config{
		DataDir:       dataDir,
		ReferenceDir:  refDir,
		LogLevel:      level,
		SchemaVersion: version,
	}, nil
}
