package config

import (
	"github.com/greendilt/digicarbon/internal/logging"
)

// ToLoggingConfig converts the logging section for the logging package.
//
//   - Level, Format are copied directly
//   - If File is set, Output becomes "file"
//   - Otherwise Output is "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global logging section. Flag
// overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
