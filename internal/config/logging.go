package config

import "github.com/rshade/contactdeck/internal/logging"

// ToLoggingConfig converts the logging section into a logging.Config.
//
// The conversion applies these rules:
//   - Level and Format are copied directly
//   - If File is set, Output becomes "file"
//   - If File is empty, Output defaults to "stderr"
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
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
