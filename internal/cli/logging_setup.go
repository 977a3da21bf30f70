package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/contactdeck/internal/logging"
)

// setupLogging configures logging from the resolved config and CLI flags.
// Interactive commands never log to the terminal: without a usable log file
// their logs are discarded.
func setupLogging(cmd *cobra.Command, opts *rootOptions) logging.LogPathResult {
	loggingCfg := opts.cfg.Logging.ToLoggingConfig()

	interactive := isInteractive(cmd)
	if opts.debug {
		loggingCfg.Level = "debug"
		if !interactive {
			loggingCfg.Format = logging.FormatConsole
		}
	}
	if interactive {
		loggingCfg.Fallback = logging.OutputDiscard
		if loggingCfg.Output == logging.OutputStderr {
			loggingCfg.Output = logging.OutputDiscard
		}
	}

	if loggingCfg.Output == logging.OutputFile {
		if err := opts.cfg.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	} else if result.UsingFile && opts.debug {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).
		Str("command", cmd.Name()).
		Str("config", opts.configPath).
		Msg("command started")

	return result
}

// cleanupLogging closes the log file handle. The package logger is reset
// first so nothing writes to the closed file afterwards.
func cleanupLogging(cmd *cobra.Command, logResult *logging.LogPathResult) error {
	logger.Info().Ctx(cmd.Context()).Str("command", cmd.Name()).Msg("command finished")
	logger = zerolog.Nop()
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
