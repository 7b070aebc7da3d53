package flags

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	LogLevels  = []string{"trace", "debug", "info", "warn", "error", "crit"}
	LogFormats = []string{"terminal", "logfmt", "json"}
)

// ParseLevel maps a level name to the geth slog level it selects.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	}
	return log.LevelInfo, fmt.Errorf("unknown log level: %s", name)
}

// NewLogger builds the process logger from the log.level and log.format
// flags and installs it as the geth default, so library code logging through
// log.Root() lands in the same stream.
func NewLogger(ctx *cli.Context) (log.Logger, error) {
	level, err := ParseLevel(ctx.String(LogLevelFlag.Name))
	if err != nil {
		return nil, err
	}
	var handler slog.Handler
	switch format := ctx.String(LogFormatFlag.Name); format {
	case "terminal":
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor())
	case "logfmt":
		handler = log.LogfmtHandlerWithLevel(os.Stderr, level)
	case "json":
		handler = log.JSONHandlerWithLevel(os.Stderr, level)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
	logger := log.NewLogger(handler)
	log.SetDefault(logger)
	return logger, nil
}

// useColor enables terminal colors only for an actual terminal, and honors
// the NO_COLOR convention.
func useColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
