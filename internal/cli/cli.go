package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/graphview/internal/app"
	"github.com/specialistvlad/graphview/internal/nodeid"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("graphview", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
GraphView - Browse the phases of a compiler graph dump.

Usage:
  graphview [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Optional .hcl file or directory with viewer settings and filters.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the settings file or directory.")
	cFlag := flagSet.String("c", "", "Path to the settings file or directory (shorthand).")
	phasesFlag := flagSet.Int("phases", 8, "Number of phases to generate.")
	nodesFlag := flagSet.Int("nodes", 12, "Number of nodes in the first phase.")
	seedFlag := flagSet.Int64("seed", 1, "Seed of the sample generator.")
	dupRateFlag := flagSet.Float64("duplicate-rate", 0.2, "Probability that a phase repeats its predecessor.")
	hideDupFlag := flagSet.Bool("hide-duplicates", false, "Hide phases flagged as duplicates.")
	selectFlag := flagSet.Int("select", 0, "Index of the phase to display.")
	diffFlag := flagSet.Int("diff", app.NoDiff, "Index of a phase to compare the selected one with. -1 disables the comparison.")
	selectNodesFlag := flagSet.String("select-nodes", "", "Comma separated node ids to track across phases, e.g. '1,4'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *configFlag != "" {
		path = *configFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Config path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	selection, err := nodeid.ParseList(*selectNodesFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid select-nodes: %v", err)}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfigPath:     path,
		Phases:         *phasesFlag,
		NodeCount:      *nodesFlag,
		Seed:           *seedFlag,
		DuplicateRate:  *dupRateFlag,
		HideDuplicates: *hideDupFlag,
		Select:         *selectFlag,
		Diff:           *diffFlag,
		Selection:      selection,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
