package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/sarchlab/rvsim/config"
	"github.com/sarchlab/rvsim/loader"
)

const (
	ConfigFlagName    = "config"
	FormatFlagName    = "format"
	MaxCyclesFlagName = "max-cycles"
	TraceFlagName     = "trace"
	ColorFlagName     = "color"
	DCacheFlagName    = "dcache"
	RegsFlagName      = "regs"
	LogLevelFlagName  = "log.level"
	JSONFlagName      = "json"
)

var configFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    ConfigFlagName,
		Usage:   "YAML configuration file",
		EnvVars: []string{"RVSIM_CONFIG"},
	},
	&cli.StringFlag{
		Name:  FormatFlagName,
		Usage: "Program format: hex, bin, elf or auto",
		Value: string(loader.FormatAuto),
	},
	&cli.Uint64Flag{
		Name:  MaxCyclesFlagName,
		Usage: "Stop after this many cycles (0 = no limit)",
	},
	&cli.BoolFlag{
		Name:  TraceFlagName,
		Usage: "Print every cycle's stage outputs",
	},
	&cli.BoolFlag{
		Name:  ColorFlagName,
		Usage: "Color the trace output",
	},
	&cli.BoolFlag{
		Name:  DCacheFlagName,
		Usage: "Route data accesses through the data cache",
	},
}

var runFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  RegsFlagName,
		Usage: "Print the register file after the run",
	},
	&cli.StringFlag{
		Name:    LogLevelFlagName,
		Usage:   "Log level: trace, debug, info, warn, error or crit",
		Value:   "warn",
		EnvVars: []string{"RVSIM_LOG_LEVEL"},
	},
}

var benchFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:  DCacheFlagName,
		Usage: "Route data accesses through the data cache",
	},
	&cli.BoolFlag{
		Name:  JSONFlagName,
		Usage: "Output results as JSON",
	},
}

// loadConfig reads the config file, if any, and applies flags set on the
// command line on top of it.
func loadConfig(cliCtx *cli.Context) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path := cliCtx.String(ConfigFlagName); path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	if cliCtx.IsSet(MaxCyclesFlagName) {
		cfg.MaxCycles = cliCtx.Uint64(MaxCyclesFlagName)
	}
	if cliCtx.IsSet(TraceFlagName) {
		cfg.Trace = cliCtx.Bool(TraceFlagName)
	}
	if cliCtx.IsSet(ColorFlagName) {
		cfg.Color = cliCtx.Bool(ColorFlagName)
	}
	if cliCtx.IsSet(DCacheFlagName) {
		cfg.DataCache.Enabled = cliCtx.Bool(DCacheFlagName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func newLogger(cliCtx *cli.Context) (log.Logger, error) {
	lvl, err := log.LvlFromString(cliCtx.String(LogLevelFlagName))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(cliCtx.App.ErrWriter, lvl, false)), nil
}

func loadProgram(cliCtx *cli.Context, cfg *config.Config) (*loader.Program, error) {
	if cliCtx.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one program file, got %d arguments", cliCtx.NArg())
	}

	format, err := loader.ParseFormat(cliCtx.String(FormatFlagName))
	if err != nil {
		return nil, err
	}

	return loader.Load(cliCtx.Args().First(), format, cfg.InstructionMemorySize)
}
