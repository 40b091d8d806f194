// Package commands implements the command line interface.
package commands

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"ribbons/alignment"
	"ribbons/config"
	"ribbons/export"
	"ribbons/state"
)

// Version is set at build time.
var Version = "dev"

const appName = "ribbons"

// initializeAppContext prepares application context before command execution
// but after command line has been parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	cfg, err := config.LoadConfiguration(configFile)
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	env.Cfg = cfg
	env.Debug = cmd.Bool("debug")
	if err := env.Relog(cfg.Logging); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", Version), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	_ = env.Log.Sync()
	return nil
}

// ErrWasHandled reports whether the last error was already logged.
var ErrWasHandled bool

// exitErrHandler logs an error returned by a subcommand once. It runs
// before the application context is destroyed.
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Cfg != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		ErrWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// reported either by exitErrHandler or on exit directly to stderr
	return err
}

func layerNames() string {
	names := make([]string, 0, len(alignment.Layers()))
	for _, l := range alignment.Layers() {
		names = append(names, l.String())
	}
	return strings.Join(names, ", ")
}

func formatNames() string {
	names := make([]string, 0, len(export.GetAvailableFormats()))
	for _, f := range export.GetAvailableFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func sentenceFlag() cli.Flag {
	return &cli.StringFlag{Name: "sentence", Aliases: []string{"s"}, Usage: "sentence `ID` to show, first sentence when absent"}
}

func layerFlag() cli.Flag {
	return &cli.StringFlag{Name: "layer", Aliases: []string{"l"}, Value: alignment.Lexical.String(),
		Usage: "alignment `LAYER` (" + layerNames() + ")"}
}

// NewApp returns the root command.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:            appName,
		Usage:           "interactive viewer for word alignments between sentence pairs",
		Version:         Version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log everything at debug level"},
		},
		Commands: []*cli.Command{
			{
				Name:         "view",
				Usage:        "Shows alignment ribbons in the terminal",
				OnUsageError: usageErrorHandler,
				Action:       runView,
				ArgsUsage:    "FILE",
				Flags: []cli.Flag{
					sentenceFlag(),
					layerFlag(),
					&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "reload when FILE changes"},
				},
			},
			{
				Name:         "export",
				Usage:        "Renders one sentence pair to a file",
				OnUsageError: usageErrorHandler,
				Action:       runExport,
				ArgsUsage:    "FILE",
				Flags: []cli.Flag{
					sentenceFlag(),
					layerFlag(),
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(export.FormatSVG),
						Usage: "output `FORMAT` (" + formatNames() + ")"},
					&cli.DurationFlag{Name: "at", Value: defaultCaptureAt,
						Usage: "capture the state this long after the first render"},
					&cli.StringFlag{Name: "hover", Usage: "hover token `REF` (s:ID or t:ID)"},
					&cli.StringFlag{Name: "pin", Usage: "pin token `REF` (s:ID or t:ID)"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "destination `FILE`, '-' for STDOUT"},
				},
				CustomHelpTemplate: fmt.Sprintf(`%s
Without --hover or --pin the capture shows the intro sequence at --at.
When --output is absent text formats go to STDOUT and PNG to a file named
after the sentence and layer.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "validate",
				Usage:        "Checks alignment data for broken references",
				OnUsageError: usageErrorHandler,
				Action:       runValidate,
				ArgsUsage:    "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "any-lang", Usage: "accept any language code"},
				},
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
		},
	}
}

// Run executes the program and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	ErrWasHandled = false
	err := NewApp().Run(state.ContextWithEnv(ctx), args)
	if err == nil {
		return 0
	}
	// the log may not be set up yet (argument parsing)
	if !ErrWasHandled {
		fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
	}
	return 1
}
