package commands

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"ribbons/alignment"
	"ribbons/config"
	"ribbons/state"
	"ribbons/validation"
)

func runValidate(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.NArg() == 0 {
		return errNoInput
	}
	data, err := alignment.LoadFile(cmd.Args().Get(0))
	if err != nil {
		return err
	}

	var opts []func(*validation.PairValidator)
	if cmd.Bool("any-lang") {
		opts = append(opts, validation.WithoutLangCheck())
	}
	issues := validation.Issues(validation.ValidateData(data, opts...))
	out := cmd.Root().Writer
	for _, issue := range issues {
		fmt.Fprintln(out, issue.Error())
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d issue(s) found in %d sentence(s)", len(issues), len(data.Sentences))
	}
	env.Log.Info("Alignment data is valid", zap.String("file", cmd.Args().Get(0)), zap.Int("sentences", len(data.Sentences)))
	return nil
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err  error
		data []byte
		kind string
	)

	if cmd.Bool("default") {
		kind = "default"
		data = config.Default()
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if fname, err = writeOutput(cmd.Root().Writer, fname, data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	env.Log.Debug("Output configuration", zap.String("state", kind), zap.String("file", fname))
	return nil
}
