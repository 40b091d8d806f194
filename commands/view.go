package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"ribbons/alignment"
	"ribbons/state"
	"ribbons/viewer"
)

var errNoInput = errors.New("no alignment data file specified")

// loadInput reads the data file named by the first argument and resolves the
// sentence and layer flags.
func loadInput(cmd *cli.Command) (*alignment.AlignmentData, *alignment.SentencePair, alignment.Layer, error) {
	if cmd.NArg() == 0 {
		return nil, nil, alignment.Lexical, errNoInput
	}
	layer, err := alignment.ParseLayer(cmd.String("layer"))
	if err != nil {
		return nil, nil, layer, err
	}
	data, err := alignment.LoadFile(cmd.Args().Get(0))
	if err != nil {
		return nil, nil, layer, err
	}
	p, err := data.Find(cmd.String("sentence"))
	if err != nil {
		return nil, nil, layer, err
	}
	return data, p, layer, nil
}

func runView(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	data, p, layer, err := loadInput(cmd)
	if err != nil {
		return err
	}
	// the screen belongs to the viewer from here on
	if err := env.Relog(env.Cfg.Logging.Quiet()); err != nil {
		return fmt.Errorf("unable to prepare logs: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("unable to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("unable to initialize screen: %w", err)
	}
	defer screen.Fini()

	v, err := viewer.New(screen, data, env.Cfg, viewer.Options{
		Path:     cmd.Args().Get(0),
		Sentence: p.ID,
		Layer:    layer,
		Watch:    cmd.Bool("watch"),
	}, env.Log.Named("viewer"))
	if err != nil {
		return err
	}
	env.Log.Info("Viewer started", zap.String("file", cmd.Args().Get(0)), zap.String("sentence", p.ID),
		zap.Stringer("layer", layer), zap.Bool("watch", cmd.Bool("watch")))
	return v.Run(ctx)
}
