package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"ribbons/alignment"
	"ribbons/export"
	"ribbons/state"
)

// writeOutput writes data to the named file, or to w when name is empty. It
// returns the name used for logging.
func writeOutput(w io.Writer, name string, data []byte) (_ string, err error) {
	if name == "" {
		if _, err := w.Write(data); err != nil {
			return "STDOUT", fmt.Errorf("unable to write STDOUT: %w", err)
		}
		return "STDOUT", nil
	}
	f, err := os.Create(name)
	if err != nil {
		return name, fmt.Errorf("unable to create destination file '%s': %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close '%s': %w", name, cerr))
		}
	}()
	if _, err := f.Write(data); err != nil {
		return name, fmt.Errorf("unable to write '%s': %w", name, err)
	}
	return name, nil
}

// defaultCaptureAt is long enough for any intro to have finished.
const defaultCaptureAt = 10 * time.Second

func tokenFlag(cmd *cli.Command, name string) (*alignment.TokenRef, error) {
	v := cmd.String(name)
	if v == "" {
		return nil, nil
	}
	ref, err := alignment.ParseTokenRef(v)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &ref, nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	_, p, layer, err := loadInput(cmd)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	replay := export.Replay{At: cmd.Duration("at")}
	if replay.Hover, err = tokenFlag(cmd, "hover"); err != nil {
		return err
	}
	if replay.Pin, err = tokenFlag(cmd, "pin"); err != nil {
		return err
	}

	doc, err := export.Capture(p, layer, replay, env.Cfg.Style(layer), env.Log)
	if err != nil {
		return err
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}
	data, err := exporter.Export(doc)
	if err != nil {
		return fmt.Errorf("unable to export %s: %w", exporter.GetFormatName(), err)
	}

	dest := cmd.String("output")
	if dest == "" && format == export.FormatPNG {
		dest = export.FileName(doc, exporter)
	}
	if dest == "-" {
		dest = ""
	}
	if dest, err = writeOutput(cmd.Root().Writer, dest, data); err != nil {
		return err
	}
	env.Log.Info("Exported", zap.String("sentence", p.ID), zap.Stringer("layer", layer),
		zap.String("format", exporter.GetFormatName()), zap.Stringer("phase", doc.Snapshot.Phase), zap.String("file", dest))
	return nil
}
