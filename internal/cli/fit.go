package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
	"github.com/infinispace/canvas/internal/ui"
	"github.com/spf13/cobra"
)

var errNothingToFit = errors.New("nothing to fit: snapshot has no nodes or the screen is too small")

type fitOptions struct {
	width, height float64
	padding       float64
	write         bool
}

func fitCmd(root *rootOptions) *cobra.Command {
	opts := fitOptions{}
	cmd := &cobra.Command{
		Use:   "fit <snapshot>",
		Short: "Compute the viewport that fits every node on a screen",
		Long: "Compute the viewport that fits every node of a saved canvas on a screen\n" +
			"of the given size. With --write the snapshot is updated in place.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("padding") {
				opts.padding = cfg.Viewport.Behaviors.FitPadding
			}
			s, err := canvas.LoadSnapshotFile(args[0])
			if err != nil {
				return err
			}

			vp, err := fitSnapshot(s, cfg.Constraints(), opts)
			if err != nil {
				return err
			}
			printFit(cmd.OutOrStdout(), s.Viewport, vp)

			if !opts.write {
				return nil
			}
			s.Viewport = vp
			if err := canvas.SaveSnapshotFile(args[0], s); err != nil {
				return err
			}
			ui.Good.Fprintf(cmd.OutOrStdout(), "  %s wrote %s\n", ui.StatusIcon(true), args[0])
			return nil
		},
	}
	cmd.Flags().Float64Var(&opts.width, "width", 1280, "Screen width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 720, "Screen height in pixels")
	cmd.Flags().Float64Var(&opts.padding, "padding", 50, "Padding around the content in pixels")
	cmd.Flags().BoolVar(&opts.write, "write", false, "Save the fitted viewport back to the snapshot")
	return cmd
}

// fitSnapshot runs zoom-to-fit on a headless engine and settles the
// animation in a single frame.
func fitSnapshot(s canvas.Snapshot, constraints canvas.ViewportConstraints, opts fitOptions) (canvas.Viewport, error) {
	start := time.Unix(0, 0)
	sched := canvas.NewManualScheduler()
	e := canvas.NewEngine(s.Viewport, constraints,
		canvas.WithLogger(slog.Default()),
		canvas.WithClock(func() time.Time { return start }),
		canvas.WithScheduler(sched),
		canvas.WithScreenSize(canvas.Size{Width: opts.width, Height: opts.height}),
	)
	defer e.Dispose()

	e.LoadState(s)
	if !e.ZoomToFit(opts.padding, time.Millisecond) {
		return canvas.Viewport{}, errNothingToFit
	}
	sched.Advance(start.Add(time.Second))
	return e.Viewport(), nil
}

func printFit(w io.Writer, before, after canvas.Viewport) {
	ui.Banner(w, "fit")
	ui.Field(w, "Before", canvas.FormatViewport(before))
	ui.Field(w, "After", canvas.FormatViewport(after))
	ui.Field(w, "Zoom", canvas.ZoomPercent(after.Zoom))
	fmt.Fprintln(w)
}
