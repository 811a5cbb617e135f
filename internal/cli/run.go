package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
	"github.com/infinispace/canvas/host"
	"github.com/spf13/cobra"
)

func runCmd(root *rootOptions) *cobra.Command {
	var (
		snapshotPath string
		scriptPath   string
		exportDir    string
		watch        bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the canvas window",
		Long: "Open the canvas window. The snapshot file is loaded at start if it exists,\n" +
			"otherwise the canvas starts with a few demo nodes. Ctrl+S saves to it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			opts := []host.Option{host.WithSnapshotPath(snapshotPath)}

			snap, haveSnap, err := readSnapshot(snapshotPath)
			if err != nil {
				return err
			}
			if !haveSnap {
				opts = append(opts, host.WithNodes(canvas.DemoNodes()))
			}

			if scriptPath != "" {
				data, err := os.ReadFile(scriptPath)
				if err != nil {
					return fmt.Errorf("read script: %w", err)
				}
				runner, err := canvas.LoadTestScript(data)
				if err != nil {
					return err
				}
				opts = append(opts, host.WithScript(runner, exportDir))
			}

			h, err := host.New(cfg, opts...)
			if err != nil {
				return err
			}
			if haveSnap {
				h.Engine().LoadState(snap)
			}

			if watch {
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				w, err := config.Watch(ctx, root.configPath, h.Reload)
				if err != nil {
					h.Dispose()
					return err
				}
				defer w.Close()
				slog.Info("watching config", "path", root.configPath)
			}
			return host.Run(h)
		},
	}
	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "canvas.json", "Snapshot file to load at start and save with Ctrl+S")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Drive the canvas from a JSON input script, then exit")
	cmd.Flags().StringVar(&exportDir, "export-dir", "", "Directory for the script's export snapshots")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the config file when it changes")
	return cmd
}

// readSnapshot loads path if it exists. A missing file is not an error.
func readSnapshot(path string) (canvas.Snapshot, bool, error) {
	if path == "" {
		return canvas.Snapshot{}, false, nil
	}
	s, err := canvas.LoadSnapshotFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return canvas.Snapshot{}, false, nil
	}
	if err != nil {
		return canvas.Snapshot{}, false, err
	}
	return s, true, nil
}
