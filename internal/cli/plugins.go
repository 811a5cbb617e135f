package cli

import (
	"log/slog"
	"strconv"

	"github.com/infinispace/canvas/config"
	"github.com/infinispace/canvas/host"
	"github.com/infinispace/canvas/internal/ui"
	"github.com/spf13/cobra"
)

func pluginsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the canvas layers and their config state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			reg := host.NewRegistry(slog.Default(), nil)

			entries := make(map[string]config.PluginEntry, len(cfg.Plugins))
			for _, p := range cfg.Plugins {
				entries[p.ID] = p
			}

			var rows [][]string
			for _, id := range reg.IDs() {
				p, err := reg.Create(id)
				if err != nil {
					return err
				}
				row := []string{id, p.Name(), p.Version(), "-", ""}
				if e, ok := entries[id]; ok {
					row[3] = ui.StatusIcon(e.Enabled)
					row[4] = strconv.Itoa(e.Priority)
				}
				rows = append(rows, row)
			}
			for _, p := range cfg.Plugins {
				if !reg.Has(p.ID) {
					rows = append(rows, []string{p.ID, ui.Warn.Sprint("not registered"), "", ui.StatusIcon(p.Enabled), strconv.Itoa(p.Priority)})
				}
			}

			out := cmd.OutOrStdout()
			ui.Banner(out, "plugins")
			ui.Table(out, []string{"ID", "NAME", "VERSION", "ENABLED", "PRIORITY"}, rows)
			return nil
		},
	}
}
