package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/internal/ui"
	"github.com/spf13/cobra"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Show the viewport and nodes in a saved canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := canvas.LoadSnapshotFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ui.Banner(out, "snapshot")

			ui.Field(out, "File", args[0])
			ui.Field(out, "Version", s.Version)
			if s.Timestamp > 0 {
				ui.Field(out, "Saved", time.UnixMilli(s.Timestamp).UTC().Format(time.RFC3339))
			}
			ui.Field(out, "Viewport", canvas.FormatViewport(s.Viewport))
			ui.Field(out, "Nodes", strconv.Itoa(len(s.Nodes)))

			if b, ok := snapshotBounds(s.Nodes); ok {
				ui.Field(out, "Bounds", fmt.Sprintf("%s,%s to %s,%s",
					num(b.X), num(b.Y), num(b.X+b.Width), num(b.Y+b.Height)))
			}
			if len(s.Nodes) == 0 {
				return nil
			}

			fmt.Fprintln(out)
			rows := make([][]string, 0, len(s.Nodes))
			for _, n := range s.Nodes {
				rows = append(rows, []string{
					n.ID,
					string(n.Type),
					num(n.Position.X) + "," + num(n.Position.Y),
					num(n.Size.Width) + "x" + num(n.Size.Height),
					truncate(n.Content, 32),
				})
			}
			ui.Table(out, []string{"ID", "TYPE", "POSITION", "SIZE", "CONTENT"}, rows)
			return nil
		},
	}
}

func snapshotBounds(nodes []canvas.CanvasNode) (canvas.Rect, bool) {
	if len(nodes) == 0 {
		return canvas.Rect{}, false
	}
	r := nodes[0].Bounds()
	for _, n := range nodes[1:] {
		r = r.Union(n.Bounds())
	}
	return r, true
}

// num formats a coordinate without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
