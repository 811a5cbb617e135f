package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/infinispace/canvas/internal/ui"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

const defaultConfigPath = "infinispace.toml"

// options shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the infinispace command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "infinispace",
		Short: "An infinite canvas you can pan, zoom and fill with nodes",
		Long: ui.Brand.Sprint(ui.Mark+" infinispace") + ": pan, zoom and arrange nodes on an infinite canvas\n" +
			ui.Subtle.Sprint("Open the canvas window, inspect saved canvases, and manage configuration"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	root.SetVersionTemplate("infinispace {{ .Version }}\n")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "Path to the TOML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	root.AddCommand(
		runCmd(opts),
		inspectCmd(),
		fitCmd(opts),
		configCmd(opts),
		pluginsCmd(opts),
	)
	return root
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q", s)
	}
	return level, nil
}

// Execute runs the root command and reports any error.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		ui.Bad.Fprintf(os.Stderr, "infinispace: %v\n", err)
	}
	return err
}
