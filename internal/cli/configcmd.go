package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/infinispace/canvas/config"
	"github.com/infinispace/canvas/internal/ui"
	"github.com/spf13/cobra"
)

func configCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the TOML config file",
	}
	cmd.AddCommand(configInitCmd(root), configShowCmd(root), configValidateCmd(root))
	return cmd
}

func configInitCmd(root *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			ui.Good.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", ui.StatusIcon(true), path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}

func configShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config (file over defaults)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func configValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config file and list every problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := root.configPath
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			cfg := config.Default()
			if err := config.Decode(data, cfg); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			problems := unjoin(cfg.Validate())
			if len(problems) == 0 {
				fmt.Fprintf(out, "%s %s is valid\n", ui.StatusIcon(true), path)
				return nil
			}
			for _, p := range problems {
				fmt.Fprintf(out, "%s %s\n", ui.StatusIcon(false), p)
			}
			return fmt.Errorf("%s: %d problem(s)", path, len(problems))
		},
	}
}

// unjoin splits an errors.Join result back into its parts.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
