package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scorevault/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = config.DefaultPath()
			}
			if err := config.WriteSample(target); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set identity.salt before starting the daemon.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:         "show",
		Short:       "Show the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolved, found, err := config.Load(configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if found {
				fmt.Fprintf(out, "Config file:   %s\n", resolved)
			} else {
				fmt.Fprintf(out, "Config file:   %s (not found, using defaults)\n", resolved)
			}
			fmt.Fprintf(out, "Library dir:   %s\n", cfg.LibraryDir)
			fmt.Fprintf(out, "Database path: %s\n", cfg.DatabasePath)
			fmt.Fprintf(out, "Log dir:       %s\n", cfg.LogDir)
			fmt.Fprintf(out, "Socket path:   %s\n", cfg.SocketPath)
			fmt.Fprintf(out, "Log level:     %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "Log format:    %s\n", cfg.Logging.Format)
			if strings.TrimSpace(cfg.Identity.Salt) == "" {
				fmt.Fprintln(out, "Identity salt: (unset)")
			} else {
				fmt.Fprintln(out, "Identity salt: (set)")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "path", "p", "", "Configuration file to inspect")
	return cmd
}
