package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scorevault/internal/ipc"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Daemon control",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				printDaemonStatus(cmd, status)
				return nil
			})
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the scorevault daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Shutdown(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopping")
				return nil
			})
		},
	}

	daemonCmd.AddCommand(statusCmd)
	daemonCmd.AddCommand(stopCmd)
	return daemonCmd
}

func printDaemonStatus(cmd *cobra.Command, status *ipc.StatusResponse) {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	state := "stopped"
	if status.Running {
		state = "running"
	}
	fmt.Fprintf(stdout, "Daemon:   %s\n", colorizeStatus(state, status.Running, colorize))
	if status.PID > 0 {
		fmt.Fprintf(stdout, "PID:      %d\n", status.PID)
	}
	fmt.Fprintf(stdout, "Socket:   %s\n", status.SocketPath)
	fmt.Fprintf(stdout, "Database: %s\n", status.DatabasePath)
	fmt.Fprintf(stdout, "Library:  %s\n", status.LibraryDir)

	rows := make([][]string, 0, len(status.Counts))
	for _, entity := range []string{"groups", "parts", "instruments", "pieces", "events", "files"} {
		if count, ok := status.Counts[entity]; ok {
			rows = append(rows, []string{entity, strconv.FormatInt(count, 10)})
		}
	}
	if len(rows) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, renderTable([]string{"Entity", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
	}
}
