package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scorevault/internal/api"
	"scorevault/internal/ipc"
)

func newInstrumentCommand(ctx *commandContext) *cobra.Command {
	instrumentCmd := &cobra.Command{
		Use:   "instrument",
		Short: "Manage instruments",
	}

	createCmd := &cobra.Command{
		Use:   "create <part-id> <name>",
		Short: "Create an instrument within a part",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			partID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.InstrumentCreate(args[1], partID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created instrument %d (%s)\n", resp.Instrument.ID, resp.Instrument.Name)
				return nil
			})
		},
	}

	var listID, listPartID int64
	var listName string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List instruments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.InstrumentList(ipc.InstrumentListRequest{
					ID:     int64Filter(cmd, "id", &listID),
					Name:   stringFilter(cmd, "name", &listName),
					PartID: int64Filter(cmd, "part", &listPartID),
				})
				if err != nil {
					return err
				}
				printInstrumentTable(cmd, resp.Instruments)
				return nil
			})
		},
	}
	listCmd.Flags().Int64Var(&listID, "id", 0, "Filter by id")
	listCmd.Flags().StringVar(&listName, "name", "", "Filter by exact name")
	listCmd.Flags().Int64Var(&listPartID, "part", 0, "Filter by part id")

	updateCmd := &cobra.Command{
		Use:   "update <id> <part-id> <name>",
		Short: "Update an instrument",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			partID, err := parseID(args[1])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.InstrumentUpdate(id, args[2], partID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated instrument %d (%s)\n", resp.Instrument.ID, resp.Instrument.Name)
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an instrument",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.InstrumentDelete(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted instrument %d\n", id)
				return nil
			})
		},
	}

	instrumentCmd.AddCommand(createCmd)
	instrumentCmd.AddCommand(listCmd)
	instrumentCmd.AddCommand(updateCmd)
	instrumentCmd.AddCommand(deleteCmd)
	return instrumentCmd
}

func printInstrumentTable(cmd *cobra.Command, instruments []api.Instrument) {
	stdout := cmd.OutOrStdout()
	if len(instruments) == 0 {
		fmt.Fprintln(stdout, "No instruments found")
		return
	}
	rows := make([][]string, 0, len(instruments))
	for _, instrument := range instruments {
		rows = append(rows, []string{formatInt(instrument.ID), instrument.Name, formatInt(instrument.PartID)})
	}
	fmt.Fprintln(stdout, renderTable([]string{"ID", "Name", "Part"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight}))
}
