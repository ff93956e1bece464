package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scorevault/internal/api"
	"scorevault/internal/ipc"
)

func newEventCommand(ctx *commandContext) *cobra.Command {
	eventCmd := &cobra.Command{
		Use:   "event",
		Short: "Manage events and their programs",
	}

	var createPieces []int64
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.EventCreate(ipc.EventRequest{
					Name:    args[0],
					Program: buildProgram(createPieces),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created event %d (%s)\n", resp.Event.ID, resp.Event.Name)
				return nil
			})
		},
	}
	createCmd.Flags().Int64SliceVar(&createPieces, "piece", nil, "Piece id in program order (repeatable)")

	var listID int64
	var listName string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.EventList(ipc.EventListRequest{
					ID:   int64Filter(cmd, "id", &listID),
					Name: stringFilter(cmd, "name", &listName),
				})
				if err != nil {
					return err
				}
				printEventTable(cmd, resp.Events)
				return nil
			})
		},
	}
	listCmd.Flags().Int64Var(&listID, "id", 0, "Filter by id")
	listCmd.Flags().StringVar(&listName, "name", "", "Filter by exact name")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one event with its program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.EventGet(id)
				if err != nil {
					return err
				}
				printEventDetail(cmd, resp.Event)
				return nil
			})
		},
	}

	var updatePieces []int64
	updateCmd := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Rename an event and optionally replace its program",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req := ipc.EventRequest{ID: id, Name: args[1]}
			if cmd.Flags().Changed("piece") {
				req.Program = buildProgram(updatePieces)
				req.SetProgram = true
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.EventUpdate(req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated event %d (%s)\n", resp.Event.ID, resp.Event.Name)
				return nil
			})
		},
	}
	updateCmd.Flags().Int64SliceVar(&updatePieces, "piece", nil, "Replacement program piece id (repeatable, order preserved)")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event (pieces are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.EventDelete(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted event %d\n", id)
				return nil
			})
		},
	}

	eventCmd.AddCommand(createCmd)
	eventCmd.AddCommand(listCmd)
	eventCmd.AddCommand(showCmd)
	eventCmd.AddCommand(updateCmd)
	eventCmd.AddCommand(deleteCmd)
	return eventCmd
}

// buildProgram assigns positions from argument order, starting at 1.
func buildProgram(pieceIDs []int64) []api.ProgramEntry {
	if len(pieceIDs) == 0 {
		return nil
	}
	program := make([]api.ProgramEntry, 0, len(pieceIDs))
	for i, pieceID := range pieceIDs {
		program = append(program, api.ProgramEntry{PieceID: pieceID, Position: i + 1})
	}
	return program
}

func printEventTable(cmd *cobra.Command, events []api.Event) {
	stdout := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(stdout, "No events found")
		return
	}
	rows := make([][]string, 0, len(events))
	for _, event := range events {
		rows = append(rows, []string{formatInt(event.ID), event.Name, fmt.Sprintf("%d", len(event.Program))})
	}
	fmt.Fprintln(stdout, renderTable([]string{"ID", "Name", "Pieces"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight}))
}

func printEventDetail(cmd *cobra.Command, event api.Event) {
	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "Event: %d\n", event.ID)
	fmt.Fprintf(stdout, "Name:  %s\n", event.Name)

	if len(event.Program) > 0 {
		rows := make([][]string, 0, len(event.Program))
		for _, entry := range event.Program {
			rows = append(rows, []string{fmt.Sprintf("%d", entry.Position), formatInt(entry.PieceID)})
		}
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, renderTable([]string{"Position", "Piece"}, rows,
			[]columnAlignment{alignRight, alignRight}))
	}
	if len(event.Groups) > 0 {
		rows := make([][]string, 0, len(event.Groups))
		for _, group := range event.Groups {
			rows = append(rows, []string{formatInt(group.ID), group.Name})
		}
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, renderTable([]string{"Group", "Name"}, rows,
			[]columnAlignment{alignRight, alignLeft}))
	}
}
