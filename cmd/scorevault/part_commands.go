package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scorevault/internal/api"
	"scorevault/internal/ipc"
)

func newPartCommand(ctx *commandContext) *cobra.Command {
	partCmd := &cobra.Command{
		Use:   "part",
		Short: "Manage group sections",
	}

	createCmd := &cobra.Command{
		Use:   "create <group-id> <name>",
		Short: "Create a part within a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PartCreate(args[1], groupID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created part %d (%s)\n", resp.Part.ID, resp.Part.Name)
				return nil
			})
		},
	}

	var listID, listGroupID int64
	var listName string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List parts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PartList(ipc.PartListRequest{
					ID:      int64Filter(cmd, "id", &listID),
					Name:    stringFilter(cmd, "name", &listName),
					GroupID: int64Filter(cmd, "group", &listGroupID),
				})
				if err != nil {
					return err
				}
				printPartTable(cmd, resp.Parts)
				return nil
			})
		},
	}
	listCmd.Flags().Int64Var(&listID, "id", 0, "Filter by id")
	listCmd.Flags().StringVar(&listName, "name", "", "Filter by exact name")
	listCmd.Flags().Int64Var(&listGroupID, "group", 0, "Filter by group id")

	updateCmd := &cobra.Command{
		Use:   "update <id> <group-id> <name>",
		Short: "Update a part",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			groupID, err := parseID(args[1])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PartUpdate(id, args[2], groupID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated part %d (%s)\n", resp.Part.ID, resp.Part.Name)
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a part",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.PartDelete(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted part %d\n", id)
				return nil
			})
		},
	}

	partCmd.AddCommand(createCmd)
	partCmd.AddCommand(listCmd)
	partCmd.AddCommand(updateCmd)
	partCmd.AddCommand(deleteCmd)
	return partCmd
}

func printPartTable(cmd *cobra.Command, parts []api.Part) {
	stdout := cmd.OutOrStdout()
	if len(parts) == 0 {
		fmt.Fprintln(stdout, "No parts found")
		return
	}
	rows := make([][]string, 0, len(parts))
	for _, part := range parts {
		rows = append(rows, []string{formatInt(part.ID), part.Name, formatInt(part.GroupID)})
	}
	fmt.Fprintln(stdout, renderTable([]string{"ID", "Name", "Group"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight}))
}
