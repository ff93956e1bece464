package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scorevault/internal/api"
	"scorevault/internal/ipc"
)

func newGroupCommand(ctx *commandContext) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage ensembles",
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.GroupCreate(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created group %d (%s)\n", resp.Group.ID, resp.Group.Name)
				return nil
			})
		},
	}

	var listID int64
	var listName string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.GroupList(ipc.GroupListRequest{
					ID:   int64Filter(cmd, "id", &listID),
					Name: stringFilter(cmd, "name", &listName),
				})
				if err != nil {
					return err
				}
				printGroupTable(cmd, resp.Groups)
				return nil
			})
		},
	}
	listCmd.Flags().Int64Var(&listID, "id", 0, "Filter by id")
	listCmd.Flags().StringVar(&listName, "name", "", "Filter by exact name")

	updateCmd := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Rename a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.GroupUpdate(id, args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated group %d (%s)\n", resp.Group.ID, resp.Group.Name)
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.GroupDelete(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %d\n", id)
				return nil
			})
		},
	}

	groupCmd.AddCommand(createCmd)
	groupCmd.AddCommand(listCmd)
	groupCmd.AddCommand(updateCmd)
	groupCmd.AddCommand(deleteCmd)
	groupCmd.AddCommand(newGroupLinkCommand(ctx, "attach-piece", "Attach a piece to a group", true,
		func(client *ipc.Client, groupID, targetID int64) error {
			return client.GroupAttachPiece(groupID, targetID)
		}))
	groupCmd.AddCommand(newGroupLinkCommand(ctx, "detach-piece", "Detach a piece from a group", false,
		func(client *ipc.Client, groupID, targetID int64) error {
			return client.GroupDetachPiece(groupID, targetID)
		}))
	groupCmd.AddCommand(newGroupLinkCommand(ctx, "attach-event", "Attach an event to a group", true,
		func(client *ipc.Client, groupID, targetID int64) error {
			return client.GroupAttachEvent(groupID, targetID)
		}))
	groupCmd.AddCommand(newGroupLinkCommand(ctx, "detach-event", "Detach an event from a group", false,
		func(client *ipc.Client, groupID, targetID int64) error {
			return client.GroupDetachEvent(groupID, targetID)
		}))
	return groupCmd
}

func newGroupLinkCommand(ctx *commandContext, use, short string, attach bool, call func(*ipc.Client, int64, int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <group-id> <target-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID, err := parseID(args[0])
			if err != nil {
				return err
			}
			targetID, err := parseID(args[1])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if err := call(client, groupID, targetID); err != nil {
					return err
				}
				verb := "Detached"
				if attach {
					verb = "Attached"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d for group %d\n", verb, targetID, groupID)
				return nil
			})
		},
	}
}

func printGroupTable(cmd *cobra.Command, groups []api.Group) {
	stdout := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintln(stdout, "No groups found")
		return
	}
	rows := make([][]string, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, []string{formatInt(group.ID), group.Name})
	}
	fmt.Fprintln(stdout, renderTable([]string{"ID", "Name"}, rows, []columnAlignment{alignRight, alignLeft}))
}
