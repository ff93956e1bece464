package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scorevault/internal/ipc"
)

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show library totals and paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Info()
				if err != nil {
					return err
				}

				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Library:  %s\n", resp.Info.LibraryDir)
				fmt.Fprintf(stdout, "Database: %s\n", resp.Info.DatabasePath)

				rows := make([][]string, 0, len(resp.Info.Counts))
				for _, entity := range []string{"groups", "parts", "instruments", "pieces", "events", "files"} {
					if count, ok := resp.Info.Counts[entity]; ok {
						rows = append(rows, []string{entity, strconv.FormatInt(count, 10)})
					}
				}
				if len(rows) > 0 {
					fmt.Fprintln(stdout)
					fmt.Fprintln(stdout, renderTable([]string{"Entity", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				}

				if len(resp.Info.Groups) > 0 {
					rows = rows[:0]
					for _, group := range resp.Info.Groups {
						rows = append(rows, []string{formatInt(group.ID), group.Name})
					}
					fmt.Fprintln(stdout)
					fmt.Fprintln(stdout, renderTable([]string{"ID", "Group"}, rows, []columnAlignment{alignRight, alignLeft}))
				}
				if len(resp.Info.Parts) > 0 {
					rows = rows[:0]
					for _, part := range resp.Info.Parts {
						rows = append(rows, []string{formatInt(part.ID), part.Name, formatInt(part.GroupID)})
					}
					fmt.Fprintln(stdout)
					fmt.Fprintln(stdout, renderTable([]string{"ID", "Part", "Group"}, rows,
						[]columnAlignment{alignRight, alignLeft, alignRight}))
				}
				if len(resp.Info.Instruments) > 0 {
					rows = rows[:0]
					for _, instrument := range resp.Info.Instruments {
						rows = append(rows, []string{formatInt(instrument.ID), instrument.Name, formatInt(instrument.PartID)})
					}
					fmt.Fprintln(stdout)
					fmt.Fprintln(stdout, renderTable([]string{"ID", "Instrument", "Part"}, rows,
						[]columnAlignment{alignRight, alignLeft, alignRight}))
				}
				return nil
			})
		},
	}
}
