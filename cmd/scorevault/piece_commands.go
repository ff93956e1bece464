package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scorevault/internal/api"
	"scorevault/internal/ipc"
)

func newPieceCommand(ctx *commandContext) *cobra.Command {
	pieceCmd := &cobra.Command{
		Use:   "piece",
		Short: "Manage pieces and their library directories",
	}

	var createReq ipc.PieceRequest
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a piece and provision its directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			createReq.Name = args[0]
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PieceCreate(createReq)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created piece %d (%s)\n", resp.Piece.ID, resp.Piece.Name)
				return nil
			})
		},
	}
	addPieceFlags(createCmd, &createReq)

	var listName, listAuthor, listLyricist, listArranger string
	var listID, listOpus int64
	var listType int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List pieces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PieceList(ipc.PieceListRequest{
					ID:       int64Filter(cmd, "id", &listID),
					Name:     stringFilter(cmd, "name", &listName),
					Author:   stringFilter(cmd, "author", &listAuthor),
					Lyricist: stringFilter(cmd, "lyricist", &listLyricist),
					Arranger: stringFilter(cmd, "arranger", &listArranger),
					Opus:     int64Filter(cmd, "opus", &listOpus),
					Type:     intFilter(cmd, "type", &listType),
				})
				if err != nil {
					return err
				}
				printPieceTable(cmd, resp.Pieces)
				return nil
			})
		},
	}
	listCmd.Flags().Int64Var(&listID, "id", 0, "Filter by id")
	listCmd.Flags().StringVar(&listName, "name", "", "Filter by exact name")
	listCmd.Flags().StringVar(&listAuthor, "author", "", "Filter by author")
	listCmd.Flags().StringVar(&listLyricist, "lyricist", "", "Filter by lyricist")
	listCmd.Flags().StringVar(&listArranger, "arranger", "", "Filter by arranger")
	listCmd.Flags().Int64Var(&listOpus, "opus", 0, "Filter by opus number")
	listCmd.Flags().IntVar(&listType, "type", 0, "Filter by piece type")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one piece with groups and instrumentations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PieceGet(id)
				if err != nil {
					return err
				}
				printPieceDetail(cmd, resp.Piece)
				return nil
			})
		},
	}

	var updateReq ipc.PieceRequest
	updateCmd := &cobra.Command{
		Use:   "update <id> <name>",
		Short: "Update a piece, renaming its directory when the name changed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			updateReq.ID = id
			updateReq.Name = args[1]
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PieceUpdate(updateReq)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated piece %d (%s)\n", resp.Piece.ID, resp.Piece.Name)
				return nil
			})
		},
	}
	addPieceFlags(updateCmd, &updateReq)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete pieces and their directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.PieceDelete(ids); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d piece(s)\n", len(ids))
				return nil
			})
		},
	}

	scoreCmd := &cobra.Command{
		Use:   "score <piece-id> <instrument-id>",
		Short: "Score a piece for an instrument",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pieceID, err := parseID(args[0])
			if err != nil {
				return err
			}
			instrumentID, err := parseID(args[1])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.InstrumentationAdd(pieceID, instrumentID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added instrumentation %d\n", resp.Instrumentation.ID)
				return nil
			})
		},
	}

	unscoreCmd := &cobra.Command{
		Use:   "unscore <instrumentation-id>",
		Short: "Remove an instrumentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.InstrumentationRemove(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed instrumentation %d\n", id)
				return nil
			})
		},
	}

	pieceCmd.AddCommand(createCmd)
	pieceCmd.AddCommand(listCmd)
	pieceCmd.AddCommand(showCmd)
	pieceCmd.AddCommand(updateCmd)
	pieceCmd.AddCommand(deleteCmd)
	pieceCmd.AddCommand(scoreCmd)
	pieceCmd.AddCommand(unscoreCmd)
	return pieceCmd
}

func addPieceFlags(cmd *cobra.Command, req *ipc.PieceRequest) {
	cmd.Flags().StringVar(&req.Author, "author", "", "Composer name")
	cmd.Flags().StringVar(&req.Lyricist, "lyricist", "", "Lyricist name")
	cmd.Flags().StringVar(&req.Arranger, "arranger", "", "Arranger name")
	cmd.Flags().Int64Var(&req.Opus, "opus", 0, "Opus number")
	cmd.Flags().IntVar(&req.Type, "type", 0, "Piece type")
	cmd.Flags().StringVar(&req.CopyrightExpireDate, "copyright-expire", "", "Copyright expiry date (YYYY-MM-DD)")
	cmd.Flags().Int64SliceVar(&req.GroupIDs, "group", nil, "Group id to link (repeatable)")
	cmd.Flags().Int64SliceVar(&req.InstrumentIDs, "instrument", nil, "Instrument id to score for (repeatable)")
}

func printPieceTable(cmd *cobra.Command, pieces []api.Piece) {
	stdout := cmd.OutOrStdout()
	if len(pieces) == 0 {
		fmt.Fprintln(stdout, "No pieces found")
		return
	}
	rows := make([][]string, 0, len(pieces))
	for _, piece := range pieces {
		opus := ""
		if piece.Opus != 0 {
			opus = formatInt(piece.Opus)
		}
		rows = append(rows, []string{formatInt(piece.ID), piece.Name, piece.Author, opus})
	}
	fmt.Fprintln(stdout, renderTable([]string{"ID", "Name", "Author", "Opus"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight}))
}

func printPieceDetail(cmd *cobra.Command, piece api.Piece) {
	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "Piece:    %d\n", piece.ID)
	fmt.Fprintf(stdout, "Name:     %s\n", piece.Name)
	if piece.Author != "" {
		fmt.Fprintf(stdout, "Author:   %s\n", piece.Author)
	}
	if piece.Lyricist != "" {
		fmt.Fprintf(stdout, "Lyricist: %s\n", piece.Lyricist)
	}
	if piece.Arranger != "" {
		fmt.Fprintf(stdout, "Arranger: %s\n", piece.Arranger)
	}
	if piece.Opus != 0 {
		fmt.Fprintf(stdout, "Opus:     %d\n", piece.Opus)
	}
	if piece.CopyrightExpire != "" {
		fmt.Fprintf(stdout, "Copyright expires: %s\n", piece.CopyrightExpire)
	}
	if piece.CreatedAt != "" {
		fmt.Fprintf(stdout, "Created:  %s\n", piece.CreatedAt)
	}

	if len(piece.Groups) > 0 {
		names := make([]string, 0, len(piece.Groups))
		for _, group := range piece.Groups {
			names = append(names, fmt.Sprintf("%s (%d)", group.Name, group.ID))
		}
		fmt.Fprintf(stdout, "Groups:   %s\n", strings.Join(names, ", "))
	}
	if len(piece.Instrumentations) > 0 {
		rows := make([][]string, 0, len(piece.Instrumentations))
		for _, scored := range piece.Instrumentations {
			rows = append(rows, []string{formatInt(scored.ID), formatInt(scored.InstrumentID)})
		}
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, renderTable([]string{"Instrumentation", "Instrument"}, rows,
			[]columnAlignment{alignRight, alignRight}))
	}
}
