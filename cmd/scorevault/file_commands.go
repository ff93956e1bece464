package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"scorevault/internal/api"
	"scorevault/internal/ipc"
)

func newFileCommand(ctx *commandContext) *cobra.Command {
	fileCmd := &cobra.Command{
		Use:   "file",
		Short: "Manage sheet-music files",
	}

	var uploadName string
	var uploadType int
	var uploadInstrumentations []int64
	var uploadTransposeFrom int64
	uploadCmd := &cobra.Command{
		Use:   "upload <path>...",
		Short: "Upload files as one all-or-nothing batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(uploadInstrumentations) == 0 {
				return fmt.Errorf("at least one --instrumentation is required")
			}
			if uploadName != "" && len(args) > 1 {
				return fmt.Errorf("--name applies to a single file; omit it to derive names from filenames")
			}

			uploads := make([]ipc.FileUpload, 0, len(args))
			var total uint64
			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				base := filepath.Base(path)
				name := uploadName
				if name == "" {
					name = strings.TrimSuffix(base, filepath.Ext(base))
				}
				uploads = append(uploads, ipc.FileUpload{
					Name:               name,
					Type:               uploadType,
					OriginalFilename:   base,
					Content:            content,
					InstrumentationIDs: uploadInstrumentations,
					TransposeFrom:      uploadTransposeFrom,
				})
				total += uint64(len(content))
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.FileUpload(uploads)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Uploaded %d file(s), %s\n", len(resp.Files), humanize.Bytes(total))
				printFileTable(cmd, resp.Files)
				return nil
			})
		},
	}
	uploadCmd.Flags().StringVar(&uploadName, "name", "", "Logical file name (defaults to the filename without extension)")
	uploadCmd.Flags().IntVar(&uploadType, "type", 0, "File type")
	uploadCmd.Flags().Int64SliceVar(&uploadInstrumentations, "instrumentation", nil, "Instrumentation id to link (repeatable)")
	uploadCmd.Flags().Int64Var(&uploadTransposeFrom, "transpose-from", 0, "Source instrument id when the file is a transposed part")

	var listHash, listName, listFormat, listFilename string
	var listType int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.FileList(ipc.FileListRequest{
					HashID:   stringFilter(cmd, "hash", &listHash),
					Name:     stringFilter(cmd, "name", &listName),
					Format:   stringFilter(cmd, "format", &listFormat),
					Filename: stringFilter(cmd, "filename", &listFilename),
					Type:     intFilter(cmd, "type", &listType),
				})
				if err != nil {
					return err
				}
				printFileTable(cmd, resp.Files)
				return nil
			})
		},
	}
	listCmd.Flags().StringVar(&listHash, "hash", "", "Filter by hash id")
	listCmd.Flags().StringVar(&listName, "name", "", "Filter by exact name")
	listCmd.Flags().StringVar(&listFormat, "format", "", "Filter by format")
	listCmd.Flags().StringVar(&listFilename, "filename", "", "Filter by stored filename")
	listCmd.Flags().IntVar(&listType, "type", 0, "Filter by file type")

	showCmd := &cobra.Command{
		Use:   "show <hash>",
		Short: "Show one file's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.FileGet(args[0])
				if err != nil {
					return err
				}
				printFileDetail(cmd, resp.File)
				return nil
			})
		},
	}

	var downloadOutput string
	downloadCmd := &cobra.Command{
		Use:   "download <hash>",
		Short: "Download a file's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.FileDownload(args[0])
				if err != nil {
					return err
				}
				target := strings.TrimSpace(downloadOutput)
				if target == "" {
					target = resp.File.Filename
				}
				if err := os.WriteFile(target, resp.Content, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", target, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", target, humanize.Bytes(uint64(len(resp.Content))))
				return nil
			})
		},
	}
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Destination path (defaults to the stored filename)")

	deleteCmd := &cobra.Command{
		Use:   "delete <hash>...",
		Short: "Delete files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.FileDelete(args); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d file(s)\n", len(args))
				return nil
			})
		},
	}

	fileCmd.AddCommand(uploadCmd)
	fileCmd.AddCommand(listCmd)
	fileCmd.AddCommand(showCmd)
	fileCmd.AddCommand(downloadCmd)
	fileCmd.AddCommand(deleteCmd)
	return fileCmd
}

func printFileTable(cmd *cobra.Command, files []api.File) {
	stdout := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(stdout, "No files found")
		return
	}
	rows := make([][]string, 0, len(files))
	for _, file := range files {
		rows = append(rows, []string{file.HashID, file.Name, file.Format, file.Filename})
	}
	fmt.Fprintln(stdout, renderTable([]string{"Hash", "Name", "Format", "Filename"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}))
}

func printFileDetail(cmd *cobra.Command, file api.File) {
	stdout := cmd.OutOrStdout()
	fmt.Fprintf(stdout, "Hash:     %s\n", file.HashID)
	fmt.Fprintf(stdout, "Name:     %s\n", file.Name)
	fmt.Fprintf(stdout, "Type:     %d\n", file.Type)
	fmt.Fprintf(stdout, "Format:   %s\n", file.Format)
	fmt.Fprintf(stdout, "Filename: %s\n", file.Filename)
	if file.CreatedAt != "" {
		fmt.Fprintf(stdout, "Created:  %s\n", file.CreatedAt)
	}
	if file.Transpose != nil {
		fmt.Fprintf(stdout, "Transposed from instrument %d\n", file.Transpose.InstrumentID)
	}
}
