package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"coursemetrics/internal/config"
	"coursemetrics/internal/curriculum"
)

func newCurriculumCommand(ctx *commandContext) *cobra.Command {
	curriculumCmd := &cobra.Command{
		Use:   "curriculum",
		Short: "Course structure utilities",
	}
	curriculumCmd.AddCommand(newCurriculumFetchCommand(ctx))
	curriculumCmd.AddCommand(newCurriculumShowCommand())
	return curriculumCmd
}

func newCurriculumFetchCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "fetch <course-id>",
		Short: "Download module and item structure from Canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.canvasClient()
			if err != nil {
				return err
			}
			defer client.Close()

			items, err := client.Curriculum(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch curriculum: %w", err)
			}

			if strings.TrimSpace(outPath) != "" {
				target, err := config.ExpandPath(outPath)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				if err := curriculum.Save(target, items); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d items to %s\n", len(items), target)
				return nil
			}
			if asJSON {
				return writeJSON(cmd, items)
			}
			return curriculum.WriteCSV(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the structure to this CSV or JSON file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of CSV")
	return cmd
}

func newCurriculumShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show <file>",
		Short:       "Print a curriculum file as a table",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := curriculum.Load(args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				rows = append(rows, []string{
					it.ModuleName,
					strconv.Itoa(it.ModulePosition),
					it.Title,
					strconv.Itoa(it.ItemPosition),
					it.ItemType,
				})
			}
			headers := []string{"Module", "Pos", "Title", "Item", "Type"}
			aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}
