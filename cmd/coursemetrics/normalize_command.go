package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"coursemetrics/internal/textutil"
)

func newNormalizeCommand() *cobra.Command {
	var against string

	cmd := &cobra.Command{
		Use:         "normalize <title>...",
		Short:       "Show the normalized match key for titles",
		Long:        "Prints each title's normalized key. With --against, also prints the token-set similarity score (0-100) used by fuzzy matching.",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			headers := []string{"Title", "Key"}
			aligns := []columnAlignment{alignLeft, alignLeft}
			if against != "" {
				headers = append(headers, "Score")
				aligns = append(aligns, alignRight)
			}
			againstKey := textutil.NormalizeTitle(against)

			rows := make([][]string, 0, len(args))
			for _, title := range args {
				key := textutil.NormalizeTitle(title)
				row := []string{title, key}
				if against != "" {
					row = append(row, strconv.FormatFloat(textutil.TokenSetScore(key, againstKey), 'f', 1, 64))
				}
				rows = append(rows, row)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().StringVar(&against, "against", "", "Score every title against this one")
	return cmd
}
