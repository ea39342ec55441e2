package main

import (
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the reciter catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCatalogue(cmd.Context(), cmd.OutOrStdout(), refresh)
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the catalogue cache")

	return cmd
}
