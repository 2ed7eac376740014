package cmd

import (
	"fmt"

	"github.com/nfrund/biodex/internal/domain"
	"github.com/spf13/cobra"
)

func newKingdomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kingdoms",
		Short: "List the kingdoms a species can belong to",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range domain.Kingdoms() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
		},
	}
}
