package cmd

import (
	"fmt"
	"log/slog"

	"github.com/nfrund/biodex/internal/app"
	"github.com/nfrund/biodex/internal/config"
	"github.com/nfrund/biodex/internal/logging"
	"github.com/nfrund/biodex/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var file, author string

	c := &cobra.Command{
		Use:   "seed",
		Short: "Bulk-create species from a YAML file",
		Long: `Reads a YAML file of species and creates each one in the configured
store. Every entry is validated first; nothing is written if any entry is
invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			slog.SetDefault(logging.NewWithWriter(cmd.ErrOrStderr(), cfg.GetLogFormat(), cfg.GetLogLevel()))

			inputs, err := seed.Load(fs, file)
			if err != nil {
				return err
			}

			stores, err := app.OpenStores(ctx, cfg)
			if err != nil {
				return err
			}
			defer stores.Shutdown(ctx)

			n, err := seed.Run(ctx, stores.Species, author, inputs)
			slog.InfoContext(ctx, "Seeded species", "created", n, "file", file)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d species.\n", n)
			return nil
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "path to the YAML seed file")
	c.Flags().StringVarP(&author, "author", "a", "", "user ID recorded as the author of every species")
	_ = c.MarkFlagRequired("file")
	_ = c.MarkFlagRequired("author")
	return c
}
