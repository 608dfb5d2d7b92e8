package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vantagedata/dashlayout/pkg/config"
	"github.com/vantagedata/dashlayout/pkg/store"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage persisted UI state",
	}

	cmd.AddCommand(c.storeClearCommand())
	cmd.AddCommand(c.storePathCommand())

	return cmd
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove persisted panel and sidebar widths",
		Long: `Remove persisted panel and sidebar widths.

For the file backend the whole store directory is emptied, including
layouts kept there by the "store" layouts backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Storage.Backend == config.StorageFile {
				fs, err := store.NewFileStore(c.Config.Storage.Dir)
				if err != nil {
					return fmt.Errorf("open store: %w", err)
				}
				if err := fs.Clear(); err != nil {
					return fmt.Errorf("clear store: %w", err)
				}
				printSuccess("Cleared store")
				printDetail("Directory: %s", fs.Dir())
				return nil
			}

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			keys := c.keyer()
			for _, key := range []string{keys.PanelWidthsKey(), keys.SidebarWidthKey()} {
				if err := s.Delete(cmd.Context(), key); err != nil {
					return fmt.Errorf("delete %s: %w", key, err)
				}
			}
			printSuccess("Cleared panel and sidebar widths")
			printDetail("Backend: %s", c.Config.Storage.Backend)
			return nil
		},
	}
}

// storePathCommand creates the "store path" subcommand.
func (c *CLI) storePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where UI state is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := c.Config.Storage
			switch sc.Backend {
			case config.StorageFile:
				fmt.Fprintln(stdout, sc.Dir)
			case config.StorageRedis:
				fmt.Fprintf(stdout, "redis://%s/%d\n", sc.RedisAddr, sc.RedisDB)
			default:
				fmt.Fprintln(stdout, sc.Backend)
			}
			return nil
		},
	}
}
