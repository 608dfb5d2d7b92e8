package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vantagedata/dashlayout/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or initialize the configuration file",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.Config.Encode()
			if err != nil {
				return err
			}
			_, err = stdout.Write(data)
			return err
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var (
		output string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = filepath.Join(configDir(), "config.toml")
			}
			if _, err := os.Stat(output); err == nil && !force {
				printWarning("%s already exists", output)
				printNextStep("Overwrite", "dashlayout config init --force")
				return nil
			}

			data, err := config.Default().Encode()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			printSuccess("Configuration written")
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: config dir)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
