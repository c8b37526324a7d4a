package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martillo-dev/martillo/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var apiURL, alias string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a martillo.json configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(apiURL, alias)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "", "Auction API origin, e.g. https://api.example.com")
	cmd.Flags().StringVar(&alias, "alias", "", "Optional display name for this environment")

	return cmd
}

func runInit(apiURL, alias string) error {
	if apiURL == "" {
		return fmt.Errorf("api-url is required (use --api-url flag)")
	}

	if _, err := os.Stat(config.ConfigFileName); err == nil {
		return fmt.Errorf("%s already exists in this directory", config.ConfigFileName)
	}

	cfg := &config.Config{
		APIURL: apiURL,
		Alias:  alias,
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Created %s\n", config.ConfigFileName)
	fmt.Println("\nNext steps:")
	fmt.Println("  martillo register --name \"Your Name\" --email you@example.com")
	fmt.Println("  martillo login --email you@example.com")

	return nil
}
