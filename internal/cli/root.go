package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martillo-dev/martillo/internal/cli/commands"
	"github.com/martillo-dev/martillo/internal/logger"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "martillo",
	Short: "Martillo - Command-line client for the Martillo auction platform",
	Long: `Martillo CLI - Bid, sell and manage your account from the terminal.

The session established by 'martillo login' is stored locally and used
by every other command until 'martillo logout'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init()
	},
}

func init() {
	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("martillo version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewConfirmCmd())
	rootCmd.AddCommand(commands.NewPasswordCmd())
	rootCmd.AddCommand(commands.NewProfileCmd())
	rootCmd.AddCommand(commands.NewActivitiesCmd())
	rootCmd.AddCommand(commands.NewAuctionsCmd())
	rootCmd.AddCommand(commands.NewBidCmd())
	rootCmd.AddCommand(commands.NewDemoServerCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
