package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami()
		},
	}
}

func runWhoami() error {
	ctx, _, err := openSession()
	if err != nil {
		return err
	}

	sess := ctx.Session()
	if !sess.IsAuthenticated {
		fmt.Println("Not logged in.")
		fmt.Println("\nLog in with: martillo login --email <email>")
		return nil
	}

	fmt.Printf("Logged in as %s (%s)\n", sess.User.Name, sess.User.Email)
	fmt.Printf("  User ID: %s\n", sess.User.ID)

	return nil
}
