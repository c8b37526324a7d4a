package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the auction platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set MARTILLO_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set MARTILLO_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("MARTILLO_EMAIL")
	}
	if password == "" {
		password = os.Getenv("MARTILLO_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or MARTILLO_EMAIL env var)")
	}

	if password == "" {
		var err error
		password, err = promptPassword("Password")
		if err != nil {
			return err
		}
	}

	ctx, _, err := openSession()
	if err != nil {
		return err
	}

	fmt.Println("Logging in...")

	if !ctx.Login(email, password) {
		return fmt.Errorf("login failed. Check your credentials and try again")
	}

	sess := ctx.Session()
	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", sess.User.Name, sess.User.Email)

	return nil
}
