package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the auction platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(name, email, password)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name, e.g. \"Ada Lovelace\"")
	cmd.Flags().StringVar(&email, "email", "", "Email address (or set MARTILLO_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set MARTILLO_PASSWORD, will prompt if not provided)")

	return cmd
}

func runRegister(name, email, password string) error {
	if email == "" {
		email = os.Getenv("MARTILLO_EMAIL")
	}
	if password == "" {
		password = os.Getenv("MARTILLO_PASSWORD")
	}

	if name == "" {
		return fmt.Errorf("name is required (use --name flag)")
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

		confirm, err := promptPassword("Confirm password")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	ctx, _, err := openSession()
	if err != nil {
		return err
	}

	fmt.Println("Creating account...")

	if !ctx.Register(name, email, password) {
		return fmt.Errorf("registration failed. Please try again")
	}

	sess := ctx.Session()
	fmt.Println("✓ Account created and logged in!")
	fmt.Printf("  User: %s (%s)\n", sess.User.Name, sess.User.Email)
	fmt.Println("\nA confirmation code has been sent to your email.")
	fmt.Println("Confirm your account with: martillo confirm <code>")

	return nil
}
