package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const confirmationCodeLength = 6

// NewConfirmCmd creates the confirm command
func NewConfirmCmd() *cobra.Command {
	var resend bool
	var email string

	cmd := &cobra.Command{
		Use:   "confirm [code]",
		Short: "Confirm your account with the emailed code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if resend {
				return runResendConfirmation(email)
			}
			if len(args) != 1 {
				return fmt.Errorf("confirmation code is required (or use --resend to request a new one)")
			}
			return runConfirm(args[0])
		},
	}

	cmd.Flags().BoolVar(&resend, "resend", false, "Re-send the confirmation code instead of confirming")
	cmd.Flags().StringVar(&email, "email", "", "Email to re-send the code to (defaults to the logged-in user)")

	return cmd
}

func runConfirm(code string) error {
	if len(code) != confirmationCodeLength {
		return fmt.Errorf("the confirmation code must be %d characters", confirmationCodeLength)
	}

	api, err := openAPI()
	if err != nil {
		return err
	}

	resp, err := api.ConfirmAccount(code)
	if err != nil {
		return fmt.Errorf("failed to confirm account: %w", err)
	}

	if !resp.Success {
		return fmt.Errorf("invalid or expired confirmation code")
	}

	fmt.Println("✓ Account confirmed! You can now use the platform.")

	return nil
}

// runResendConfirmation asks the backend to email a fresh code. The
// platform has no dedicated resend endpoint; the password-recovery
// request re-sends the confirmation code for unconfirmed accounts.
func runResendConfirmation(email string) error {
	if email == "" {
		_, _, err := openSession()
		if err != nil {
			return err
		}
		user, err := currentUser()
		if err != nil {
			return fmt.Errorf("email is required (use --email flag or log in first)")
		}
		email = user.Email
	}

	api, err := openAPI()
	if err != nil {
		return err
	}

	if _, err := api.RequestPasswordRecovery(email); err != nil {
		return fmt.Errorf("failed to re-send confirmation code: %w", err)
	}

	fmt.Printf("✓ A new code has been sent to %s\n", email)

	return nil
}
