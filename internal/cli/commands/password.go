package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewPasswordCmd creates the password command group
func NewPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change, recover or reset your password",
	}

	cmd.AddCommand(newPasswordChangeCmd())
	cmd.AddCommand(newPasswordRecoverCmd())
	cmd.AddCommand(newPasswordResetCmd())

	return cmd
}

func newPasswordChangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "change",
		Short: "Change the password of the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPasswordChange()
		},
	}
}

func runPasswordChange() error {
	_, api, err := openSession()
	if err != nil {
		return err
	}
	if _, err := currentUser(); err != nil {
		return err
	}

	current, err := promptPassword("Current password")
	if err != nil {
		return err
	}

	newPassword, err := promptNewPassword()
	if err != nil {
		return err
	}

	if _, err := api.ChangePassword(current, newPassword); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	fmt.Println("✓ Password changed.")

	return nil
}

func newPasswordRecoverCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Request a password recovery code by email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPasswordRecover(email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address of the account")

	return cmd
}

func runPasswordRecover(email string) error {
	if email == "" {
		return fmt.Errorf("email is required (use --email flag)")
	}

	api, err := openAPI()
	if err != nil {
		return err
	}

	resp, err := api.RequestPasswordRecovery(email)
	if err != nil {
		return fmt.Errorf("failed to request password recovery: %w", err)
	}

	if !resp.Success {
		if resp.Message != "" {
			return fmt.Errorf("recovery request rejected: %s", resp.Message)
		}
		return fmt.Errorf("recovery request rejected")
	}

	fmt.Printf("✓ A recovery code has been sent to %s\n", email)
	fmt.Println("\nReset your password with: martillo password reset --code <code>")

	return nil
}

func newPasswordResetCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password using a recovery code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPasswordReset(code)
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Recovery code from the email")

	return cmd
}

func runPasswordReset(code string) error {
	if code == "" {
		return fmt.Errorf("recovery code is required (use --code flag)")
	}

	newPassword, err := promptNewPassword()
	if err != nil {
		return err
	}

	api, err := openAPI()
	if err != nil {
		return err
	}

	resp, err := api.ResetPassword(code, newPassword)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	if !resp.Success {
		if resp.Message != "" {
			return fmt.Errorf("password reset rejected: %s", resp.Message)
		}
		return fmt.Errorf("invalid or expired recovery code")
	}

	fmt.Println("✓ Password reset. Log in with your new password.")

	return nil
}

// promptNewPassword asks for the new password twice and checks the two
// entries match
func promptNewPassword() (string, error) {
	newPassword, err := promptPassword("New password")
	if err != nil {
		return "", err
	}

	confirm, err := promptPassword("Confirm new password")
	if err != nil {
		return "", err
	}

	if newPassword != confirm {
		return "", fmt.Errorf("passwords do not match")
	}

	return newPassword, nil
}
