package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/martillo-dev/martillo/internal/cli/client"
)

// NewProfileCmd creates the profile command group
func NewProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and update user profiles",
	}

	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileUpdateCmd())
	cmd.AddCommand(newProfileHistoryCmd())

	return cmd
}

func newProfileShowCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a user profile (defaults to the logged-in user)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileShow(userID)
		},
	}

	cmd.Flags().StringVar(&userID, "id", "", "User ID (defaults to the logged-in user)")

	return cmd
}

func runProfileShow(userID string) error {
	_, api, err := openSession()
	if err != nil {
		return err
	}

	if userID == "" {
		user, err := currentUser()
		if err != nil {
			return err
		}
		userID = user.ID
	}

	profile, err := api.GetProfile(userID)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", profile.FirstName, profile.LastName)
	fmt.Printf("  Email:   %s\n", profile.Email)
	if profile.PhoneNumber != "" {
		fmt.Printf("  Phone:   %s\n", profile.PhoneNumber)
	}
	if profile.Address != "" {
		fmt.Printf("  Address: %s\n", profile.Address)
	}
	fmt.Printf("  ID:      %s\n", profile.ID)

	return nil
}

func newProfileUpdateCmd() *cobra.Command {
	var update client.ProfileUpdate

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields of the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileUpdate(update)
		},
	}

	cmd.Flags().StringVar(&update.FirstName, "first-name", "", "New first name")
	cmd.Flags().StringVar(&update.LastName, "last-name", "", "New last name")
	cmd.Flags().StringVar(&update.PhoneNumber, "phone", "", "New phone number")
	cmd.Flags().StringVar(&update.Address, "address", "", "New address")

	return cmd
}

func runProfileUpdate(update client.ProfileUpdate) error {
	if update == (client.ProfileUpdate{}) {
		return fmt.Errorf("nothing to update (set at least one of --first-name, --last-name, --phone, --address)")
	}

	_, api, err := openSession()
	if err != nil {
		return err
	}

	user, err := currentUser()
	if err != nil {
		return err
	}

	if _, err := api.UpdateProfile(user.ID, update); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	fmt.Println("✓ Profile updated.")

	return nil
}

func newProfileHistoryCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a user's activity history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileHistory(userID)
		},
	}

	cmd.Flags().StringVar(&userID, "id", "", "User ID (defaults to the logged-in user)")

	return cmd
}

func runProfileHistory(userID string) error {
	_, api, err := openSession()
	if err != nil {
		return err
	}

	if userID == "" {
		user, err := currentUser()
		if err != nil {
			return err
		}
		userID = user.ID
	}

	activities, err := api.GetUserHistory(userID)
	if err != nil {
		return err
	}

	if len(activities) == 0 {
		fmt.Println("No activity yet.")
		return nil
	}

	printActivities(activities)

	return nil
}

// printActivities renders activity entries as a table
func printActivities(activities []client.UserActivity) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tDESCRIPTION")
	fmt.Fprintln(w, "────\t────\t───────────")

	for _, activity := range activities {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			activity.Date,
			activity.Type,
			activity.Description,
		)
	}

	w.Flush()
}
