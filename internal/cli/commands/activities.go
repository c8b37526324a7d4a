package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewActivitiesCmd creates the activities command
func NewActivitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activities",
		Short: "List activity across all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActivities()
		},
	}
}

func runActivities() error {
	api, err := openAPI()
	if err != nil {
		return err
	}

	activities, err := api.GetAllActivities()
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
