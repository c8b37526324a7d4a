package commands

import (
	"github.com/spf13/cobra"

	"github.com/martillo-dev/martillo/internal/logger"
	"github.com/martillo-dev/martillo/internal/mockapi"
)

// NewDemoServerCmd creates the demo-server command
func NewDemoServerCmd() *cobra.Command {
	var addr, dbPath string

	cmd := &cobra.Command{
		Use:   "demo-server",
		Short: "Run a local stand-in for the auction platform",
		Long: `Run a local stand-in for the auction platform, serving the same API
the CLI talks to. Confirmation and recovery "emails" are printed as log
lines carrying the code.

Point the CLI at it with: martillo init --api-url http://localhost:5187`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemoServer(addr, dbPath)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":5187", "Address to listen on")
	cmd.Flags().StringVar(&dbPath, "db", "martillo-demo.sqlite", "SQLite database path")

	return cmd
}

func runDemoServer(addr, dbPath string) error {
	server, err := mockapi.New(mockapi.Options{DBPath: dbPath}, logger.GetLogger())
	if err != nil {
		return err
	}

	return server.Run(addr)
}
