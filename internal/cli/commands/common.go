package commands

import (
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/martillo-dev/martillo/internal/cli/auth"
	"github.com/martillo-dev/martillo/internal/cli/client"
	"github.com/martillo-dev/martillo/internal/cli/config"
	"github.com/martillo-dev/martillo/internal/cli/session"
)

// openAPI loads the configuration and builds the API client backed by
// the default session record store. This is common logic used by most
// commands.
func openAPI() (*client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'martillo init' to create a configuration file", err)
	}

	store, err := auth.DefaultStore()
	if err != nil {
		return nil, err
	}

	return client.New(cfg.APIURL, store), nil
}

// openSession builds the API client plus the session context and
// installs the context process-wide. Commands that operate on the
// logged-in user go through here; afterwards session.Current() works
// anywhere.
func openSession() (*session.Context, *client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w\nRun 'martillo init' to create a configuration file", err)
	}

	store, err := auth.DefaultStore()
	if err != nil {
		return nil, nil, err
	}

	api := client.New(cfg.APIURL, store)
	ctx := session.New(api, store)
	session.Install(ctx)

	return ctx, api, nil
}

// currentUser returns the authenticated user from the installed session
// context, or an error telling the user to log in
func currentUser() (*auth.User, error) {
	sess := session.Current().Session()
	if !sess.IsAuthenticated {
		return nil, fmt.Errorf("not authenticated. Please run 'martillo login' first")
	}
	return sess.User, nil
}

// promptPassword reads a password from the terminal without echo.
// It fails in non-interactive mode so scripts get a clear error instead
// of a hang.
func promptPassword(label string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("%s is required in non-interactive mode", label)
	}

	fmt.Printf("%s: ", label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	fmt.Println() // New line after password input

	return string(bytePassword), nil
}
