package commands

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martillo-dev/martillo/internal/cli/auth"
)

// setupTestEnvironment points the CLI at a fake home directory and the
// given API server, so the session record lands in a temp dir
func setupTestEnvironment(t *testing.T, apiURL string) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MARTILLO_API_URL", apiURL)
	t.Setenv("MARTILLO_EMAIL", "")
	t.Setenv("MARTILLO_PASSWORD", "")
	t.Chdir(t.TempDir())

	return filepath.Join(home, ".config", "martillo", "session.json")
}

// mockAPIServer answers the login endpoint for one known user
func mockAPIServer(t *testing.T, email, password, token string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if req.Username != email || req.Password != password {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "invalid credentials"}`))
			return
		}

		json.NewEncoder(w).Encode(map[string]string{
			"token":    token,
			"userId":   "user-123",
			"userName": "Test User",
		})
	}))
}

func TestLoginCommand_SuccessfulLogin(t *testing.T) {
	server := mockAPIServer(t, "test@example.com", "password123", "test-token-abc")
	defer server.Close()

	recordPath := setupTestEnvironment(t, server.URL)

	require.NoError(t, runLogin("test@example.com", "password123"))

	// The session record is in place for the next invocation
	sess, err := auth.NewStore(recordPath).Load()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.True(t, sess.IsAuthenticated)
	assert.Equal(t, "test-token-abc", sess.Credential)
	assert.Equal(t, "test@example.com", sess.User.Email)
}

func TestLoginCommand_WrongPassword(t *testing.T) {
	server := mockAPIServer(t, "test@example.com", "password123", "test-token-abc")
	defer server.Close()

	recordPath := setupTestEnvironment(t, server.URL)

	err := runLogin("test@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login failed")

	_, statErr := os.Stat(recordPath)
	assert.True(t, os.IsNotExist(statErr), "failed login must not leave a record")
}

func TestLoginCommand_MissingEmail(t *testing.T) {
	setupTestEnvironment(t, "http://unused")

	err := runLogin("", "password123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is required")
}

func TestLoginCommand_EmailFromEnv(t *testing.T) {
	server := mockAPIServer(t, "env@example.com", "password123", "tok")
	defer server.Close()

	setupTestEnvironment(t, server.URL)
	t.Setenv("MARTILLO_EMAIL", "env@example.com")

	require.NoError(t, runLogin("", "password123"))
}

func TestLogoutCommand_RemovesRecord(t *testing.T) {
	server := mockAPIServer(t, "test@example.com", "password123", "tok")
	defer server.Close()

	recordPath := setupTestEnvironment(t, server.URL)

	require.NoError(t, runLogin("test@example.com", "password123"))
	require.NoError(t, runLogout())

	_, err := os.Stat(recordPath)
	assert.True(t, os.IsNotExist(err))
}

func TestWhoamiCommand_LoggedOut(t *testing.T) {
	setupTestEnvironment(t, "http://unused")
	assert.NoError(t, runWhoami(), "whoami reports, it does not fail")
}
