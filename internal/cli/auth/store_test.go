package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func authenticatedSession() Session {
	return Session{
		User: &User{
			ID:    "u1",
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
		},
		IsAuthenticated: true,
		Credential:      "t1",
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store := testStore(t)

	saved := authenticatedSession()
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved, *loaded)
}

func TestStore_LoadAbsent(t *testing.T) {
	store := testStore(t)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestStore_LoadMalformed(t *testing.T) {
	malformed := []string{
		"not json at all",
		`{"user": 42}`,
		`[]`,
		``,
	}

	for _, record := range malformed {
		store := testStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte(record), 0600))

		sess, err := store.Load()
		assert.ErrorIs(t, err, ErrCorruptRecord, "record: %q", record)
		assert.Nil(t, sess)
	}
}

func TestStore_LoadStructurallyInvalid(t *testing.T) {
	invalid := []string{
		// authenticated but no credential
		`{"user":{"id":"u1","name":"Ada","email":"a@x.com"},"isAuthenticated":true,"credential":""}`,
		// authenticated but no user
		`{"user":null,"isAuthenticated":true,"credential":"t1"}`,
		// credential without the flag
		`{"user":null,"isAuthenticated":false,"credential":"t1"}`,
	}

	for _, record := range invalid {
		store := testStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte(record), 0600))

		sess, err := store.Load()
		assert.ErrorIs(t, err, ErrCorruptRecord, "record: %q", record)
		assert.Nil(t, sess)
	}
}

func TestStore_ClearAbsent(t *testing.T) {
	store := testStore(t)
	assert.NoError(t, store.Clear())
}

func TestStore_ClearRemovesRecord(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Save(authenticatedSession()))

	require.NoError(t, store.Clear())

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestStore_SaveCreatesParentDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "dir", "session.json"))
	require.NoError(t, store.Save(authenticatedSession()))

	_, err := store.Load()
	assert.NoError(t, err)
}

func TestSession_Valid(t *testing.T) {
	assert.True(t, Empty().Valid())
	assert.True(t, authenticatedSession().Valid())

	broken := authenticatedSession()
	broken.Credential = ""
	assert.False(t, broken.Valid())

	broken = authenticatedSession()
	broken.User = nil
	assert.False(t, broken.Valid())

	broken = Empty()
	broken.Credential = "t1"
	assert.False(t, broken.Valid())
}
