package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSecrets(t *testing.T) {
	input := `
# a comment line is ignored
alice = s3cret
bob=hunter2
  default=  dflt
broken=a=b
alice=second
`
	store, err := ParseSecrets(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, "s3cret", store.Lookup("alice"))
	assert.Equal(t, "hunter2", store.Lookup(" bob "))
	assert.Equal(t, "dflt", store.Lookup(""))
	assert.Equal(t, "", store.Lookup("broken"))
	assert.Equal(t, "", store.Lookup("nobody"))
}

func TestLoadSecretsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets")
	require.NoError(t, os.WriteFile(path, []byte("gpio=pw\n"), 0o600))

	store, found, err := LoadSecretsFile(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pw", store.Lookup("gpio"))

	store, found, err = LoadSecretsFile(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, store.Len())
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandHome("~/.lg_secret")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".lg_secret"), got)

	got, err = ExpandHome("/etc/lg_secret")
	require.NoError(t, err)
	assert.Equal(t, "/etc/lg_secret", got)
}

func TestSecretStore_Nil(t *testing.T) {
	var store *SecretStore
	assert.Equal(t, "", store.Lookup("alice"))
	assert.Equal(t, 0, store.Len())
}
