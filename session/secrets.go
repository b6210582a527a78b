package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultUser is the user name sent when an empty name is requested.
const DefaultUser = "default"

// SecretStore maps daemon user names to their shared secrets.
type SecretStore struct {
	secrets map[string]string
}

// ParseSecrets reads user=secret lines from r. Surrounding whitespace is
// trimmed and lines that do not contain exactly one '=' are ignored. When a
// user appears more than once the first entry wins.
func ParseSecrets(r io.Reader) (*SecretStore, error) {
	store := &SecretStore{secrets: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "=")
		if len(parts) != 2 {
			continue
		}

		user := strings.TrimSpace(parts[0])
		if _, ok := store.secrets[user]; !ok {
			store.secrets[user] = strings.TrimSpace(parts[1])
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read secrets: %w", err)
	}

	return store, nil
}

// LoadSecretsFile reads a secrets file. A leading "~/" in path is expanded to
// the home directory. A missing file yields an empty store and found=false.
func LoadSecretsFile(path string) (store *SecretStore, found bool, err error) {
	path, err = ExpandHome(path)
	if err != nil {
		return nil, false, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &SecretStore{secrets: map[string]string{}}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("open secrets file: %w", err)
	}
	defer f.Close()

	store, err = ParseSecrets(f)
	if err != nil {
		return nil, false, err
	}

	return store, true, nil
}

// Lookup returns the secret for user, or an empty secret if the user has no entry.
// An empty user is looked up as DefaultUser.
func (s *SecretStore) Lookup(user string) string {
	if s == nil {
		return ""
	}

	return s.secrets[NormalizeUser(user)]
}

// Len returns the number of users in the store.
func (s *SecretStore) Len() int {
	if s == nil {
		return 0
	}

	return len(s.secrets)
}

// NormalizeUser trims user and maps an empty name to DefaultUser.
func NormalizeUser(user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		return DefaultUser
	}

	return user
}

// ExpandHome replaces a leading "~/" in path with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
