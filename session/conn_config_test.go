package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-rgpio/logger"
)

func TestNewConnectionConfig_Defaults(t *testing.T) {
	assert := assert.New(t)

	cfg, err := NewConnectionConfig("127.0.0.1", 8889)
	require.NoError(t, err)

	assert.Equal("127.0.0.1:8889", cfg.Address())
	assert.Equal(5*time.Second, cfg.ConnectTimeout())
	assert.Equal(time.Duration(0), cfg.IOTimeout())
	assert.Equal(3*time.Second, cfg.CloseTimeout())
	assert.Equal(256, cfg.EventQueueSize())
	assert.Equal("", cfg.User())
	assert.Equal(DefaultSecretsFile, cfg.SecretsFile())
	assert.Equal(RaiseErrors, cfg.ErrorMode())
	assert.NotNil(cfg.Logger())
}

func TestNewConnectionConfig_Options(t *testing.T) {
	assert := assert.New(t)
	l := logger.NewSlog(logger.DebugLevel, false)

	cfg, err := NewConnectionConfig("pi4.local", 7777,
		WithConnectTimeout(time.Second),
		WithIOTimeout(2*time.Second),
		WithCloseTimeout(500*time.Millisecond),
		WithEventQueueSize(8),
		WithUser(" gpio "),
		WithSecretsFile("/tmp/secrets"),
		WithErrorMode(ReturnCodes),
		WithLogger(l),
	)
	require.NoError(t, err)

	assert.Equal("pi4.local", cfg.Host())
	assert.Equal(7777, cfg.Port())
	assert.Equal(time.Second, cfg.ConnectTimeout())
	assert.Equal(2*time.Second, cfg.IOTimeout())
	assert.Equal(500*time.Millisecond, cfg.CloseTimeout())
	assert.Equal(8, cfg.EventQueueSize())
	assert.Equal("gpio", cfg.User())
	assert.Equal("/tmp/secrets", cfg.SecretsFile())
	assert.Equal(ReturnCodes, cfg.ErrorMode())
	assert.Same(l, cfg.Logger())
}

func TestNewConnectionConfig_Invalid(t *testing.T) {
	tests := []struct {
		description string
		host        string
		port        int
		opts        []ConnOption
	}{
		{"port zero", "localhost", 0, nil},
		{"port too large", "localhost", 70000, nil},
		{"host with spaces", "my host", 8889, nil},
		{"connect timeout", "localhost", 8889, []ConnOption{WithConnectTimeout(time.Millisecond)}},
		{"negative io timeout", "localhost", 8889, []ConnOption{WithIOTimeout(-time.Second)}},
		{"close timeout", "localhost", 8889, []ConnOption{WithCloseTimeout(time.Minute)}},
		{"queue size", "localhost", 8889, []ConnOption{WithEventQueueSize(0)}},
		{"error mode", "localhost", 8889, []ConnOption{WithErrorMode(ErrorMode(9))}},
		{"nil logger", "localhost", 8889, []ConnOption{WithLogger(nil)}},
		{"empty secrets path", "localhost", 8889, []ConnOption{WithSecretsFile(" ")}},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := NewConnectionConfig(tt.host, tt.port, tt.opts...)
			assert.Error(t, err)
		})
	}
}

func TestNewConnectionConfig_EmptyHost(t *testing.T) {
	cfg, err := NewConnectionConfig("", 8889)
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, cfg.Host())
}

func TestWithAddress(t *testing.T) {
	cfg, err := NewConnectionConfig("localhost", 8889, WithAddress("10.0.0.2", 0))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:8889", cfg.Address())

	cfg, err = NewConnectionConfig("pi4", 8889, WithAddress("", 7000))
	require.NoError(t, err)
	assert.Equal(t, "pi4:7000", cfg.Address())

	_, err = NewConnectionConfig("pi4", 8889, WithAddress("", 70000))
	require.Error(t, err)
}

func TestConnectionConfig_Update(t *testing.T) {
	cfg, err := NewConnectionConfig("localhost", 8889)
	require.NoError(t, err)

	require.NoError(t, cfg.Update(WithErrorMode(ReturnCodes), WithIOTimeout(time.Second)))
	assert.Equal(t, ReturnCodes, cfg.ErrorMode())
	assert.Equal(t, time.Second, cfg.IOTimeout())

	assert.Error(t, cfg.Update(WithUser("gpio")))
	assert.Equal(t, "", cfg.User())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvAddr, "10.0.0.7")
	t.Setenv(EnvPort, "7777")
	t.Setenv(EnvUser, "gpio")

	cfg, err := ConfigFromEnv(WithErrorMode(ReturnCodes))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7:7777", cfg.Address())
	assert.Equal(t, "gpio", cfg.User())
	assert.Equal(t, ReturnCodes, cfg.ErrorMode())

	// explicit options win over the environment
	cfg, err = ConfigFromEnv(WithUser("other"))
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.User())
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvPort, "")
	t.Setenv(EnvUser, "")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "localhost:8889", cfg.Address())
	assert.Equal(t, "", cfg.User())

	t.Setenv(EnvPort, "not-a-port")
	_, err = ConfigFromEnv()
	assert.Error(t, err)
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvPort, "")
	t.Setenv(EnvUser, "")

	path := filepath.Join(t.TempDir(), "rgpio.toml")
	content := `
host = "192.168.1.20"
port = 8890
user = "gpio"
secrets_file = "/etc/rgpio/secrets"
error_mode = "return"
connect_timeout = "1500ms"
io_timeout = "2s"
close_timeout = "1s"
event_queue_size = 32
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("192.168.1.20:8890", cfg.Address())
	assert.Equal("gpio", cfg.User())
	assert.Equal("/etc/rgpio/secrets", cfg.SecretsFile())
	assert.Equal(ReturnCodes, cfg.ErrorMode())
	assert.Equal(1500*time.Millisecond, cfg.ConnectTimeout())
	assert.Equal(2*time.Second, cfg.IOTimeout())
	assert.Equal(time.Second, cfg.CloseTimeout())
	assert.Equal(32, cfg.EventQueueSize())
}

func TestLoadConfigFile_PartialAndOverrides(t *testing.T) {
	t.Setenv(EnvAddr, "10.1.1.1")
	t.Setenv(EnvPort, "")
	t.Setenv(EnvUser, "")

	path := filepath.Join(t.TempDir(), "rgpio.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = 9000\n"), 0o600))

	cfg, err := LoadConfigFile(path, WithUser("cli-user"))
	require.NoError(t, err)
	assert.Equal(t, "10.1.1.1:9000", cfg.Address())
	assert.Equal(t, "cli-user", cfg.User())
	assert.Equal(t, RaiseErrors, cfg.ErrorMode())
}

func TestLoadConfigFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		description string
		content     string
	}{
		{"unknown key", "colour = \"blue\"\n"},
		{"bad duration", "io_timeout = \"soon\"\n"},
		{"bad error mode", "error_mode = \"explode\"\n"},
		{"bad log level", "log_level = \"loud\"\n"},
		{"bad port", "port = 0\n"},
		{"not toml", "host = \n"},
	}

	for i, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			path := filepath.Join(dir, "cfg"+string(rune('a'+i))+".toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := LoadConfigFile(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadConfigFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestParseErrorMode(t *testing.T) {
	mode, err := ParseErrorMode("RETURN")
	require.NoError(t, err)
	assert.Equal(t, ReturnCodes, mode)
	assert.Equal(t, "return", mode.String())

	mode, err = ParseErrorMode("")
	require.NoError(t, err)
	assert.Equal(t, RaiseErrors, mode)

	_, err = ParseErrorMode("panic")
	assert.Error(t, err)
}
