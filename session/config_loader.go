package session

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/arloliu/go-rgpio/logger"
)

// Environment variables consulted by ConfigFromEnv.
const (
	EnvAddr = "LG_ADDR"
	EnvPort = "LG_PORT"
	EnvUser = "LG_USER"
)

// ConfigFromEnv creates a configuration from LG_ADDR (default localhost),
// LG_PORT (default 8889) and LG_USER. The opts are applied after the
// environment, so they take precedence.
func ConfigFromEnv(opts ...ConnOption) (*ConnectionConfig, error) {
	host := os.Getenv(EnvAddr)
	if host == "" {
		host = DefaultHost
	}

	port := DefaultPort
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		port = p
	}

	all := make([]ConnOption, 0, len(opts)+1)
	if user := os.Getenv(EnvUser); user != "" {
		all = append(all, WithUser(user))
	}
	all = append(all, opts...)

	return NewConnectionConfig(host, port, all...)
}

// duration decodes TOML strings such as "1.5s" with time.ParseDuration.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v

	return nil
}

// fileConfig is the TOML key mapping of a connection config file.
type fileConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	User           string   `toml:"user"`
	SecretsFile    string   `toml:"secrets_file"`
	ErrorMode      string   `toml:"error_mode"`
	ConnectTimeout duration `toml:"connect_timeout"`
	IOTimeout      duration `toml:"io_timeout"`
	CloseTimeout   duration `toml:"close_timeout"`
	EventQueueSize int      `toml:"event_queue_size"`
	LogLevel       string   `toml:"log_level"`
}

// LoadConfigFile reads a TOML connection config file. Keys missing from the
// file keep their environment or built-in defaults; opts are applied last.
//
// Example file:
//
//	host = "pi4"
//	port = 8889
//	user = "alice"
//	error_mode = "return"
//	connect_timeout = "2s"
//	log_level = "debug"
//
// A log_level key sets the level of the configured logger.
func LoadConfigFile(path string, opts ...ConnOption) (*ConnectionConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load rgpio config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load rgpio config: unknown key %q", undecoded[0].String())
	}

	host := os.Getenv(EnvAddr)
	if meta.IsDefined("host") {
		host = raw.Host
	}

	port := DefaultPort
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	if meta.IsDefined("port") {
		port = raw.Port
	}

	var fileOpts []ConnOption
	if user := os.Getenv(EnvUser); user != "" {
		fileOpts = append(fileOpts, WithUser(user))
	}
	if meta.IsDefined("user") {
		fileOpts = append(fileOpts, WithUser(raw.User))
	}
	if meta.IsDefined("secrets_file") {
		fileOpts = append(fileOpts, WithSecretsFile(raw.SecretsFile))
	}
	if meta.IsDefined("error_mode") {
		mode, err := ParseErrorMode(raw.ErrorMode)
		if err != nil {
			return nil, fmt.Errorf("load rgpio config: %w", err)
		}
		fileOpts = append(fileOpts, WithErrorMode(mode))
	}
	if meta.IsDefined("connect_timeout") {
		fileOpts = append(fileOpts, WithConnectTimeout(raw.ConnectTimeout.Duration))
	}
	if meta.IsDefined("io_timeout") {
		fileOpts = append(fileOpts, WithIOTimeout(raw.IOTimeout.Duration))
	}
	if meta.IsDefined("close_timeout") {
		fileOpts = append(fileOpts, WithCloseTimeout(raw.CloseTimeout.Duration))
	}
	if meta.IsDefined("event_queue_size") {
		fileOpts = append(fileOpts, WithEventQueueSize(raw.EventQueueSize))
	}

	cfg, err := NewConnectionConfig(host, port, append(fileOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("load rgpio config: %w", err)
	}

	if meta.IsDefined("log_level") {
		level, err := logger.ParseLevel(raw.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("load rgpio config: %w", err)
		}
		cfg.Logger().SetLevel(level)
	}

	return cfg, nil
}
