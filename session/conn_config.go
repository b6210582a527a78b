package session

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/arloliu/go-rgpio/logger"
)

// DefaultHost and DefaultPort locate the daemon when nothing else is configured.
const (
	DefaultHost = "localhost"
	DefaultPort = 8889
)

// DefaultSecretsFile is the secrets file consulted by the user handshake,
// relative to the user's home directory.
const DefaultSecretsFile = "~/.lg_secret"

// ErrorMode selects how negative daemon statuses are reported by the client facade.
type ErrorMode int

const (
	// RaiseErrors reports a negative status as an errcode.Code error.
	RaiseErrors ErrorMode = iota
	// ReturnCodes returns a negative status as the result with a nil error.
	ReturnCodes
)

func (m ErrorMode) String() string {
	switch m {
	case RaiseErrors:
		return "raise"
	case ReturnCodes:
		return "return"
	default:
		return "unknown"
	}
}

// ParseErrorMode converts "raise" or "return" to an ErrorMode.
func ParseErrorMode(s string) (ErrorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raise":
		return RaiseErrors, nil
	case "return":
		return ReturnCodes, nil
	default:
		return RaiseErrors, fmt.Errorf("unknown error mode %q", s)
	}
}

// ConnectionConfig represents the configuration of a connection to the rgpiod daemon.
// The same configuration is used for the control session and for the
// notification session opened next to it.
type ConnectionConfig struct {
	mu sync.RWMutex

	// host specifies the host running the daemon.
	host string

	// port specifies the TCP port the daemon listens on.
	port int

	// connectTimeout bounds the TCP dial. It should be between 100 milliseconds and 60 seconds.
	// Defaults to 5 seconds.
	connectTimeout time.Duration

	// ioTimeout bounds every request/reply exchange on the control session.
	// Zero disables the deadline and requests block until the daemon replies.
	// Defaults to 0.
	ioTimeout time.Duration

	// closeTimeout bounds the wait for the notification tasks during shutdown.
	// It should be between 100 milliseconds and 30 seconds.
	// Defaults to 3 seconds.
	closeTimeout time.Duration

	// eventQueueSize is the capacity of the queue between the notification
	// receiver and the callback dispatcher. A full queue blocks the receiver.
	// Defaults to 256.
	eventQueueSize int

	// user is the name sent by the user handshake after connect.
	// Empty skips the handshake.
	user string

	// secretsFile is the file holding user=secret lines.
	// Defaults to ~/.lg_secret.
	secretsFile string

	// errorMode selects how the facade reports negative statuses.
	// Defaults to RaiseErrors.
	errorMode ErrorMode

	// logger provides a logger instance for connection events and errors.
	logger logger.Logger
}

// NewConnectionConfig creates a new connection configuration with the given host, port number, and optional functional options.
//
// The opts parameter is a variadic argument that accepts a list of ConnOption functions to customize the configuration.
//
// Returns a pointer to the initialized ConnectionConfig and an error if any option failed to validate.
func NewConnectionConfig(host string, port int, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		connectTimeout: 5 * time.Second,
		closeTimeout:   3 * time.Second,
		eventQueueSize: 256,
		secretsFile:    DefaultSecretsFile,
		errorMode:      RaiseErrors,
		logger:         logger.GetLogger(),
	}

	if err := withHost(host).apply(cfg); err != nil {
		return cfg, err
	}

	if err := withPort(port).apply(cfg); err != nil {
		return cfg, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// Address returns the daemon address in host:port form.
func (cfg *ConnectionConfig) Address() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return net.JoinHostPort(cfg.host, fmt.Sprint(cfg.port))
}

func (cfg *ConnectionConfig) Host() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.host
}

func (cfg *ConnectionConfig) Port() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.port
}

func (cfg *ConnectionConfig) ConnectTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.connectTimeout
}

func (cfg *ConnectionConfig) IOTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.ioTimeout
}

func (cfg *ConnectionConfig) CloseTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.closeTimeout
}

func (cfg *ConnectionConfig) EventQueueSize() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.eventQueueSize
}

func (cfg *ConnectionConfig) User() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.user
}

func (cfg *ConnectionConfig) SecretsFile() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.secretsFile
}

func (cfg *ConnectionConfig) ErrorMode() ErrorMode {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.errorMode
}

func (cfg *ConnectionConfig) Logger() logger.Logger {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.logger
}

// Update applies runtime options to an existing configuration.
// Options that can't be changed at runtime are rejected.
func (cfg *ConnectionConfig) Update(opts ...ConnOption) error {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	for _, opt := range opts {
		if o, ok := opt.(*connOptFunc); ok && !o.runtime {
			return fmt.Errorf("%s can't be changed at runtime", o.name)
		}
		if err := opt.apply(cfg); err != nil {
			return err
		}
	}

	return nil
}

// ConnOption represents a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc struct {
	name      string
	runtime   bool
	applyFunc func(*ConnectionConfig) error
}

func (c *connOptFunc) apply(cfg *ConnectionConfig) error { return c.applyFunc(cfg) }

func newConnOptFunc(name string, runtime bool, f func(*ConnectionConfig) error) *connOptFunc {
	return &connOptFunc{
		name:      name,
		runtime:   runtime,
		applyFunc: f,
	}
}

// withHost sets the daemon host. Both IP addresses and host names are
// accepted; names are resolved when the session dials.
func withHost(host string) ConnOption {
	return newConnOptFunc("withHost", false, func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		host = strings.TrimSpace(host)
		if host == "" {
			host = DefaultHost
		}

		if ip := net.ParseIP(host); ip != nil {
			cfg.host = host
			return nil
		}

		host = strings.TrimSuffix(host, ".")
		if strings.ContainsAny(host, " \t/:") {
			return fmt.Errorf("invalid host %q", host)
		}
		cfg.host = host

		return nil
	})
}

// withPort sets the daemon TCP port.
// An error is returned if the port number is out of the valid range (1-65535).
func withPort(port int) ConnOption {
	return newConnOptFunc("withPort", false, func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		if port < 1 || port > 65535 {
			return errors.New("port is out of range [1, 65535]")
		}
		cfg.port = port

		return nil
	})
}

// WithAddress overrides the host and port given to NewConnectionConfig, for
// callers layering command-line flags over a file or environment config.
// An empty host or a zero port keeps the current value.
func WithAddress(host string, port int) ConnOption {
	return newConnOptFunc("WithAddress", false, func(cfg *ConnectionConfig) error {
		if strings.TrimSpace(host) != "" {
			if err := withHost(host).apply(cfg); err != nil {
				return err
			}
		}
		if port != 0 {
			return withPort(port).apply(cfg)
		}

		return nil
	})
}

// WithConnectTimeout sets the timeout for dialing the daemon.
// An error is returned if the timeout is outside the valid range (100ms-60s).
//
// The default value is 5 seconds.
//
// This option can be changed at runtime.
func WithConnectTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithConnectTimeout", true, func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		if val < 100*time.Millisecond || val > 60*time.Second {
			return errors.New("connect timeout out of range [100ms, 60s]")
		}
		cfg.connectTimeout = val

		return nil
	})
}

// WithIOTimeout sets the deadline applied to each request/reply exchange on
// the control session. Zero disables it.
//
// A request whose deadline expires leaves the session broken: the reply may
// still arrive later and would be read as the reply to the next request.
//
// The default value is 0.
//
// This option can be changed at runtime.
func WithIOTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithIOTimeout", true, func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		if val < 0 {
			return errors.New("io timeout must not be negative")
		}
		cfg.ioTimeout = val

		return nil
	})
}

// WithCloseTimeout sets the timeout for joining the notification tasks during shutdown.
// An error is returned if the timeout is outside the valid range (100ms-30s).
//
// The default value is 3 seconds.
//
// This option can be changed at runtime.
func WithCloseTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithCloseTimeout", true, func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		if val < 100*time.Millisecond || val > 30*time.Second {
			return errors.New("close timeout out of range [100ms, 30s]")
		}
		cfg.closeTimeout = val

		return nil
	})
}

// WithEventQueueSize sets the capacity of the queue between the notification
// receiver and the callback dispatcher.
//
// The queue size must be within the range of 1 to 65536.
//
// The default value is 256.
//
// This option can't be changed at runtime.
func WithEventQueueSize(size int) ConnOption {
	return newConnOptFunc("WithEventQueueSize", false, func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}
		if size < 1 || size > 65536 {
			return errors.New("event queue size out of range [1, 65536]")
		}

		cfg.eventQueueSize = size

		return nil
	})
}

// WithUser sets the user logged in after connect. An empty name skips the handshake.
//
// This option can't be changed at runtime.
func WithUser(user string) ConnOption {
	return newConnOptFunc("WithUser", false, func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		cfg.user = strings.TrimSpace(user)

		return nil
	})
}

// WithSecretsFile sets the file holding user=secret lines.
// A leading "~/" is expanded to the user's home directory when the file is read.
//
// The default value is ~/.lg_secret.
//
// This option can be changed at runtime.
func WithSecretsFile(path string) ConnOption {
	return newConnOptFunc("WithSecretsFile", true, func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}
		if strings.TrimSpace(path) == "" {
			return errors.New("secrets file path is empty")
		}

		cfg.secretsFile = path

		return nil
	})
}

// WithErrorMode sets how the client facade reports negative statuses.
//
// The default value is RaiseErrors.
//
// This option can be changed at runtime.
func WithErrorMode(mode ErrorMode) ConnOption {
	return newConnOptFunc("WithErrorMode", true, func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}
		if mode != RaiseErrors && mode != ReturnCodes {
			return fmt.Errorf("invalid error mode %d", mode)
		}

		cfg.errorMode = mode

		return nil
	})
}

// WithLogger sets the logger for the connection.
//
// The default logger is the global logger instance.
//
// This option can't be changed at runtime.
func WithLogger(l logger.Logger) ConnOption {
	return newConnOptFunc("WithLogger", false, func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}
		if l == nil {
			return errors.New("logger is nil")
		}

		cfg.logger = l

		return nil
	})
}
