package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/relaygrid/relaygrid/src/common"
)

// Default filenames.
const (
	// DefaultKeyfile is the default name of the file containing the
	// coordinator's private key.
	DefaultKeyfile = "priv_key"

	// DefaultBadgerFile is the default name of the folder containing the
	// Badger database used by the badger transport.
	DefaultBadgerFile = "badger_db"
)

// Default configuration values.
const (
	DefaultLogLevel     = "debug"
	DefaultAppName      = "relaygrid"
	DefaultPollInterval = 3 * time.Second
	DefaultTimeout      = 5 * time.Minute
	DefaultTTL          = 12 * time.Hour
	DefaultStopTTL      = 60 * time.Second
)

// Config contains all the configuration properties of a relaygrid
// coordinator.
type Config struct {
	// DataDir is the top-level directory containing configuration and key
	// material.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// AppName namespaces this application's traffic on a shared relay.
	AppName string `mapstructure:"app-name"`

	// SelfAddress is the coordinator's own address on the relay. Participants
	// see request files under this name.
	SelfAddress string `mapstructure:"self"`

	// RelayDir is the root of the synced directory tree used by the file
	// transport.
	RelayDir string `mapstructure:"relay-dir"`

	// Store selects the Badger transport instead of the file transport.
	Store bool `mapstructure:"store"`

	// DatabaseDir is the directory containing the Badger database files.
	DatabaseDir string `mapstructure:"db"`

	// PollInterval is the sleep between poll attempts while gathering
	// replies.
	PollInterval time.Duration `mapstructure:"poll-interval"`

	// Timeout bounds how long a scatter/gather call waits for replies. Zero
	// means wait indefinitely.
	Timeout time.Duration `mapstructure:"timeout"`

	// TTL is applied to envelopes built without an explicit time-to-live.
	TTL time.Duration `mapstructure:"ttl"`

	// StopTTL is the time-to-live of the shutdown broadcast.
	StopTTL time.Duration `mapstructure:"stop-ttl"`

	// NoEncryption disables the payload encryption pass. Intended for
	// development setups where participants have no keys.
	NoEncryption bool `mapstructure:"no-encryption"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	return &Config{
		DataDir:      DefaultDataDir(),
		LogLevel:     DefaultLogLevel,
		AppName:      DefaultAppName,
		DatabaseDir:  DefaultDatabaseDir(),
		PollInterval: DefaultPollInterval,
		Timeout:      DefaultTimeout,
		TTL:          DefaultTTL,
		StopTTL:      DefaultStopTTL,
	}
}

// NewTestConfig returns a config object with default values and a special
// logger for debugging tests. The poll interval is shortened so timing tests
// run fast.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.PollInterval = 50 * time.Millisecond
	config.logger = common.NewTestLogger(t, level)
	return config
}

// SetDataDir sets the top-level relaygrid directory, and updates the database
// directory if it is currently set to the default value.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir() {
		c.DatabaseDir = filepath.Join(dataDir, DefaultBadgerFile)
	}
}

// Keyfile returns the full path of the file containing the private key.
func (c *Config) Keyfile() string {
	return filepath.Join(c.DataDir, DefaultKeyfile)
}

// SetLogger installs a pre-built logger, overriding the lazily created
// default. The CLI uses it so its file-hooked logger sees all engine traffic.
func (c *Config) SetLogger(logger *logrus.Logger) {
	c.logger = logger
}

// Logger returns a formatted logrus Entry, with prefix set to "relaygrid".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
	}
	return c.logger.WithField("prefix", "relaygrid")
}

// DefaultDatabaseDir returns the default path for the badger database files.
func DefaultDatabaseDir() string {
	return filepath.Join(DefaultDataDir(), DefaultBadgerFile)
}

// DefaultDataDir return the default directory name for top-level relaygrid
// config based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".Relaygrid")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "Relaygrid")
		} else {
			return filepath.Join(home, ".relaygrid")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
