// Package config loads the tablespec CLI configuration from config files,
// environment variables and .env files.
package config

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/tablespec/pkg/constants"
	"github.com/agentstation/tablespec/pkg/errors"
)

// Config holds the CLI configuration.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// Config file
	ConfigFile string

	// Option layers
	GlobalFile   string
	DocumentFile string
	ScaleFactor  float64

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load reads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later with UpdateFromFlags)
//  2. TABLESPEC_* environment variables
//  3. .env and .env.local files
//  4. Config file (explicit path, or .tablespec.yaml in $HOME or the working directory)
//  5. Defaults
//
// A missing config file in the search path is not an error; an explicit file
// that cannot be read is.
func Load(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("scale_factor", constants.DefaultScaleFactor)
	v.SetDefault("output", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.ConfigFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "reading config file", err)
		}
	}

	cfg := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Output:  v.GetString("output"),

		ConfigFile: v.ConfigFileUsed(),

		GlobalFile:   v.GetString("global"),
		DocumentFile: v.GetString("document"),
		ScaleFactor:  v.GetFloat64("scale_factor"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", v.GetString("log_level")),
		LogFormat: getEnvOrDefault("LOG_FORMAT", stringOr(v.GetString("log_format"), "auto")),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", stringOr(v.GetString("log_output"), "stderr")),
	}

	if cfg.ScaleFactor <= 0 {
		cfg.ScaleFactor = constants.DefaultScaleFactor
	}

	return cfg, nil
}

// UpdateFromFlags applies parsed command flags. The booleans are taken as
// given, so callers pass the current value for flags the user did not set.
// Empty strings leave output and log level unchanged.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, output, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if output != "" {
		c.Output = output
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files. Variables already
// set in the environment are not overwritten, and .env wins over .env.local
// for keys both define.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
