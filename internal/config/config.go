package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds the configuration for the LeafScan server.
type Config struct {
	// Listen is the address the LeafScan server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// SessionKey is the key used to sign session cookies.
	SessionKey string `yaml:"session_key" mapstructure:"session_key"`
	// SessionMaxAge is the maximum age of a session in seconds.
	SessionMaxAge int `yaml:"session_max_age" mapstructure:"session_max_age"`
	// DatabasePath is the sqlite database file path.
	DatabasePath string `yaml:"database_path" mapstructure:"database_path"`
	// ModelPath is the path to the frozen classifier model artifact.
	ModelPath string `yaml:"model_path" mapstructure:"model_path"`
	// UploadDir is the directory uploaded leaf images are written to.
	UploadDir string `yaml:"upload_dir" mapstructure:"upload_dir"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// Environment variables with the LEAFSCAN_ prefix override config file values,
// so LEAFSCAN_SESSION_KEY and LEAFSCAN_DATABASE_PATH can come straight from the
// process environment without any config file at all.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("LEAFSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.leafscan")
		v.AddConfigPath("/etc/leafscan")
	}

	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
		log.Debug("Environment variables with LEAFSCAN_ prefix override config file values")
	}

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:5000")
	// Registered so the LEAFSCAN_SESSION_KEY env override reaches Unmarshal
	v.SetDefault("session_key", "")
	v.SetDefault("session_max_age", 172800) // 48 hours
	v.SetDefault("database_path", "data/leafscan.db")
	v.SetDefault("model_path", "model/model.gob")
	v.SetDefault("upload_dir", "uploads")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing leafscan config")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.ModelPath == "" {
		return fmt.Errorf("model path is required")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if c.SessionKey == "" {
		// Sessions signed with a throwaway key don't survive a restart.
		c.SessionKey = uuid.NewString()
		log.Warn("no session key configured, generated a volatile one; set LEAFSCAN_SESSION_KEY for production")
	}
	return nil
}
