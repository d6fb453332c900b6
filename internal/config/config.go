package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	ServerPort string
	DataDir    string

	DatabasePath string

	LogMode       string
	LogFileEnable bool
	LogFilename   string

	PairingWait      time.Duration
	ReconnectMax     int
	ReconnectBackoff time.Duration
}

// Load reads configuration from defaults, an optional wablast.yaml in the
// working directory, and WABLAST_* environment variables (in increasing
// precedence).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server_port", "3000")
	v.SetDefault("data_dir", "data")
	v.SetDefault("database_path", filepath.Join("data", "wablast.db"))
	v.SetDefault("log_mode", "development")
	v.SetDefault("log_file_enable", true)
	v.SetDefault("log_filename", filepath.Join("logs", "wablast.log"))
	v.SetDefault("pairing_wait", "20s")
	v.SetDefault("reconnect_max", 10)
	v.SetDefault("reconnect_backoff", "1s")

	v.SetConfigName("wablast")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("WABLAST")
	v.AutomaticEnv()

	return &Config{
		ServerPort:       v.GetString("server_port"),
		DataDir:          v.GetString("data_dir"),
		DatabasePath:     v.GetString("database_path"),
		LogMode:          v.GetString("log_mode"),
		LogFileEnable:    v.GetBool("log_file_enable"),
		LogFilename:      v.GetString("log_filename"),
		PairingWait:      v.GetDuration("pairing_wait"),
		ReconnectMax:     v.GetInt("reconnect_max"),
		ReconnectBackoff: v.GetDuration("reconnect_backoff"),
	}, nil
}

// EnsureDataDir ensures the data directory exists.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}

// GetCorsConfig returns CORS configuration for the application.
func (c *Config) GetCorsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Content-Type"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}
