package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the application.
// It includes the environment type, the ports of the API and monitoring
// servers, and the database configuration.
type Config struct {
	Env            string         `yaml:"env"`             // Env is the current environment: local, dev, prod.
	HTTPPort       int            `yaml:"http_port"`       // HTTPPort is the port of the REST API server.
	MonitoringPort int            `yaml:"monitoring_port"` // MonitoringPort is the port of the health/metrics server.
	Database       PostgresConfig `yaml:"postgres"`        // Database holds the postgres database configuration.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Name     string `yaml:"db_name"`  // Name is the name of the database.
}

// MustLoad loads the configuration from the YAML file named by CONFIG_PATH,
// with environment variables (HR_ prefix, loaded through .env when present)
// overriding file values. It panics when the configuration is unusable.
func MustLoad() *Config {
	_ = godotenv.Load()

	defaultAPIPort := 8080
	defaultMonitoringPort := 8081

	viper.SetDefault("env", "local")
	viper.SetDefault("http_port", defaultAPIPort)
	viper.SetDefault("monitoring_port", defaultMonitoringPort)
	viper.SetDefault("postgres.port", "5432")

	viper.SetEnvPrefix("HR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}

		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			panic("config error: " + err.Error())
		}
	}

	cfg := &Config{
		Env:            viper.GetString("env"),
		HTTPPort:       viper.GetInt("http_port"),
		MonitoringPort: viper.GetInt("monitoring_port"),
		Database: PostgresConfig{
			Host:     viper.GetString("postgres.host"),
			Port:     viper.GetString("postgres.port"),
			User:     viper.GetString("postgres.user"),
			Password: viper.GetString("postgres.password"),
			Name:     viper.GetString("postgres.db_name"),
		},
	}

	if cfg.Database.Host == "" {
		panic("postgres host is not configured")
	}

	return cfg
}
