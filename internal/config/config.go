// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Planning PlanningConfig
	Forecast ForecastConfig
}

type ServerConfig struct {
	Port            string
	Mode            string
	ReadTimeout     int
	WriteTimeout    int
	AllowedOrigins  []string
	RefreshSchedule string
}

type PlanningConfig struct {
	ServiceZ    float64
	WorkerCount int
}

type ForecastConfig struct {
	SmoothingEnabled bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("SERVER_REFRESH_SCHEDULE", "")
		viper.SetDefault("PLAN_SERVICE_Z", 1.65)
		viper.SetDefault("PLAN_WORKER_COUNT", 4)
		viper.SetDefault("FORECAST_SMOOTHING_ENABLED", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:            viper.GetString("SERVER_PORT"),
				Mode:            viper.GetString("SERVER_MODE"),
				ReadTimeout:     viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:    viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins:  viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
				RefreshSchedule: viper.GetString("SERVER_REFRESH_SCHEDULE"),
			},
			Planning: PlanningConfig{
				ServiceZ:    viper.GetFloat64("PLAN_SERVICE_Z"),
				WorkerCount: viper.GetInt("PLAN_WORKER_COUNT"),
			},
			Forecast: ForecastConfig{
				SmoothingEnabled: viper.GetBool("FORECAST_SMOOTHING_ENABLED"),
			},
		}
	})

	return instance
}
