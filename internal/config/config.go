package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 7180,
			Bind: "loopback",
		},
		Providers: ProvidersConfig{
			AWS: AWSConfig{Region: "us-east-1"},
			GCP: GCPConfig{Region: "us-central1"},
		},
		Cache: CacheConfig{
			Addr:       "localhost:6379",
			TTLMinutes: 360,
		},
		History: HistoryConfig{
			Store: "sqlite",
		},
		Analysis: AnalysisConfig{
			TimeHorizonMonths: 36,
		},
		Logging: LoggingConfig{
			Level: "info",
			Style: "pretty",
		},
	}
}
