package config

import (
	"fmt"
	"slices"

	"github.com/costwise/costwise/internal/catalog"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "server.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Server.Port),
		})
	}

	validBinds := []string{"auto", "lan", "loopback", "custom"}
	if cfg.Server.Bind != "" && !slices.Contains(validBinds, cfg.Server.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "server.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Server.Bind),
		})
	}
	if cfg.Server.Bind == "custom" && cfg.Server.CustomBindHost == "" {
		issues = append(issues, ValidationIssue{
			Path:    "server.customBindHost",
			Message: "required when server.bind is custom",
		})
	}

	if cfg.Server.TLS.Enabled {
		if cfg.Server.TLS.CertPath == "" {
			issues = append(issues, ValidationIssue{
				Path:    "server.tls.certPath",
				Message: "required when TLS is enabled",
			})
		}
		if cfg.Server.TLS.KeyPath == "" {
			issues = append(issues, ValidationIssue{
				Path:    "server.tls.keyPath",
				Message: "required when TLS is enabled",
			})
		}
	}

	if r := cfg.Providers.AWS.Region; r != "" && !catalog.AWSRegionSupported(r) {
		issues = append(issues, ValidationIssue{
			Path:    "providers.aws.region",
			Message: fmt.Sprintf("unsupported region %q", r),
		})
	}
	if r := cfg.Providers.GCP.Region; r != "" && !catalog.GCPRegionSupported(r) {
		issues = append(issues, ValidationIssue{
			Path:    "providers.gcp.region",
			Message: fmt.Sprintf("unsupported region %q", r),
		})
	}

	if cfg.Cache.Enabled && cfg.Cache.Addr == "" {
		issues = append(issues, ValidationIssue{
			Path:    "cache.addr",
			Message: "required when cache is enabled",
		})
	}
	if cfg.Cache.TTLMinutes < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "cache.ttlMinutes",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Cache.TTLMinutes),
		})
	}

	validStores := []string{"sqlite", "memory"}
	if cfg.History.Store != "" && !slices.Contains(validStores, cfg.History.Store) {
		issues = append(issues, ValidationIssue{
			Path:    "history.store",
			Message: fmt.Sprintf("must be one of %v, got %q", validStores, cfg.History.Store),
		})
	}

	if cfg.Analysis.TimeHorizonMonths < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "analysis.timeHorizonMonths",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Analysis.TimeHorizonMonths),
		})
	}

	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validStyles := []string{"pretty", "json"}
	if cfg.Logging.Style != "" && !slices.Contains(validStyles, cfg.Logging.Style) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.style",
			Message: fmt.Sprintf("must be one of %v, got %q", validStyles, cfg.Logging.Style),
		})
	}

	return issues
}
