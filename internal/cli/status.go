package cli

import (
	"fmt"
	"os"

	"github.com/costwise/costwise/internal/config"
	"github.com/costwise/costwise/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show costwise status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("Costwise %s (commit %s)\n\n", version.Version, version.Commit)

			// Show paths
			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			// Load config
			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Printf("Config:  error loading: %v\n", err)
				return nil
			}

			auth := "disabled"
			if cfg.Server.Auth.Token != "" || os.Getenv("COSTWISE_AUTH_TOKEN") != "" {
				auth = "token"
			}
			fmt.Printf("Server:  port=%d bind=%s auth=%s\n", cfg.Server.Port, cfg.Server.Bind, auth)

			fmt.Printf("AWS:     region=%s live=%v\n", cfg.Providers.AWS.Region, cfg.Providers.AWS.Live)
			fmt.Printf("GCP:     region=%s live=%v\n", cfg.Providers.GCP.Region, cfg.Providers.GCP.Live)

			if cfg.Cache.Enabled {
				fmt.Printf("Cache:   redis addr=%s ttl=%dm\n", cfg.Cache.Addr, cfg.Cache.TTLMinutes)
			} else {
				fmt.Println("Cache:   (disabled)")
			}

			fmt.Printf("History: store=%s\n", cfg.History.Store)
			if cfg.History.Store == "sqlite" {
				fmt.Printf("         path=%s\n", paths.HistoryDB())
			}

			mode := "in-process"
			if cfg.MCP.AWSCommand != "" || cfg.MCP.GCPCommand != "" || cfg.MCP.ComparisonCommand != "" {
				mode = "stdio"
			}
			fmt.Printf("MCP:     %s\n", mode)

			// Validation
			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}
