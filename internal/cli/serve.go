package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/costwise/costwise/internal/agent"
	"github.com/costwise/costwise/internal/config"
	"github.com/costwise/costwise/internal/gateway"
	"github.com/costwise/costwise/internal/mcptool"
	"github.com/costwise/costwise/internal/pricing"
	"github.com/costwise/costwise/internal/store"
	"github.com/costwise/costwise/internal/toolserver"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port      int
		bind      string
		staticDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}

			if port != 0 {
				cfg.Server.Port = port
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}
			if staticDir != "" {
				cfg.Server.StaticDir = staticDir
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return fmt.Errorf("creating data directories: %w", err)
			}

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cache := openCache(cfg)
			if cache != nil {
				defer cache.Close()
				log.Info().Str("addr", cfg.Cache.Addr).Msg("price cache enabled")
			}

			awsClient, gcpClient := buildPricingClients(ctx, cfg, cache)

			tools, err := buildToolsets(ctx, cfg, awsClient, gcpClient)
			if err != nil {
				return err
			}
			defer tools.Close()

			history, closeHistory, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer closeHistory()

			srv := gateway.New(cfg, tools, history, log,
				gateway.WithProviderStatus(awsClient, gcpClient))

			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override server port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (auto, lan, loopback, custom)")
	cmd.Flags().StringVar(&staticDir, "static", "", "serve a built frontend from this directory")

	return cmd
}

// openCache returns the Redis price cache, or nil when caching is disabled.
func openCache(cfg config.Config) *pricing.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	return pricing.NewCache(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, log,
		pricing.WithTTL(time.Duration(cfg.Cache.TTLMinutes)*time.Minute))
}

// buildPricingClients builds the provider clients, live or fallback per config.
func buildPricingClients(ctx context.Context, cfg config.Config, cache *pricing.Cache) (*pricing.AWSClient, *pricing.GCPClient) {
	var aws *pricing.AWSClient
	if cfg.Providers.AWS.Live {
		aws = pricing.NewAWSClient(ctx, cache, log)
	} else {
		aws = pricing.NewFallbackAWSClient(cache, log)
	}

	var gcp *pricing.GCPClient
	if cfg.Providers.GCP.Live {
		gcp = pricing.NewGCPClient(ctx, cfg.Providers.GCP.Project, cache, log)
	} else {
		gcp = pricing.NewFallbackGCPClient(cache, log)
	}

	if !aws.Live() || !gcp.Live() {
		log.Info().
			Bool("awsLive", aws.Live()).
			Bool("gcpLive", gcp.Live()).
			Msg("using fallback pricing tables where live APIs are unavailable")
	}
	return aws, gcp
}

// buildToolsets connects the three MCP toolsets. Each runs in-process unless
// the config names an external server command to spawn over stdio.
func buildToolsets(ctx context.Context, cfg config.Config, aws *pricing.AWSClient, gcp *pricing.GCPClient) (agent.Toolsets, error) {
	connect := func(name, command string, inProcess func() *mcpserver.MCPServer) (mcptool.Toolset, error) {
		if command != "" {
			argv := strings.Fields(command)
			log.Info().Str("server", name).Str("command", command).Msg("spawning MCP server")
			return mcptool.NewStdio(ctx, name, argv[0], nil, argv[1:]...)
		}
		return mcptool.NewInProcess(ctx, name, inProcess())
	}

	var tools agent.Toolsets
	var err error

	tools.AWS, err = connect(toolserver.AWSServerName, cfg.MCP.AWSCommand, func() *mcpserver.MCPServer {
		return toolserver.NewAWSServer(aws, log)
	})
	if err != nil {
		return tools, fmt.Errorf("connecting %s: %w", toolserver.AWSServerName, err)
	}

	tools.GCP, err = connect(toolserver.GCPServerName, cfg.MCP.GCPCommand, func() *mcpserver.MCPServer {
		return toolserver.NewGCPServer(gcp, log)
	})
	if err != nil {
		tools.Close()
		return tools, fmt.Errorf("connecting %s: %w", toolserver.GCPServerName, err)
	}

	tools.Comparison, err = connect(toolserver.ComparisonServerName, cfg.MCP.ComparisonCommand, func() *mcpserver.MCPServer {
		return toolserver.NewComparisonServer(log)
	})
	if err != nil {
		tools.Close()
		return tools, fmt.Errorf("connecting %s: %w", toolserver.ComparisonServerName, err)
	}

	return tools, nil
}

// openHistory opens the analysis history store (SQLite or in-memory).
func openHistory(cfg config.Config) (store.AnalysisStore, func(), error) {
	if cfg.History.Store == "sqlite" {
		db, err := store.Open(paths.HistoryDB(), log)
		if err != nil {
			return nil, nil, fmt.Errorf("opening history database: %w", err)
		}
		log.Info().Str("path", paths.HistoryDB()).Msg("using SQLite analysis history")
		return store.NewSQLiteAnalysisStore(db), func() { db.Close() }, nil
	}
	log.Info().Msg("using in-memory analysis history")
	return store.NewMemoryAnalysisStore(), func() {}, nil
}
