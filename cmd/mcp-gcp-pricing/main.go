// mcp-gcp-pricing is a standalone MCP server exposing GCP pricing tools
// over stdio. Logs go to stderr so stdout stays clean for the protocol.
//
// Environment:
//
//	COSTWISE_LIVE=1           query the Cloud Billing Catalog API
//	COSTWISE_GCP_PROJECT      project billed for API quota (optional)
//	COSTWISE_CACHE_ADDR       Redis address for the price cache (optional)
//	COSTWISE_CACHE_PASSWORD   Redis password (optional)
//	COSTWISE_LOG_LEVEL        log level (default info)
package main

import (
	"context"
	"os"

	"github.com/costwise/costwise/internal/logging"
	"github.com/costwise/costwise/internal/pricing"
	"github.com/costwise/costwise/internal/toolserver"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	log := logging.NewJSON(os.Stderr, os.Getenv("COSTWISE_LOG_LEVEL"))

	var cache *pricing.Cache
	if addr := os.Getenv("COSTWISE_CACHE_ADDR"); addr != "" {
		cache = pricing.NewCache(addr, os.Getenv("COSTWISE_CACHE_PASSWORD"), 0, log)
		defer cache.Close()
	}

	var client *pricing.GCPClient
	if os.Getenv("COSTWISE_LIVE") == "1" {
		client = pricing.NewGCPClient(context.Background(), os.Getenv("COSTWISE_GCP_PROJECT"), cache, log)
	} else {
		client = pricing.NewFallbackGCPClient(cache, log)
	}

	srv := toolserver.NewGCPServer(client, log)
	if err := server.ServeStdio(srv); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
