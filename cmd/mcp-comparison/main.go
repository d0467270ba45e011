// mcp-comparison is a standalone MCP server exposing the cross-cloud
// comparison tools over stdio. It needs no provider credentials.
package main

import (
	"os"

	"github.com/costwise/costwise/internal/logging"
	"github.com/costwise/costwise/internal/toolserver"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	log := logging.NewJSON(os.Stderr, os.Getenv("COSTWISE_LOG_LEVEL"))

	srv := toolserver.NewComparisonServer(log)
	if err := server.ServeStdio(srv); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
