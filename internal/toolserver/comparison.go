package toolserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/costwise/costwise/internal/compare"
	"github.com/costwise/costwise/internal/domain"
	"github.com/costwise/costwise/internal/logging"
	"github.com/costwise/costwise/internal/version"
)

// ComparisonServerName identifies the cross-provider comparison MCP server.
const ComparisonServerName = "cloud-comparison"

// NewComparisonServer builds the comparison MCP server. Its tools are pure
// functions over price data passed in as JSON, so the server needs no cloud
// clients of its own.
func NewComparisonServer(log *logging.Logger) *server.MCPServer {
	s := server.NewMCPServer(ComparisonServerName, version.Version)
	log = log.Sub("comparison")

	s.AddTool(mcp.NewTool("compare_cloud_instances",
		mcp.WithDescription("Score an AWS instance against a GCP machine type across cost, performance, scalability, reliability, and maintenance."),
		mcp.WithString("aws_instance_data", mcp.Required(), mcp.Description("AWS compute price as JSON")),
		mcp.WithString("gcp_instance_data", mcp.Required(), mcp.Description("GCP compute price as JSON")),
		mcp.WithString("workload_type", mcp.Description("Workload profile (default general)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var aws, gcp domain.ComputePrice
		if res := decodeArg(req, "aws_instance_data", &aws); res != nil {
			return res, nil
		}
		if res := decodeArg(req, "gcp_instance_data", &gcp); res != nil {
			return res, nil
		}
		workload := req.GetString("workload_type", "general")
		log.Debug().Str("tool", "compare_cloud_instances").Str("workload", workload).Msg("tool called")

		return jsonResult(compare.Compute(aws, gcp, workload))
	})

	s.AddTool(mcp.NewTool("compare_storage_costs",
		mcp.WithDescription("Compare AWS and GCP storage pricing for a given data size."),
		mcp.WithString("aws_storage_data", mcp.Required(), mcp.Description("AWS storage price as JSON")),
		mcp.WithString("gcp_storage_data", mcp.Required(), mcp.Description("GCP storage price as JSON")),
		mcp.WithNumber("storage_size_gb", mcp.Description("Stored data size in GB (default 1000)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var aws, gcp domain.StoragePrice
		if res := decodeArg(req, "aws_storage_data", &aws); res != nil {
			return res, nil
		}
		if res := decodeArg(req, "gcp_storage_data", &gcp); res != nil {
			return res, nil
		}
		sizeGB := req.GetFloat("storage_size_gb", 1000)
		if sizeGB <= 0 {
			return mcp.NewToolResultError("storage_size_gb must be positive"), nil
		}

		return jsonResult(compare.Storage(aws, gcp, sizeGB))
	})

	s.AddTool(mcp.NewTool("calculate_total_cost_ownership",
		mcp.WithDescription("Project total cost of ownership for both providers over a time horizon, including operational overhead."),
		mcp.WithString("compute_costs", mcp.Required(), mcp.Description(`Monthly compute costs as JSON, e.g. {"aws": 120, "gcp": 110}`)),
		mcp.WithString("storage_costs", mcp.Required(), mcp.Description("Monthly storage costs as JSON")),
		mcp.WithString("additional_costs", mcp.Description("Monthly additional service costs as JSON (default zero)")),
		mcp.WithNumber("time_horizon_months", mcp.Description("Projection horizon in months (default 36)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var computeCosts, storageCosts, additional compare.MonthlyCosts
		if res := decodeArg(req, "compute_costs", &computeCosts); res != nil {
			return res, nil
		}
		if res := decodeArg(req, "storage_costs", &storageCosts); res != nil {
			return res, nil
		}
		if raw := req.GetString("additional_costs", ""); raw != "" {
			if err := json.Unmarshal([]byte(raw), &additional); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid additional_costs: %v", err)), nil
			}
		}
		horizon := req.GetInt("time_horizon_months", 36)

		return jsonResult(compare.TCO(computeCosts, storageCosts, additional, horizon))
	})

	s.AddTool(mcp.NewTool("generate_migration_recommendation",
		mcp.WithDescription("Draft a migration plan between providers with complexity, duration, cost estimate, and phases."),
		mcp.WithString("current_provider", mcp.Required(), mcp.Description("Provider running the workload today (aws or gcp)")),
		mcp.WithString("target_provider", mcp.Required(), mcp.Description("Provider to migrate to (aws or gcp)")),
		mcp.WithString("workload_description", mcp.Required(), mcp.Description("Free-text description of the workload")),
		mcp.WithString("budget_constraints", mcp.Description("tight, moderate, or flexible (default moderate)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		current, err := req.RequireString("current_provider")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target, err := req.RequireString("target_provider")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		description, err := req.RequireString("workload_description")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		budget := req.GetString("budget_constraints", "moderate")

		return jsonResult(compare.Migration(current, target, description, budget))
	})

	return s
}

// decodeArg unmarshals a required JSON string argument into v. It returns a
// tool error result when the argument is missing or malformed, nil on success.
func decodeArg(req mcp.CallToolRequest, name string, v any) *mcp.CallToolResult {
	raw, err := req.RequireString(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid %s: %v", name, err))
	}
	return nil
}
