package toolserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/costwise/costwise/internal/catalog"
	"github.com/costwise/costwise/internal/domain"
	"github.com/costwise/costwise/internal/logging"
	"github.com/costwise/costwise/internal/pricing"
	"github.com/costwise/costwise/internal/version"
)

// GCPServerName identifies the GCP pricing MCP server.
const GCPServerName = "gcp-pricing"

// NewGCPServer builds the GCP pricing MCP server around a billing client.
func NewGCPServer(client *pricing.GCPClient, log *logging.Logger) *server.MCPServer {
	s := server.NewMCPServer(GCPServerName, version.Version)
	log = log.Sub("gcp-pricing")

	s.AddTool(mcp.NewTool("get_gcp_compute_pricing",
		mcp.WithDescription("Get on-demand pricing for a GCP Compute Engine machine type."),
		mcp.WithString("machine_type", mcp.Required(), mcp.Description("Machine type (e.g. e2-medium)")),
		mcp.WithString("region", mcp.Description("GCP region (default us-central1)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		machineType, err := req.RequireString("machine_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		region := req.GetString("region", "us-central1")
		log.Debug().Str("tool", "get_gcp_compute_pricing").Str("machineType", machineType).Str("region", region).Msg("tool called")

		price, err := client.ComputePricing(ctx, machineType, region)
		if err != nil {
			return regionError(err, catalog.GCPRegions), nil
		}
		return jsonResult(price)
	})

	s.AddTool(mcp.NewTool("get_gcp_storage_pricing",
		mcp.WithDescription("Get per-GB-month pricing for a GCP Cloud Storage class."),
		mcp.WithString("storage_type", mcp.Required(), mcp.Description("Storage class (e.g. standard, nearline)")),
		mcp.WithString("region", mcp.Description("GCP region (default us-central1)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		storageType, err := req.RequireString("storage_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		region := req.GetString("region", "us-central1")
		log.Debug().Str("tool", "get_gcp_storage_pricing").Str("storageType", storageType).Str("region", region).Msg("tool called")

		price, err := client.StoragePricing(ctx, storageType, region)
		if err != nil {
			return regionError(err, catalog.GCPRegions), nil
		}
		return jsonResult(price)
	})

	s.AddTool(mcp.NewTool("compare_gcp_instances",
		mcp.WithDescription("Compare pricing across multiple GCP machine types in one region."),
		mcp.WithString("machine_types", mcp.Required(), mcp.Description("Comma-separated machine types")),
		mcp.WithString("region", mcp.Description("GCP region (default us-central1)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("machine_types")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		region := req.GetString("region", "us-central1")

		var prices []domain.ComputePrice
		for _, mt := range splitList(raw) {
			price, err := client.ComputePricing(ctx, mt, region)
			if err != nil {
				return regionError(err, catalog.GCPRegions), nil
			}
			prices = append(prices, price)
		}
		if len(prices) == 0 {
			return mcp.NewToolResultError("no machine types provided"), nil
		}
		return jsonResult(map[string]any{"region": region, "machines": prices})
	})

	s.AddTool(mcp.NewTool("calculate_gcp_sustained_use_discount",
		mcp.WithDescription("Estimate the sustained use discount for a machine type at a given monthly usage."),
		mcp.WithString("machine_type", mcp.Required(), mcp.Description("Machine type (e.g. n2-standard-4)")),
		mcp.WithNumber("hours_per_month", mcp.Required(), mcp.Description("Expected running hours per month")),
		mcp.WithString("region", mcp.Description("GCP region (default us-central1)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		machineType, err := req.RequireString("machine_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		hours := req.GetFloat("hours_per_month", 0)
		if hours <= 0 {
			return mcp.NewToolResultError("hours_per_month must be positive"), nil
		}
		region := req.GetString("region", "us-central1")

		est, err := client.SustainedUseDiscount(ctx, machineType, hours, region)
		if err != nil {
			return regionError(err, catalog.GCPRegions), nil
		}
		return jsonResult(est)
	})

	s.AddTool(mcp.NewTool("get_gcp_services_list",
		mcp.WithDescription("List GCP services available in the billing catalog."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		services, err := client.Services(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"services": services})
	})

	s.AddTool(mcp.NewTool("get_gcp_regions_info",
		mcp.WithDescription("List the supported GCP regions, machine types, and storage classes."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(map[string]any{
			"regions":       catalog.GCPRegions,
			"machine_types": catalog.GCPMachineTypes,
			"storage_types": catalog.GCPStorageTypes,
		})
	})

	return s
}
