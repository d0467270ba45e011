// Package toolserver assembles the MCP servers exposed by the mcp-aws-pricing,
// mcp-gcp-pricing, and mcp-comparison binaries. Tool results are JSON so the
// analysis pipeline can parse them without scraping prose.
package toolserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/costwise/costwise/internal/catalog"
	"github.com/costwise/costwise/internal/domain"
	"github.com/costwise/costwise/internal/logging"
	"github.com/costwise/costwise/internal/pricing"
	"github.com/costwise/costwise/internal/version"
)

// AWSServerName identifies the AWS pricing MCP server.
const AWSServerName = "aws-pricing"

// NewAWSServer builds the AWS pricing MCP server around a pricing client.
func NewAWSServer(client *pricing.AWSClient, log *logging.Logger) *server.MCPServer {
	s := server.NewMCPServer(AWSServerName, version.Version)
	log = log.Sub("aws-pricing")

	s.AddTool(mcp.NewTool("get_aws_ec2_pricing",
		mcp.WithDescription("Get on-demand pricing for an AWS EC2 instance type."),
		mcp.WithString("instance_type", mcp.Required(), mcp.Description("EC2 instance type (e.g. t3.medium)")),
		mcp.WithString("region", mcp.Description("AWS region (default us-east-1)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		instanceType, err := req.RequireString("instance_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		region := req.GetString("region", "us-east-1")
		log.Debug().Str("tool", "get_aws_ec2_pricing").Str("instanceType", instanceType).Str("region", region).Msg("tool called")

		price, err := client.EC2Pricing(ctx, instanceType, region)
		if err != nil {
			return regionError(err, catalog.AWSRegions), nil
		}
		return jsonResult(price)
	})

	s.AddTool(mcp.NewTool("get_aws_storage_pricing",
		mcp.WithDescription("Get per-GB-month pricing for an AWS storage class (S3) or EBS volume type."),
		mcp.WithString("storage_type", mcp.Required(), mcp.Description("Storage type (e.g. s3_standard, gp3)")),
		mcp.WithString("region", mcp.Description("AWS region (default us-east-1)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		storageType, err := req.RequireString("storage_type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		region := req.GetString("region", "us-east-1")
		log.Debug().Str("tool", "get_aws_storage_pricing").Str("storageType", storageType).Str("region", region).Msg("tool called")

		price, err := client.StoragePricing(ctx, storageType, region)
		if err != nil {
			return regionError(err, catalog.AWSRegions), nil
		}
		return jsonResult(price)
	})

	s.AddTool(mcp.NewTool("get_aws_cost_analysis",
		mcp.WithDescription("Get historical AWS cost and usage grouped by service."),
		mcp.WithNumber("months_back", mcp.Description("Months of history to fetch (default 3)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		monthsBack := req.GetInt("months_back", 3)
		log.Debug().Str("tool", "get_aws_cost_analysis").Int("monthsBack", monthsBack).Msg("tool called")

		records, err := client.CostHistory(ctx, monthsBack)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"cost_data": records})
	})

	s.AddTool(mcp.NewTool("compare_aws_instances",
		mcp.WithDescription("Compare pricing across multiple EC2 instance types in one region."),
		mcp.WithString("instance_types", mcp.Required(), mcp.Description("Comma-separated instance types")),
		mcp.WithString("region", mcp.Description("AWS region (default us-east-1)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("instance_types")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		region := req.GetString("region", "us-east-1")

		var prices []domain.ComputePrice
		for _, it := range splitList(raw) {
			price, err := client.EC2Pricing(ctx, it, region)
			if err != nil {
				return regionError(err, catalog.AWSRegions), nil
			}
			prices = append(prices, price)
		}
		if len(prices) == 0 {
			return mcp.NewToolResultError("no instance types provided"), nil
		}
		return jsonResult(map[string]any{"region": region, "instances": prices})
	})

	s.AddTool(mcp.NewTool("get_aws_regions_info",
		mcp.WithDescription("List the supported AWS regions, instance types, and storage types."),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(map[string]any{
			"regions":        catalog.AWSRegions,
			"instance_types": catalog.AWSInstanceTypes,
			"storage_types":  catalog.AWSStorageTypes,
		})
	})

	return s
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func regionError(err error, supported []string) *mcp.CallToolResult {
	if errors.Is(err, domain.ErrUnsupportedRegion) {
		return mcp.NewToolResultError(fmt.Sprintf("%v (supported: %s)", err, strings.Join(supported, ", ")))
	}
	return mcp.NewToolResultError(err.Error())
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
