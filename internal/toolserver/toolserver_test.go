package toolserver

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costwise/costwise/internal/domain"
	"github.com/costwise/costwise/internal/logging"
	"github.com/costwise/costwise/internal/mcptool"
	"github.com/costwise/costwise/internal/pricing"
)

func testLog() *logging.Logger {
	return logging.New(io.Discard, "error")
}

func connect(t *testing.T, srv *server.MCPServer) mcptool.Toolset {
	t.Helper()
	ts, err := mcptool.NewInProcess(context.Background(), "test", srv)
	require.NoError(t, err)
	t.Cleanup(func() { ts.Close() })
	return ts
}

func callJSON(t *testing.T, ts mcptool.Toolset, tool string, args map[string]any, v any) {
	t.Helper()
	out, err := ts.Call(context.Background(), tool, args)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), v))
}

func awsToolset(t *testing.T) mcptool.Toolset {
	t.Helper()
	client := pricing.NewFallbackAWSClient(nil, testLog())
	return connect(t, NewAWSServer(client, testLog()))
}

func gcpToolset(t *testing.T) mcptool.Toolset {
	t.Helper()
	client := pricing.NewFallbackGCPClient(nil, testLog())
	return connect(t, NewGCPServer(client, testLog()))
}

func comparisonToolset(t *testing.T) mcptool.Toolset {
	t.Helper()
	return connect(t, NewComparisonServer(testLog()))
}

func TestAWSServer_EC2Pricing(t *testing.T) {
	ts := awsToolset(t)

	var price domain.ComputePrice
	callJSON(t, ts, "get_aws_ec2_pricing", map[string]any{"instance_type": "t3.micro"}, &price)

	assert.Equal(t, "aws", price.Provider)
	assert.Equal(t, "t3.micro", price.InstanceType)
	assert.Equal(t, "us-east-1", price.Region)
	assert.InDelta(t, 0.0104, price.HourlyUSD, 1e-9)
	assert.True(t, price.Estimated)
}

func TestAWSServer_EC2Pricing_UnsupportedRegion(t *testing.T) {
	ts := awsToolset(t)

	_, err := ts.Call(context.Background(), "get_aws_ec2_pricing", map[string]any{
		"instance_type": "t3.micro",
		"region":        "mars-north-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mars-north-1")
	assert.Contains(t, err.Error(), "us-east-1")
}

func TestAWSServer_StoragePricing(t *testing.T) {
	ts := awsToolset(t)

	var price domain.StoragePrice
	callJSON(t, ts, "get_aws_storage_pricing", map[string]any{
		"storage_type": "s3_standard",
		"region":       "us-west-2",
	}, &price)

	assert.Equal(t, "s3_standard", price.StorageType)
	assert.InDelta(t, 0.023, price.PerGBMonthUSD, 1e-9)
}

func TestAWSServer_CostAnalysis(t *testing.T) {
	ts := awsToolset(t)

	var payload struct {
		CostData []domain.CostRecord `json:"cost_data"`
	}
	callJSON(t, ts, "get_aws_cost_analysis", map[string]any{"months_back": 2}, &payload)
	assert.NotEmpty(t, payload.CostData)
}

func TestAWSServer_CompareInstances(t *testing.T) {
	ts := awsToolset(t)

	var payload struct {
		Region    string                `json:"region"`
		Instances []domain.ComputePrice `json:"instances"`
	}
	callJSON(t, ts, "compare_aws_instances", map[string]any{
		"instance_types": "t3.micro, t3.small ,m5.large",
	}, &payload)

	assert.Equal(t, "us-east-1", payload.Region)
	require.Len(t, payload.Instances, 3)
	assert.Equal(t, "t3.small", payload.Instances[1].InstanceType)
}

func TestAWSServer_RegionsInfo(t *testing.T) {
	ts := awsToolset(t)

	var payload struct {
		Regions       []string `json:"regions"`
		InstanceTypes []string `json:"instance_types"`
		StorageTypes  []string `json:"storage_types"`
	}
	callJSON(t, ts, "get_aws_regions_info", nil, &payload)

	assert.Contains(t, payload.Regions, "eu-central-1")
	assert.Contains(t, payload.InstanceTypes, "t3.medium")
	assert.Contains(t, payload.StorageTypes, "gp3")
}

func TestAWSServer_AdvertisesAllTools(t *testing.T) {
	ts := awsToolset(t)

	names, err := ts.Tools(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"get_aws_ec2_pricing",
		"get_aws_storage_pricing",
		"get_aws_cost_analysis",
		"compare_aws_instances",
		"get_aws_regions_info",
	}, names)
}

func TestGCPServer_ComputePricing(t *testing.T) {
	ts := gcpToolset(t)

	var price domain.ComputePrice
	callJSON(t, ts, "get_gcp_compute_pricing", map[string]any{"machine_type": "e2-medium"}, &price)

	assert.Equal(t, "gcp", price.Provider)
	assert.Equal(t, "us-central1", price.Region)
	assert.True(t, price.Estimated)
	assert.Greater(t, price.MonthlyUSD, 0.0)
}

func TestGCPServer_UnsupportedRegion(t *testing.T) {
	ts := gcpToolset(t)

	_, err := ts.Call(context.Background(), "get_gcp_storage_pricing", map[string]any{
		"storage_type": "standard",
		"region":       "atlantis1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "us-central1")
}

func TestGCPServer_SustainedUseDiscount(t *testing.T) {
	ts := gcpToolset(t)

	var est domain.SustainedUseEstimate
	callJSON(t, ts, "calculate_gcp_sustained_use_discount", map[string]any{
		"machine_type":    "n2-standard-4",
		"hours_per_month": 720,
	}, &est)

	assert.InDelta(t, 30.0, est.DiscountPercent, 1e-9)
	assert.Less(t, est.EffectiveMonthlyUSD, est.BaseMonthlyUSD)
}

func TestGCPServer_SustainedUseDiscount_RejectsZeroHours(t *testing.T) {
	ts := gcpToolset(t)

	_, err := ts.Call(context.Background(), "calculate_gcp_sustained_use_discount", map[string]any{
		"machine_type":    "n2-standard-4",
		"hours_per_month": 0,
	})
	require.Error(t, err)
}

func TestGCPServer_ServicesList(t *testing.T) {
	ts := gcpToolset(t)

	var payload struct {
		Services []pricing.GCPService `json:"services"`
	}
	callJSON(t, ts, "get_gcp_services_list", nil, &payload)
	assert.Len(t, payload.Services, 5)
}

func TestGCPServer_CompareMachineTypes(t *testing.T) {
	ts := gcpToolset(t)

	var payload struct {
		Machines []domain.ComputePrice `json:"machines"`
	}
	callJSON(t, ts, "compare_gcp_instances", map[string]any{
		"machine_types": "e2-micro,e2-small",
		"region":        "europe-west1",
	}, &payload)

	require.Len(t, payload.Machines, 2)
	assert.Equal(t, "europe-west1", payload.Machines[0].Region)
}

func TestComparisonServer_CompareCompute(t *testing.T) {
	ts := comparisonToolset(t)

	aws := `{"provider":"aws","instance_type":"t3.medium","region":"us-east-1","hourly_usd":0.0416,"monthly_usd":29.95}`
	gcp := `{"provider":"gcp","instance_type":"e2-medium","region":"us-central1","hourly_usd":0.0335,"monthly_usd":24.12}`

	var cmp domain.ComputeComparison
	callJSON(t, ts, "compare_cloud_instances", map[string]any{
		"aws_instance_data": aws,
		"gcp_instance_data": gcp,
		"workload_type":     "data_intensive",
	}, &cmp)

	assert.Equal(t, "data_intensive", cmp.WorkloadType)
	assert.Contains(t, []string{"aws", "gcp"}, cmp.Winner)
	assert.GreaterOrEqual(t, cmp.Confidence, 0.0)
	assert.NotEmpty(t, cmp.Reasons)
}

func TestComparisonServer_CompareCompute_BadJSON(t *testing.T) {
	ts := comparisonToolset(t)

	_, err := ts.Call(context.Background(), "compare_cloud_instances", map[string]any{
		"aws_instance_data": "{not json",
		"gcp_instance_data": "{}",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aws_instance_data")
}

func TestComparisonServer_CompareStorage(t *testing.T) {
	ts := comparisonToolset(t)

	var cmp domain.StorageComparison
	callJSON(t, ts, "compare_storage_costs", map[string]any{
		"aws_storage_data": `{"provider":"aws","storage_type":"s3_standard","per_gb_month_usd":0.023}`,
		"gcp_storage_data": `{"provider":"gcp","storage_type":"standard","per_gb_month_usd":0.020}`,
		"storage_size_gb":  500,
	}, &cmp)

	assert.Equal(t, "gcp", cmp.Winner)
	assert.InDelta(t, 10.0, cmp.GCPMonthlyUSD, 1e-9)
}

func TestComparisonServer_TCO(t *testing.T) {
	ts := comparisonToolset(t)

	var report domain.TCOReport
	callJSON(t, ts, "calculate_total_cost_ownership", map[string]any{
		"compute_costs":       `{"aws":100,"gcp":90}`,
		"storage_costs":       `{"aws":20,"gcp":25}`,
		"time_horizon_months": 12,
	}, &report)

	assert.Equal(t, 12, report.TimeHorizonMonths)
	assert.InDelta(t, (100+20)*1.15*12, report.AWS.TotalUSD, 1e-6)
	assert.InDelta(t, (90+25)*1.12*12, report.GCP.TotalUSD, 1e-6)
}

func TestComparisonServer_MigrationRecommendation(t *testing.T) {
	ts := comparisonToolset(t)

	var plan domain.MigrationPlan
	callJSON(t, ts, "generate_migration_recommendation", map[string]any{
		"current_provider":     "AWS",
		"target_provider":      "GCP",
		"workload_description": "A small stateless web service",
		"budget_constraints":   "tight",
	}, &plan)

	assert.Equal(t, "aws", plan.CurrentProvider)
	assert.Equal(t, "gcp", plan.TargetProvider)
	assert.Equal(t, "low", plan.Complexity)
	assert.NotEmpty(t, plan.Phases)
	assert.NotEmpty(t, plan.Tooling)
}
