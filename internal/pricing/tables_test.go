package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costwise/costwise/internal/domain"
	"github.com/costwise/costwise/internal/logging"
)

func testLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func fallbackAWS(t *testing.T) *AWSClient {
	t.Helper()
	return &AWSClient{log: testLog().Sub("aws")}
}

func fallbackGCP(t *testing.T) *GCPClient {
	t.Helper()
	return &GCPClient{log: testLog().Sub("gcp")}
}

func TestFallbackEC2Price(t *testing.T) {
	p := fallbackEC2Price("t3.medium", "us-east-1")
	assert.Equal(t, "aws", p.Provider)
	assert.InDelta(t, 0.0416, p.HourlyUSD, 1e-9)
	assert.InDelta(t, 0.0416*720, p.MonthlyUSD, 1e-9)
	assert.True(t, p.Estimated)
}

func TestFallbackEC2Price_EuropeMultiplier(t *testing.T) {
	us := fallbackEC2Price("m5.large", "us-east-1")
	eu := fallbackEC2Price("m5.large", "eu-west-1")
	assert.InDelta(t, us.HourlyUSD*1.2, eu.HourlyUSD, 1e-9)
}

func TestFallbackEC2Price_UnknownType(t *testing.T) {
	p := fallbackEC2Price("x1e.32xlarge", "us-east-1")
	assert.InDelta(t, 0.1, p.HourlyUSD, 1e-9)
}

func TestFallbackAWSStoragePrice(t *testing.T) {
	p := fallbackAWSStoragePrice("s3_standard", "us-east-1")
	assert.InDelta(t, 0.023, p.PerGBMonthUSD, 1e-9)

	eu := fallbackAWSStoragePrice("s3_standard", "eu-central-1")
	assert.InDelta(t, 0.023*1.1, eu.PerGBMonthUSD, 1e-9)
}

func TestFallbackGCPComputePrice(t *testing.T) {
	p := fallbackGCPComputePrice("e2-medium", "us-central1")
	assert.Equal(t, "gcp", p.Provider)
	assert.InDelta(t, 0.024, p.HourlyUSD, 1e-9)

	eu := fallbackGCPComputePrice("e2-medium", "europe-west1")
	assert.InDelta(t, 0.024*1.15, eu.HourlyUSD, 1e-9)
}

func TestFallbackGCPStoragePrice(t *testing.T) {
	p := fallbackGCPStoragePrice("Standard", "us-central1")
	assert.InDelta(t, 0.020, p.PerGBMonthUSD, 1e-9, "lookup is case-insensitive")

	eu := fallbackGCPStoragePrice("nearline", "europe-west2")
	assert.InDelta(t, 0.010*1.1, eu.PerGBMonthUSD, 1e-9)
}

func TestAWSClient_EC2Pricing_Fallback(t *testing.T) {
	c := fallbackAWS(t)
	p, err := c.EC2Pricing(context.Background(), "t3.micro", "us-west-2")
	require.NoError(t, err)
	assert.True(t, p.Estimated)
	assert.InDelta(t, 0.0104, p.HourlyUSD, 1e-9)
}

func TestAWSClient_EC2Pricing_UnsupportedRegion(t *testing.T) {
	c := fallbackAWS(t)
	_, err := c.EC2Pricing(context.Background(), "t3.micro", "mars-north-1")
	assert.ErrorIs(t, err, domain.ErrUnsupportedRegion)
}

func TestAWSClient_CostHistory_Fallback(t *testing.T) {
	c := fallbackAWS(t)
	records, err := c.CostHistory(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Amazon Elastic Compute Cloud - Compute", records[0].Service)
	assert.InDelta(t, 150.75, records[0].AmountUSD, 1e-9)
}

func TestGCPClient_ComputePricing_UnsupportedRegion(t *testing.T) {
	c := fallbackGCP(t)
	_, err := c.ComputePricing(context.Background(), "e2-micro", "eu-west-1")
	assert.ErrorIs(t, err, domain.ErrUnsupportedRegion)
}

func TestGCPClient_SustainedUseDiscount(t *testing.T) {
	c := fallbackGCP(t)
	ctx := context.Background()

	// Full month usage caps the discount at 30%.
	full, err := c.SustainedUseDiscount(ctx, "n1-standard-1", 720, "us-central1")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, full.UsageFraction, 1e-9)
	assert.InDelta(t, 30.0, full.DiscountPercent, 1e-9)
	assert.InDelta(t, full.BaseMonthlyUSD*0.70, full.EffectiveMonthlyUSD, 1e-6)

	// Below 25% usage there is no discount.
	low, err := c.SustainedUseDiscount(ctx, "n1-standard-1", 100, "us-central1")
	require.NoError(t, err)
	assert.Zero(t, low.DiscountPercent)
	assert.InDelta(t, low.BaseMonthlyUSD, low.EffectiveMonthlyUSD, 1e-9)

	// At exactly 25% usage the discount starts phasing in.
	edge, err := c.SustainedUseDiscount(ctx, "n1-standard-1", 180, "us-central1")
	require.NoError(t, err)
	assert.InDelta(t, 0.25*0.30*100, edge.DiscountPercent, 1e-9)
}

func TestGCPClient_Services_Fallback(t *testing.T) {
	c := fallbackGCP(t)
	services, err := c.Services(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 5)
	assert.Equal(t, "Compute Engine", services[0].DisplayName)
}

func TestBillingOptions(t *testing.T) {
	assert.Empty(t, billingOptions(""))
	assert.Len(t, billingOptions("cost-reporting"), 1)
}

func TestMachineFamily(t *testing.T) {
	assert.Equal(t, "e2", machineFamily("e2-standard-4"))
	assert.Equal(t, "n1", machineFamily("n1-standard-1"))
	assert.Equal(t, "custom", machineFamily("custom"))
}

func TestParseOnDemandUSD(t *testing.T) {
	priceList := []byte(`{
		"terms": {
			"OnDemand": {
				"ABC123.JRTCKXETXF": {
					"priceDimensions": {
						"ABC123.JRTCKXETXF.6YS6EN2CT7": {
							"pricePerUnit": {"USD": "0.0416000000"}
						}
					}
				}
			}
		}
	}`)
	rate, err := parseOnDemandUSD(priceList)
	require.NoError(t, err)
	assert.InDelta(t, 0.0416, rate, 1e-9)
}

func TestParseOnDemandUSD_NoRate(t *testing.T) {
	_, err := parseOnDemandUSD([]byte(`{"terms":{"OnDemand":{}}}`))
	assert.Error(t, err)
}

func TestFallbackCostHistory_Period(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	records := fallbackCostHistory(start, end)
	require.Len(t, records, 2)
	assert.Equal(t, "2026-05-01", records[0].PeriodStart)
	assert.Equal(t, "2026-08-01", records[0].PeriodEnd)
}
