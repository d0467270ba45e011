package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"

	"github.com/costwise/costwise/internal/catalog"
	"github.com/costwise/costwise/internal/domain"
	"github.com/costwise/costwise/internal/logging"
)

// AWSClient resolves AWS prices. Without usable credentials it stays in
// fallback mode and serves estimates from the static tables.
type AWSClient struct {
	pricing *pricing.Client
	costs   *costexplorer.Client
	cache   *Cache
	log     *logging.Logger
}

// NewAWSClient builds an AWS pricing client. The Pricing API only exists in
// a few regions, so the pricing client is always pinned to us-east-1
// regardless of the region being priced.
func NewAWSClient(ctx context.Context, cache *Cache, log *logging.Logger) *AWSClient {
	c := &AWSClient{cache: cache, log: log.Sub("aws")}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion("us-east-1"))
	if err != nil {
		c.log.Warn().Err(err).Msg("AWS config unavailable, using estimated prices")
		return c
	}
	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		c.log.Warn().Msg("AWS credentials not found, using estimated prices")
		return c
	}

	c.pricing = pricing.NewFromConfig(cfg)
	c.costs = costexplorer.NewFromConfig(cfg)
	c.log.Info().Msg("AWS clients initialized")
	return c
}

// NewFallbackAWSClient builds a client that never touches AWS APIs and only
// serves estimates from the static tables.
func NewFallbackAWSClient(cache *Cache, log *logging.Logger) *AWSClient {
	return &AWSClient{cache: cache, log: log.Sub("aws")}
}

// Live reports whether the client talks to real AWS APIs.
func (c *AWSClient) Live() bool {
	return c.pricing != nil
}

// EC2Pricing returns the on-demand price for a Linux instance with shared
// tenancy in the given region.
func (c *AWSClient) EC2Pricing(ctx context.Context, instanceType, region string) (domain.ComputePrice, error) {
	if !catalog.AWSRegionSupported(region) {
		return domain.ComputePrice{}, fmt.Errorf("aws region %q: %w", region, domain.ErrUnsupportedRegion)
	}

	key := ""
	if c.cache != nil {
		key = c.cache.key("aws", "compute", instanceType, region)
	}
	return getOrCompute(ctx, c.cache, key, func() (domain.ComputePrice, error) {
		return c.ec2Pricing(ctx, instanceType, region)
	})
}

func (c *AWSClient) ec2Pricing(ctx context.Context, instanceType, region string) (domain.ComputePrice, error) {
	if c.pricing == nil {
		return fallbackEC2Price(instanceType, region), nil
	}

	location, _ := catalog.AWSLocationName(region)
	out, err := c.pricing.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: aws.String("AmazonEC2"),
		MaxResults:  aws.Int32(1),
		Filters: []pricingtypes.Filter{
			{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("instanceType"), Value: aws.String(instanceType)},
			{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("location"), Value: aws.String(location)},
			{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("tenancy"), Value: aws.String("Shared")},
			{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("operatingSystem"), Value: aws.String("Linux")},
			{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("preInstalledSw"), Value: aws.String("NA")},
			{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("capacitystatus"), Value: aws.String("Used")},
		},
	})
	if err != nil {
		c.log.Error().Err(err).Str("instanceType", instanceType).Msg("GetProducts failed, falling back")
		return fallbackEC2Price(instanceType, region), nil
	}
	if len(out.PriceList) == 0 {
		return fallbackEC2Price(instanceType, region), nil
	}

	hourly, err := parseOnDemandUSD([]byte(out.PriceList[0]))
	if err != nil {
		c.log.Error().Err(err).Msg("price list parse failed, falling back")
		return fallbackEC2Price(instanceType, region), nil
	}

	return domain.ComputePrice{
		Provider:     "aws",
		InstanceType: instanceType,
		Region:       region,
		HourlyUSD:    hourly,
		MonthlyUSD:   hourly * hoursPerMonth,
		Currency:     "USD",
	}, nil
}

// StoragePricing returns the per-GB-month price for an S3 storage class or
// EBS volume type.
func (c *AWSClient) StoragePricing(ctx context.Context, storageType, region string) (domain.StoragePrice, error) {
	if !catalog.AWSRegionSupported(region) {
		return domain.StoragePrice{}, fmt.Errorf("aws region %q: %w", region, domain.ErrUnsupportedRegion)
	}

	key := ""
	if c.cache != nil {
		key = c.cache.key("aws", "storage", storageType, region)
	}
	return getOrCompute(ctx, c.cache, key, func() (domain.StoragePrice, error) {
		return c.storagePricing(ctx, storageType, region)
	})
}

func (c *AWSClient) storagePricing(ctx context.Context, storageType, region string) (domain.StoragePrice, error) {
	if c.pricing == nil {
		return fallbackAWSStoragePrice(storageType, region), nil
	}

	location, _ := catalog.AWSLocationName(region)
	serviceCode := "AmazonEBS"
	filters := []pricingtypes.Filter{
		{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("location"), Value: aws.String(location)},
		{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("volumeApiName"), Value: aws.String(storageType)},
	}
	if strings.HasPrefix(storageType, "s3_") {
		serviceCode = "AmazonS3"
		filters = []pricingtypes.Filter{
			{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("location"), Value: aws.String(location)},
			{Type: pricingtypes.FilterTypeTermMatch, Field: aws.String("storageClass"), Value: aws.String(s3StorageClass(storageType))},
		}
	}

	out, err := c.pricing.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: aws.String(serviceCode),
		MaxResults:  aws.Int32(1),
		Filters:     filters,
	})
	if err != nil {
		c.log.Error().Err(err).Str("storageType", storageType).Msg("GetProducts failed, falling back")
		return fallbackAWSStoragePrice(storageType, region), nil
	}
	if len(out.PriceList) == 0 {
		return fallbackAWSStoragePrice(storageType, region), nil
	}

	perGB, err := parseOnDemandUSD([]byte(out.PriceList[0]))
	if err != nil {
		c.log.Error().Err(err).Msg("price list parse failed, falling back")
		return fallbackAWSStoragePrice(storageType, region), nil
	}

	return domain.StoragePrice{
		Provider:      "aws",
		StorageType:   storageType,
		Region:        region,
		PerGBMonthUSD: perGB,
		Currency:      "USD",
	}, nil
}

func s3StorageClass(storageType string) string {
	switch storageType {
	case "s3_standard":
		return "General Purpose"
	case "s3_ia":
		return "Infrequent Access"
	case "s3_glacier":
		return "Archive"
	default:
		return "General Purpose"
	}
}

// CostHistory returns monthly billed cost per service for the trailing
// monthsBack months.
func (c *AWSClient) CostHistory(ctx context.Context, monthsBack int) ([]domain.CostRecord, error) {
	if monthsBack <= 0 {
		monthsBack = 3
	}
	end := time.Now().UTC()
	start := end.AddDate(0, -monthsBack, 0)

	if c.costs == nil {
		return fallbackCostHistory(start, end), nil
	}

	out, err := c.costs.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
		TimePeriod: &cetypes.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: cetypes.GranularityMonthly,
		Metrics:     []string{"BlendedCost", "UsageQuantity"},
		GroupBy: []cetypes.GroupDefinition{
			{Type: cetypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	})
	if err != nil {
		c.log.Error().Err(err).Msg("GetCostAndUsage failed, falling back")
		return fallbackCostHistory(start, end), nil
	}

	var records []domain.CostRecord
	for _, period := range out.ResultsByTime {
		for _, group := range period.Groups {
			rec := domain.CostRecord{
				PeriodStart: aws.ToString(period.TimePeriod.Start),
				PeriodEnd:   aws.ToString(period.TimePeriod.End),
			}
			if len(group.Keys) > 0 {
				rec.Service = group.Keys[0]
			}
			if m, ok := group.Metrics["BlendedCost"]; ok {
				rec.AmountUSD, _ = strconv.ParseFloat(aws.ToString(m.Amount), 64)
			}
			if m, ok := group.Metrics["UsageQuantity"]; ok {
				rec.UsageQuantity, _ = strconv.ParseFloat(aws.ToString(m.Amount), 64)
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// parseOnDemandUSD digs the USD rate out of a Pricing API price list entry.
// The document nests the rate under terms.OnDemand.<sku>.priceDimensions.
// <code>.pricePerUnit.USD.
func parseOnDemandUSD(priceList []byte) (float64, error) {
	var doc struct {
		Terms struct {
			OnDemand map[string]struct {
				PriceDimensions map[string]struct {
					PricePerUnit map[string]string `json:"pricePerUnit"`
				} `json:"priceDimensions"`
			} `json:"OnDemand"`
		} `json:"terms"`
	}
	if err := json.Unmarshal(priceList, &doc); err != nil {
		return 0, fmt.Errorf("decoding price list: %w", err)
	}

	for _, term := range doc.Terms.OnDemand {
		for _, dim := range term.PriceDimensions {
			raw, ok := dim.PricePerUnit["USD"]
			if !ok {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return 0, fmt.Errorf("parsing USD rate %q: %w", raw, err)
			}
			if v > 0 {
				return v, nil
			}
		}
	}
	return 0, fmt.Errorf("no on-demand USD rate in price list")
}
