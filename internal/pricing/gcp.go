package pricing

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"google.golang.org/api/cloudbilling/v1"
	"google.golang.org/api/option"

	"github.com/costwise/costwise/internal/catalog"
	"github.com/costwise/costwise/internal/domain"
	"github.com/costwise/costwise/internal/logging"
)

// GCPClient resolves GCP prices through the Cloud Billing catalog. Without
// application default credentials it stays in fallback mode.
type GCPClient struct {
	billing *cloudbilling.APIService
	cache   *Cache
	log     *logging.Logger
}

// NewGCPClient builds a GCP pricing client using application default
// credentials. A non-empty project is billed for API quota.
func NewGCPClient(ctx context.Context, project string, cache *Cache, log *logging.Logger) *GCPClient {
	c := &GCPClient{cache: cache, log: log.Sub("gcp")}

	svc, err := cloudbilling.NewService(ctx, billingOptions(project)...)
	if err != nil {
		c.log.Warn().Err(err).Msg("GCP credentials not found, using estimated prices")
		return c
	}

	c.billing = svc
	c.log.Info().Msg("GCP billing client initialized")
	return c
}

// billingOptions scopes API quota to the configured project when one is set.
func billingOptions(project string) []option.ClientOption {
	if project == "" {
		return nil
	}
	return []option.ClientOption{option.WithQuotaProject(project)}
}

// NewFallbackGCPClient builds a client that never touches the billing API and
// only serves estimates from the static tables.
func NewFallbackGCPClient(cache *Cache, log *logging.Logger) *GCPClient {
	return &GCPClient{cache: cache, log: log.Sub("gcp")}
}

// Live reports whether the client talks to the real Cloud Billing catalog.
func (c *GCPClient) Live() bool {
	return c.billing != nil
}

// ComputePricing returns the on-demand price for a machine type in the
// given region.
func (c *GCPClient) ComputePricing(ctx context.Context, machineType, region string) (domain.ComputePrice, error) {
	if !catalog.GCPRegionSupported(region) {
		return domain.ComputePrice{}, fmt.Errorf("gcp region %q: %w", region, domain.ErrUnsupportedRegion)
	}

	key := ""
	if c.cache != nil {
		key = c.cache.key("gcp", "compute", machineType, region)
	}
	return getOrCompute(ctx, c.cache, key, func() (domain.ComputePrice, error) {
		return c.computePricing(ctx, machineType, region)
	})
}

func (c *GCPClient) computePricing(ctx context.Context, machineType, region string) (domain.ComputePrice, error) {
	if c.billing == nil {
		return fallbackGCPComputePrice(machineType, region), nil
	}

	hourly, currency, err := c.findSKURate(ctx, "Compute Engine", region, func(desc string) bool {
		d := strings.ToLower(desc)
		return strings.Contains(d, strings.ToLower(machineFamily(machineType))) && strings.Contains(d, "running")
	})
	if err != nil {
		c.log.Error().Err(err).Str("machineType", machineType).Msg("catalog lookup failed, falling back")
		return fallbackGCPComputePrice(machineType, region), nil
	}
	if hourly == 0 {
		return fallbackGCPComputePrice(machineType, region), nil
	}

	return domain.ComputePrice{
		Provider:     "gcp",
		InstanceType: machineType,
		Region:       region,
		HourlyUSD:    hourly,
		MonthlyUSD:   hourly * hoursPerMonth,
		Currency:     currency,
	}, nil
}

// machineFamily extracts the family prefix the billing catalog describes
// SKUs by ("e2-standard-4" prices under the E2 instance SKUs).
func machineFamily(machineType string) string {
	if i := strings.Index(machineType, "-"); i > 0 {
		return machineType[:i]
	}
	return machineType
}

// StoragePricing returns the per-GB-month price for a Cloud Storage class.
func (c *GCPClient) StoragePricing(ctx context.Context, storageType, region string) (domain.StoragePrice, error) {
	if !catalog.GCPRegionSupported(region) {
		return domain.StoragePrice{}, fmt.Errorf("gcp region %q: %w", region, domain.ErrUnsupportedRegion)
	}

	key := ""
	if c.cache != nil {
		key = c.cache.key("gcp", "storage", storageType, region)
	}
	return getOrCompute(ctx, c.cache, key, func() (domain.StoragePrice, error) {
		return c.storagePricing(ctx, storageType, region)
	})
}

func (c *GCPClient) storagePricing(ctx context.Context, storageType, region string) (domain.StoragePrice, error) {
	if c.billing == nil {
		return fallbackGCPStoragePrice(storageType, region), nil
	}

	perGB, currency, err := c.findSKURate(ctx, "Cloud Storage", region, func(desc string) bool {
		return strings.Contains(strings.ToLower(desc), strings.ToLower(storageType))
	})
	if err != nil {
		c.log.Error().Err(err).Str("storageType", storageType).Msg("catalog lookup failed, falling back")
		return fallbackGCPStoragePrice(storageType, region), nil
	}
	if perGB == 0 {
		return fallbackGCPStoragePrice(storageType, region), nil
	}

	return domain.StoragePrice{
		Provider:      "gcp",
		StorageType:   storageType,
		Region:        region,
		PerGBMonthUSD: perGB,
		Currency:      currency,
	}, nil
}

// SustainedUseDiscount estimates the automatic discount GCP applies to an
// instance running hoursPerMonth hours. The discount phases in at 25% usage
// and caps at 30%.
func (c *GCPClient) SustainedUseDiscount(ctx context.Context, machineType string, hours float64, region string) (domain.SustainedUseEstimate, error) {
	price, err := c.ComputePricing(ctx, machineType, region)
	if err != nil {
		return domain.SustainedUseEstimate{}, err
	}

	usage := hours / hoursPerMonth
	if usage > 1 {
		usage = 1
	}

	discount := 0.0
	if usage >= 0.25 {
		discount = usage * 0.30
		if discount > 0.30 {
			discount = 0.30
		}
	}

	base := price.HourlyUSD * hours
	return domain.SustainedUseEstimate{
		MachineType:         machineType,
		Region:              region,
		HoursPerMonth:       hours,
		UsageFraction:       usage,
		DiscountPercent:     discount * 100,
		BaseMonthlyUSD:      base,
		EffectiveMonthlyUSD: base * (1 - discount),
	}, nil
}

// Services lists the available GCP services.
func (c *GCPClient) Services(ctx context.Context) ([]GCPService, error) {
	if c.billing == nil {
		return fallbackGCPServices(), nil
	}

	var services []GCPService
	pageToken := ""
	for {
		call := c.billing.Services.List().Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			c.log.Error().Err(err).Msg("service listing failed, falling back")
			return fallbackGCPServices(), nil
		}
		for _, svc := range resp.Services {
			services = append(services, GCPService{
				ServiceID:   svc.ServiceId,
				DisplayName: svc.DisplayName,
				Entity:      svc.BusinessEntityName,
			})
		}
		if resp.NextPageToken == "" {
			return services, nil
		}
		pageToken = resp.NextPageToken
	}
}

// findSKURate scans the billing catalog for the first SKU of the named
// service matching the description predicate and serving the region, and
// returns the first tiered rate.
func (c *GCPClient) findSKURate(ctx context.Context, serviceName, region string, match func(desc string) bool) (float64, string, error) {
	serviceID, err := c.findService(ctx, serviceName)
	if err != nil {
		return 0, "", err
	}
	if serviceID == "" {
		return 0, "", nil
	}

	pageToken := ""
	for {
		call := c.billing.Services.Skus.List(serviceID).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return 0, "", fmt.Errorf("listing skus for %s: %w", serviceName, err)
		}

		for _, sku := range resp.Skus {
			if !match(sku.Description) || !slices.Contains(sku.ServiceRegions, region) {
				continue
			}
			rate, currency, ok := firstTieredRate(sku)
			if ok {
				return rate, currency, nil
			}
		}

		if resp.NextPageToken == "" {
			return 0, "", nil
		}
		pageToken = resp.NextPageToken
	}
}

func (c *GCPClient) findService(ctx context.Context, displayName string) (string, error) {
	pageToken := ""
	for {
		call := c.billing.Services.List().Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return "", fmt.Errorf("listing services: %w", err)
		}
		for _, svc := range resp.Services {
			if strings.Contains(svc.DisplayName, displayName) {
				return svc.Name, nil
			}
		}
		if resp.NextPageToken == "" {
			return "", nil
		}
		pageToken = resp.NextPageToken
	}
}

func firstTieredRate(sku *cloudbilling.Sku) (float64, string, bool) {
	if len(sku.PricingInfo) == 0 {
		return 0, "", false
	}
	expr := sku.PricingInfo[0].PricingExpression
	if expr == nil || len(expr.TieredRates) == 0 {
		return 0, "", false
	}
	price := expr.TieredRates[0].UnitPrice
	if price == nil {
		return 0, "", false
	}
	return float64(price.Units) + float64(price.Nanos)/1e9, price.CurrencyCode, true
}
