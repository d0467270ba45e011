// Package pricing resolves compute and storage prices for AWS and GCP.
// Live provider APIs are used when credentials are available; otherwise the
// static fallback tables below keep the pipeline functional with estimates.
package pricing

import (
	"strings"
	"time"

	"github.com/costwise/costwise/internal/domain"
)

// Monthly prices assume a 720-hour month.
const hoursPerMonth = 24 * 30

// On-demand hourly rates, us-east-1 baseline.
var awsComputeHourly = map[string]float64{
	"t3.micro":  0.0104,
	"t3.small":  0.0208,
	"t3.medium": 0.0416,
	"t3.large":  0.0832,
	"m5.large":  0.096,
	"m5.xlarge": 0.192,
	"c5.large":  0.085,
	"c5.xlarge": 0.17,
}

// Per-GB-month rates for S3 classes and EBS volume types.
var awsStoragePerGB = map[string]float64{
	"s3_standard": 0.023,
	"s3_ia":       0.0125,
	"s3_glacier":  0.004,
	"gp2":         0.10,
	"gp3":         0.08,
	"io1":         0.125,
}

// On-demand hourly rates, us-central1 baseline.
var gcpComputeHourly = map[string]float64{
	"e2-micro":      0.006,
	"e2-small":      0.012,
	"e2-medium":     0.024,
	"e2-standard-2": 0.048,
	"e2-standard-4": 0.096,
	"n1-standard-1": 0.0475,
	"n1-standard-2": 0.095,
	"n1-standard-4": 0.19,
	"n2-standard-2": 0.097,
	"n2-standard-4": 0.194,
	"c2-standard-4": 0.168,
	"c2-standard-8": 0.336,
}

// Per-GB-month rates for Cloud Storage classes.
var gcpStoragePerGB = map[string]float64{
	"standard":       0.020,
	"nearline":       0.010,
	"coldline":       0.004,
	"archive":        0.0012,
	"regional":       0.020,
	"multi-regional": 0.026,
}

func awsComputeRegionMultiplier(region string) float64 {
	if strings.HasPrefix(region, "eu-") {
		return 1.2
	}
	return 1.0
}

func awsStorageRegionMultiplier(region string) float64 {
	if strings.HasPrefix(region, "eu-") {
		return 1.1
	}
	return 1.0
}

func gcpComputeRegionMultiplier(region string) float64 {
	if strings.HasPrefix(region, "europe-") {
		return 1.15
	}
	return 1.0
}

func gcpStorageRegionMultiplier(region string) float64 {
	if strings.HasPrefix(region, "europe-") {
		return 1.1
	}
	return 1.0
}

func fallbackEC2Price(instanceType, region string) domain.ComputePrice {
	base, ok := awsComputeHourly[instanceType]
	if !ok {
		base = 0.1
	}
	hourly := base * awsComputeRegionMultiplier(region)
	return domain.ComputePrice{
		Provider:     "aws",
		InstanceType: instanceType,
		Region:       region,
		HourlyUSD:    hourly,
		MonthlyUSD:   hourly * hoursPerMonth,
		Currency:     "USD",
		Estimated:    true,
	}
}

func fallbackAWSStoragePrice(storageType, region string) domain.StoragePrice {
	base, ok := awsStoragePerGB[storageType]
	if !ok {
		base = 0.1
	}
	return domain.StoragePrice{
		Provider:      "aws",
		StorageType:   storageType,
		Region:        region,
		PerGBMonthUSD: base * awsStorageRegionMultiplier(region),
		Currency:      "USD",
		Estimated:     true,
	}
}

func fallbackGCPComputePrice(machineType, region string) domain.ComputePrice {
	base, ok := gcpComputeHourly[machineType]
	if !ok {
		base = 0.05
	}
	hourly := base * gcpComputeRegionMultiplier(region)
	return domain.ComputePrice{
		Provider:     "gcp",
		InstanceType: machineType,
		Region:       region,
		HourlyUSD:    hourly,
		MonthlyUSD:   hourly * hoursPerMonth,
		Currency:     "USD",
		Estimated:    true,
	}
}

func fallbackGCPStoragePrice(storageType, region string) domain.StoragePrice {
	base, ok := gcpStoragePerGB[strings.ToLower(storageType)]
	if !ok {
		base = 0.02
	}
	return domain.StoragePrice{
		Provider:      "gcp",
		StorageType:   storageType,
		Region:        region,
		PerGBMonthUSD: base * gcpStorageRegionMultiplier(region),
		Currency:      "USD",
		Estimated:     true,
	}
}

func fallbackCostHistory(start, end time.Time) []domain.CostRecord {
	return []domain.CostRecord{
		{
			PeriodStart:   start.Format("2006-01-02"),
			PeriodEnd:     end.Format("2006-01-02"),
			Service:       "Amazon Elastic Compute Cloud - Compute",
			AmountUSD:     150.75,
			UsageQuantity: 720.0,
		},
		{
			PeriodStart:   start.Format("2006-01-02"),
			PeriodEnd:     end.Format("2006-01-02"),
			Service:       "Amazon Simple Storage Service",
			AmountUSD:     25.30,
			UsageQuantity: 1000.0,
		},
	}
}

// GCPService is one entry of the GCP service listing.
type GCPService struct {
	ServiceID   string `json:"service_id"`
	DisplayName string `json:"display_name"`
	Entity      string `json:"business_entity_name"`
}

func fallbackGCPServices() []GCPService {
	return []GCPService{
		{ServiceID: "6F81-5844-456A", DisplayName: "Compute Engine", Entity: "Google Cloud"},
		{ServiceID: "95FF-2EF5-5EA1", DisplayName: "Cloud Storage", Entity: "Google Cloud"},
		{ServiceID: "9662-B51E-5089", DisplayName: "Cloud SQL", Entity: "Google Cloud"},
		{ServiceID: "A1E8-BE35-7EBC", DisplayName: "BigQuery", Entity: "Google Cloud"},
		{ServiceID: "58CD-78B0-8F9D", DisplayName: "Cloud Functions", Entity: "Google Cloud"},
	}
}
