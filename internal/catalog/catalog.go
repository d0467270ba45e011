// Package catalog holds the static provider metadata: supported regions,
// instance and storage types, workload classes, and the prebuilt analysis
// templates.
package catalog

import (
	"slices"

	"github.com/costwise/costwise/internal/domain"
)

// AWSRegions lists the AWS regions the analysis supports.
var AWSRegions = []string{
	"us-east-1", "us-east-2", "us-west-1", "us-west-2",
	"eu-west-1", "eu-west-2", "eu-central-1",
	"ap-southeast-1", "ap-southeast-2", "ap-northeast-1",
	"sa-east-1",
}

// GCPRegions lists the GCP regions the analysis supports.
var GCPRegions = []string{
	"us-central1", "us-east1", "us-east4", "us-west1", "us-west2",
	"europe-west1", "europe-west2", "europe-west3", "europe-west4",
	"asia-east1", "asia-southeast1", "asia-northeast1",
	"southamerica-east1",
}

// AWSInstanceTypes lists the supported EC2 instance types.
var AWSInstanceTypes = []string{
	"t3.micro", "t3.small", "t3.medium", "t3.large",
	"m5.large", "m5.xlarge", "m5.2xlarge",
	"c5.large", "c5.xlarge", "c5.2xlarge",
}

// GCPMachineTypes lists the supported Compute Engine machine types.
var GCPMachineTypes = []string{
	"e2-micro", "e2-small", "e2-medium", "e2-standard-2", "e2-standard-4",
	"n1-standard-1", "n1-standard-2", "n1-standard-4",
	"n2-standard-2", "n2-standard-4",
	"c2-standard-4", "c2-standard-8",
}

// AWSStorageTypes lists the supported AWS storage classes (S3 plus EBS volumes).
var AWSStorageTypes = []string{
	"s3_standard", "s3_ia", "s3_glacier",
	"gp2", "gp3", "io1",
}

// GCPStorageTypes lists the supported Cloud Storage classes.
var GCPStorageTypes = []string{
	"standard", "nearline", "coldline", "archive",
	"regional", "multi-regional",
}

// WorkloadTypes classifies workloads for the performance scoring tables.
var WorkloadTypes = []string{
	"general", "compute_intensive", "data_intensive",
	"web_application", "batch_processing", "machine_learning",
}

// PerformancePriorities are the supported optimization preferences.
var PerformancePriorities = []string{
	"cost_optimized", "balanced", "performance_optimized",
}

// AWSRegionSupported reports whether region is in the AWS catalog.
func AWSRegionSupported(region string) bool {
	return slices.Contains(AWSRegions, region)
}

// GCPRegionSupported reports whether region is in the GCP catalog.
func GCPRegionSupported(region string) bool {
	return slices.Contains(GCPRegions, region)
}

// awsLocations maps region codes to the location names the AWS Pricing API
// filters on.
var awsLocations = map[string]string{
	"us-east-1":      "US East (N. Virginia)",
	"us-east-2":      "US East (Ohio)",
	"us-west-1":      "US West (N. California)",
	"us-west-2":      "US West (Oregon)",
	"eu-west-1":      "Europe (Ireland)",
	"eu-west-2":      "Europe (London)",
	"eu-central-1":   "Europe (Frankfurt)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-southeast-2": "Asia Pacific (Sydney)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
	"sa-east-1":      "South America (Sao Paulo)",
}

// AWSLocationName resolves a region code to the Pricing API location name.
// The second return is false for regions outside the catalog.
func AWSLocationName(region string) (string, bool) {
	loc, ok := awsLocations[region]
	return loc, ok
}

// Provider is the catalog entry returned by the providers endpoint.
type Provider struct {
	Name          string   `json:"name"`
	Regions       []string `json:"regions"`
	InstanceTypes []string `json:"instance_types,omitempty"`
	MachineTypes  []string `json:"machine_types,omitempty"`
	StorageTypes  []string `json:"storage_types"`
}

// Providers returns the full provider catalog keyed by provider ID.
func Providers() map[string]Provider {
	return map[string]Provider{
		"aws": {
			Name:          "Amazon Web Services",
			Regions:       AWSRegions,
			InstanceTypes: AWSInstanceTypes,
			StorageTypes:  AWSStorageTypes,
		},
		"gcp": {
			Name:         "Google Cloud Platform",
			Regions:      GCPRegions,
			MachineTypes: GCPMachineTypes,
			StorageTypes: GCPStorageTypes,
		},
	}
}

// Template is a prebuilt set of analysis requirements.
type Template struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Requirements domain.Requirements `json:"requirements"`
}

// Templates returns the prebuilt analysis templates keyed by ID.
func Templates() map[string]Template {
	return map[string]Template{
		"startup_web_app": {
			Name:        "Startup Web Application",
			Description: "Typical configuration for a startup web application",
			Requirements: domain.Requirements{
				WorkloadType:    "web_application",
				AWSInstanceType: "t3.small",
				GCPMachineType:  "e2-small",
				AWSStorageType:  "s3_standard",
				GCPStorageType:  "standard",
				StorageSizeGB:   100,
				MonthlyBudget:   200,
			},
		},
		"enterprise_data_processing": {
			Name:        "Enterprise Data Processing",
			Description: "Configuration for enterprise data processing",
			Requirements: domain.Requirements{
				WorkloadType:    "data_intensive",
				AWSInstanceType: "c5.2xlarge",
				GCPMachineType:  "c2-standard-8",
				AWSStorageType:  "s3_standard",
				GCPStorageType:  "standard",
				StorageSizeGB:   10000,
				MonthlyBudget:   2000,
			},
		},
		"ml_training": {
			Name:        "Machine Learning Training",
			Description: "Configuration for ML model training",
			Requirements: domain.Requirements{
				WorkloadType:    "machine_learning",
				AWSInstanceType: "m5.xlarge",
				GCPMachineType:  "n2-standard-4",
				AWSStorageType:  "s3_standard",
				GCPStorageType:  "standard",
				StorageSizeGB:   5000,
				MonthlyBudget:   1000,
			},
		},
	}
}

// TemplateByID looks up a single template by ID.
func TemplateByID(id string) (Template, bool) {
	tpl, ok := Templates()[id]
	return tpl, ok
}
