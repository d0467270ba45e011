package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionSupported(t *testing.T) {
	assert.True(t, AWSRegionSupported("us-east-1"))
	assert.True(t, AWSRegionSupported("sa-east-1"))
	assert.False(t, AWSRegionSupported("us-central1")) // GCP region
	assert.False(t, AWSRegionSupported(""))

	assert.True(t, GCPRegionSupported("us-central1"))
	assert.True(t, GCPRegionSupported("southamerica-east1"))
	assert.False(t, GCPRegionSupported("eu-west-1")) // AWS region
	assert.False(t, GCPRegionSupported(""))
}

func TestAWSLocationName(t *testing.T) {
	loc, ok := AWSLocationName("us-east-1")
	require.True(t, ok)
	assert.Equal(t, "US East (N. Virginia)", loc)

	_, ok = AWSLocationName("mars-north-1")
	assert.False(t, ok)
}

func TestAWSLocationName_CoversAllRegions(t *testing.T) {
	for _, region := range AWSRegions {
		_, ok := AWSLocationName(region)
		assert.True(t, ok, "missing location name for %s", region)
	}
}

func TestProviders(t *testing.T) {
	providers := Providers()
	require.Len(t, providers, 2)

	aws := providers["aws"]
	assert.Equal(t, "Amazon Web Services", aws.Name)
	assert.Len(t, aws.Regions, 11)
	assert.Len(t, aws.InstanceTypes, 10)
	assert.Len(t, aws.StorageTypes, 6)
	assert.Empty(t, aws.MachineTypes)

	gcp := providers["gcp"]
	assert.Equal(t, "Google Cloud Platform", gcp.Name)
	assert.Len(t, gcp.Regions, 13)
	assert.Len(t, gcp.MachineTypes, 12)
	assert.Len(t, gcp.StorageTypes, 6)
	assert.Empty(t, gcp.InstanceTypes)
}

func TestTemplates(t *testing.T) {
	templates := Templates()
	require.Len(t, templates, 3)

	tpl, ok := TemplateByID("startup_web_app")
	require.True(t, ok)
	assert.Equal(t, "t3.small", tpl.Requirements.AWSInstanceType)
	assert.Equal(t, "e2-small", tpl.Requirements.GCPMachineType)
	assert.Equal(t, float64(100), tpl.Requirements.StorageSizeGB)
	assert.Equal(t, float64(200), tpl.Requirements.MonthlyBudget)

	_, ok = TemplateByID("nonexistent")
	assert.False(t, ok)
}

func TestTemplates_TypesInCatalog(t *testing.T) {
	for id, tpl := range Templates() {
		req := tpl.Requirements
		assert.Contains(t, AWSInstanceTypes, req.AWSInstanceType, "template %s", id)
		assert.Contains(t, GCPMachineTypes, req.GCPMachineType, "template %s", id)
		assert.Contains(t, AWSStorageTypes, req.AWSStorageType, "template %s", id)
		assert.Contains(t, GCPStorageTypes, req.GCPStorageType, "template %s", id)
		assert.Contains(t, WorkloadTypes, req.WorkloadType, "template %s", id)
	}
}
