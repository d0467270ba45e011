package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTCO_Breakdown(t *testing.T) {
	report := TCO(
		MonthlyCosts{AWS: 100, GCP: 90},
		MonthlyCosts{AWS: 20, GCP: 18},
		MonthlyCosts{},
		36,
	)

	// Operational overhead: 15% of infra for AWS, 12% for GCP.
	assert.InDelta(t, (100+20)*0.15*36, report.AWS.OperationalUSD, 1e-6)
	assert.InDelta(t, (90+18)*0.12*36, report.GCP.OperationalUSD, 1e-6)

	assert.InDelta(t, (100+20)*36, report.AWS.InfrastructureUSD, 1e-6)
	assert.InDelta(t, report.AWS.InfrastructureUSD+report.AWS.OperationalUSD, report.AWS.TotalUSD, 1e-6)

	assert.Equal(t, "gcp", report.Winner)
	assert.InDelta(t, report.AWS.TotalUSD-report.GCP.TotalUSD, report.SavingsUSD, 1e-6)
}

func TestTCO_AdditionalCosts(t *testing.T) {
	report := TCO(
		MonthlyCosts{AWS: 100, GCP: 100},
		MonthlyCosts{AWS: 10, GCP: 10},
		MonthlyCosts{AWS: 50, GCP: 0},
		12,
	)

	assert.InDelta(t, 50*12, report.AWS.AdditionalUSD, 1e-6)
	assert.Zero(t, report.GCP.AdditionalUSD)
	// Additional costs carry no operational overhead.
	assert.InDelta(t, report.AWS.OperationalUSD, report.GCP.OperationalUSD, 1e-6)
	assert.Equal(t, "gcp", report.Winner)
}

func TestTCO_HorizonScaling(t *testing.T) {
	short := TCO(MonthlyCosts{AWS: 100, GCP: 80}, MonthlyCosts{}, MonthlyCosts{}, 12)
	long := TCO(MonthlyCosts{AWS: 100, GCP: 80}, MonthlyCosts{}, MonthlyCosts{}, 24)

	assert.InDelta(t, short.SavingsUSD*2, long.SavingsUSD, 1e-6)
	// Percentage is horizon-independent.
	assert.InDelta(t, short.SavingsPercent, long.SavingsPercent, 1e-9)
}

func TestTCO_DefaultHorizon(t *testing.T) {
	report := TCO(MonthlyCosts{AWS: 100, GCP: 80}, MonthlyCosts{}, MonthlyCosts{}, 0)
	assert.Equal(t, 36, report.TimeHorizonMonths)
}

func TestTCO_ZeroCosts(t *testing.T) {
	report := TCO(MonthlyCosts{}, MonthlyCosts{}, MonthlyCosts{}, 36)
	assert.Zero(t, report.SavingsUSD)
	assert.Zero(t, report.SavingsPercent)
}
