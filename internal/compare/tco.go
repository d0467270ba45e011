package compare

import "github.com/costwise/costwise/internal/domain"

// Operational overhead as a fraction of monthly infrastructure cost.
// GCP's share is lower to reflect stronger automation.
const (
	awsOperationalRate = 0.15
	gcpOperationalRate = 0.12
)

// MonthlyCosts carries per-provider monthly inputs to the TCO projection.
type MonthlyCosts struct {
	AWS float64 `json:"aws"`
	GCP float64 `json:"gcp"`
}

// TCO projects total cost of ownership for both providers over the given
// horizon, adding operational overhead on top of compute, storage, and any
// additional service costs.
func TCO(compute, storage, additional MonthlyCosts, horizonMonths int) domain.TCOReport {
	if horizonMonths <= 0 {
		horizonMonths = 36
	}
	months := float64(horizonMonths)

	awsOperational := (compute.AWS + storage.AWS) * awsOperationalRate
	gcpOperational := (compute.GCP + storage.GCP) * gcpOperationalRate

	awsMonthly := compute.AWS + storage.AWS + additional.AWS + awsOperational
	gcpMonthly := compute.GCP + storage.GCP + additional.GCP + gcpOperational

	aws := domain.TCOBreakdown{
		InfrastructureUSD: (compute.AWS + storage.AWS) * months,
		OperationalUSD:    awsOperational * months,
		AdditionalUSD:     additional.AWS * months,
		TotalUSD:          awsMonthly * months,
	}
	gcp := domain.TCOBreakdown{
		InfrastructureUSD: (compute.GCP + storage.GCP) * months,
		OperationalUSD:    gcpOperational * months,
		AdditionalUSD:     additional.GCP * months,
		TotalUSD:          gcpMonthly * months,
	}

	winner := "gcp"
	savings := aws.TotalUSD - gcp.TotalUSD
	if gcp.TotalUSD > aws.TotalUSD {
		winner = "aws"
		savings = gcp.TotalUSD - aws.TotalUSD
	}

	max := aws.TotalUSD
	if gcp.TotalUSD > max {
		max = gcp.TotalUSD
	}
	savingsPct := 0.0
	if max > 0 {
		savingsPct = (savings / max) * 100
	}

	return domain.TCOReport{
		TimeHorizonMonths: horizonMonths,
		AWS:               aws,
		GCP:               gcp,
		Winner:            winner,
		SavingsUSD:        savings,
		SavingsPercent:    savingsPct,
	}
}
