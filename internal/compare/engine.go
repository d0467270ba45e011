// Package compare implements the deterministic cross-provider scoring
// engine: weighted compute comparison, storage comparison, TCO projection,
// and migration planning.
package compare

import "github.com/costwise/costwise/internal/domain"

// Dimension weights for the final compute score.
const (
	weightCost        = 0.35
	weightPerformance = 0.25
	weightScalability = 0.20
	weightReliability = 0.15
	weightMaintenance = 0.05
)

// Provider characteristics on a 0-10 scale.
var providerScores = map[string]struct {
	scalability float64
	reliability float64
	maintenance float64
}{
	"aws": {scalability: 9.5, reliability: 9.8, maintenance: 8.5},
	"gcp": {scalability: 9.3, reliability: 9.6, maintenance: 9.2},
}

// Compute scores AWS against GCP for a workload, given both monthly compute
// prices. Winner is the provider with the higher weighted final score;
// confidence is the score gap normalized to [0, 1].
func Compute(aws, gcp domain.ComputePrice, workloadType string) domain.ComputeComparison {
	awsCost, gcpCost := costScores(aws.MonthlyUSD, gcp.MonthlyUSD)
	awsPerf, gcpPerf := performanceScores(workloadType)

	awsCard := domain.ScoreCard{
		Cost:        awsCost,
		Performance: awsPerf,
		Scalability: providerScores["aws"].scalability,
		Reliability: providerScores["aws"].reliability,
		Maintenance: providerScores["aws"].maintenance,
	}
	gcpCard := domain.ScoreCard{
		Cost:        gcpCost,
		Performance: gcpPerf,
		Scalability: providerScores["gcp"].scalability,
		Reliability: providerScores["gcp"].reliability,
		Maintenance: providerScores["gcp"].maintenance,
	}
	awsCard.Final = weighted(awsCard)
	gcpCard.Final = weighted(gcpCard)

	winner := "gcp"
	if awsCard.Final > gcpCard.Final {
		winner = "aws"
	}

	confidence := (awsCard.Final - gcpCard.Final) / 10
	if confidence < 0 {
		confidence = -confidence
	}

	return domain.ComputeComparison{
		WorkloadType:  workloadType,
		AWS:           awsCard,
		GCP:           gcpCard,
		AWSMonthlyUSD: aws.MonthlyUSD,
		GCPMonthlyUSD: gcp.MonthlyUSD,
		Winner:        winner,
		Confidence:    confidence,
		Reasons:       primaryReasons(winner, awsCard, gcpCard),
	}
}

func weighted(c domain.ScoreCard) float64 {
	return c.Cost*weightCost +
		c.Performance*weightPerformance +
		c.Scalability*weightScalability +
		c.Reliability*weightReliability +
		c.Maintenance*weightMaintenance
}

// costScores splits 10 points between the providers inversely to cost, so
// the cheaper provider earns the larger share. Tied or missing costs score
// 5 each.
func costScores(awsMonthly, gcpMonthly float64) (float64, float64) {
	total := awsMonthly + gcpMonthly
	if total == 0 {
		return 5.0, 5.0
	}
	return (gcpMonthly / total) * 10, (awsMonthly / total) * 10
}

func performanceScores(workloadType string) (float64, float64) {
	switch workloadType {
	case "compute_intensive":
		return 8.5, 9.0
	case "data_intensive":
		return 9.2, 8.8
	default:
		return 8.8, 8.9
	}
}

// primaryReasons names up to three dimensions where the winner leads.
func primaryReasons(winner string, aws, gcp domain.ScoreCard) []string {
	w, l := aws, gcp
	if winner == "gcp" {
		w, l = gcp, aws
	}

	var reasons []string
	if w.Cost > l.Cost {
		reasons = append(reasons, "better cost efficiency")
	}
	if w.Performance > l.Performance {
		reasons = append(reasons, "superior performance")
	}
	if w.Scalability > l.Scalability {
		reasons = append(reasons, "better scalability")
	}
	if len(reasons) > 3 {
		reasons = reasons[:3]
	}
	return reasons
}
