package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/costwise/costwise/internal/domain"
)

// BuildReport renders the executive markdown report for an analysis run.
func BuildReport(typ domain.AnalysisType, req domain.Requirements, result *domain.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Cloud Cost Analysis (%s)\n\n", typ)
	fmt.Fprintf(&b, "Generated %s\n\n", time.Now().UTC().Format("2006-01-02 15:04 UTC"))

	fmt.Fprintf(&b, "## Recommendation\n\n")
	rec := result.Recommendation
	fmt.Fprintf(&b, "**%s** (confidence %.0f%%)\n\n", providerLabel(rec.Provider), rec.Confidence*100)
	fmt.Fprintf(&b, "%s\n\n", rec.Summary)
	for _, reason := range rec.Reasons {
		fmt.Fprintf(&b, "- %s\n", reason)
	}
	if len(rec.Reasons) > 0 {
		b.WriteString("\n")
	}

	if cmp := result.Compute; cmp != nil {
		fmt.Fprintf(&b, "## Compute\n\n")
		fmt.Fprintf(&b, "Workload: %s\n\n", cmp.WorkloadType)
		fmt.Fprintf(&b, "| | AWS (%s, %s) | GCP (%s, %s) |\n",
			req.AWSInstanceType, req.AWSRegion, req.GCPMachineType, req.GCPRegion)
		fmt.Fprintf(&b, "|---|---|---|\n")
		fmt.Fprintf(&b, "| Monthly cost | $%.2f | $%.2f |\n", cmp.AWSMonthlyUSD, cmp.GCPMonthlyUSD)
		fmt.Fprintf(&b, "| Cost score | %.2f | %.2f |\n", cmp.AWS.Cost, cmp.GCP.Cost)
		fmt.Fprintf(&b, "| Performance | %.2f | %.2f |\n", cmp.AWS.Performance, cmp.GCP.Performance)
		fmt.Fprintf(&b, "| Scalability | %.2f | %.2f |\n", cmp.AWS.Scalability, cmp.GCP.Scalability)
		fmt.Fprintf(&b, "| Reliability | %.2f | %.2f |\n", cmp.AWS.Reliability, cmp.GCP.Reliability)
		fmt.Fprintf(&b, "| Maintenance | %.2f | %.2f |\n", cmp.AWS.Maintenance, cmp.GCP.Maintenance)
		fmt.Fprintf(&b, "| **Final** | **%.2f** | **%.2f** |\n\n", cmp.AWS.Final, cmp.GCP.Final)
	}

	if cmp := result.Storage; cmp != nil {
		fmt.Fprintf(&b, "## Storage\n\n")
		fmt.Fprintf(&b, "%.0f GB compared: AWS %s at $%.2f/month vs GCP %s at $%.2f/month.\n",
			cmp.SizeGB, cmp.AWSStorageType, cmp.AWSMonthlyUSD, cmp.GCPStorageType, cmp.GCPMonthlyUSD)
		fmt.Fprintf(&b, "%s saves $%.2f/month (%.1f%%).\n\n",
			providerLabel(cmp.Winner), cmp.MonthlySavingsUSD, cmp.SavingsPercent)
	}

	if tco := result.TCO; tco != nil {
		fmt.Fprintf(&b, "## Total Cost of Ownership (%d months)\n\n", tco.TimeHorizonMonths)
		fmt.Fprintf(&b, "| | Infrastructure | Operational | Additional | Total |\n")
		fmt.Fprintf(&b, "|---|---|---|---|---|\n")
		fmt.Fprintf(&b, "| AWS | $%.2f | $%.2f | $%.2f | $%.2f |\n",
			tco.AWS.InfrastructureUSD, tco.AWS.OperationalUSD, tco.AWS.AdditionalUSD, tco.AWS.TotalUSD)
		fmt.Fprintf(&b, "| GCP | $%.2f | $%.2f | $%.2f | $%.2f |\n\n",
			tco.GCP.InfrastructureUSD, tco.GCP.OperationalUSD, tco.GCP.AdditionalUSD, tco.GCP.TotalUSD)
		fmt.Fprintf(&b, "%s comes out $%.2f (%.1f%%) cheaper.\n\n",
			providerLabel(tco.Winner), tco.SavingsUSD, tco.SavingsPercent)
	}

	if plan := result.Migration; plan != nil {
		fmt.Fprintf(&b, "## Migration Path\n\n")
		fmt.Fprintf(&b, "%s to %s: %s complexity, roughly %s, estimated $%.0f (%s budget).\n\n",
			providerLabel(plan.CurrentProvider), providerLabel(plan.TargetProvider),
			plan.Complexity, plan.EstimatedDuration, plan.EstimatedCostUSD, plan.BudgetConstraint)
		for i, phase := range plan.Phases {
			fmt.Fprintf(&b, "%d. %s\n", i+1, phase)
		}
		if len(plan.Phases) > 0 {
			b.WriteString("\n")
		}
		if len(plan.Tooling) > 0 {
			fmt.Fprintf(&b, "Suggested tooling: %s.\n\n", strings.Join(plan.Tooling, ", "))
		}
	}

	if req.MonthlyBudget > 0 {
		monthly := monthlyForProvider(result, rec.Provider)
		if monthly > 0 {
			verdict := "within"
			if monthly > req.MonthlyBudget {
				verdict = "over"
			}
			fmt.Fprintf(&b, "## Budget\n\n")
			fmt.Fprintf(&b, "Estimated $%.2f/month on %s, %s the $%.2f budget.\n",
				monthly, providerLabel(rec.Provider), verdict, req.MonthlyBudget)
		}
	}

	return b.String()
}

// monthlyForProvider sums the recommended provider's monthly compute and
// storage costs from whatever comparisons the run produced.
func monthlyForProvider(result *domain.AnalysisResult, provider string) float64 {
	var total float64
	if cmp := result.Compute; cmp != nil {
		if provider == "aws" {
			total += cmp.AWSMonthlyUSD
		} else {
			total += cmp.GCPMonthlyUSD
		}
	}
	if cmp := result.Storage; cmp != nil {
		if provider == "aws" {
			total += cmp.AWSMonthlyUSD
		} else {
			total += cmp.GCPMonthlyUSD
		}
	}
	return total
}
