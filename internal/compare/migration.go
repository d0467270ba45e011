package compare

import (
	"strings"

	"github.com/costwise/costwise/internal/domain"
)

// Migration cost baselines by complexity level.
const (
	lowComplexityCost    = 5000
	mediumComplexityCost = 15000
	highComplexityCost   = 35000
)

var budgetMultipliers = map[string]float64{
	"tight":    0.7,
	"moderate": 1.0,
	"flexible": 1.3,
}

var migrationPhases = []string{
	"Planning and assessment (10-15% of timeline): infrastructure audit, dependency mapping, target architecture",
	"Preparation and setup (20-25%): target environment configuration, migration tooling, connectivity tests",
	"Data migration (30-40%): database migration, file transfer, data synchronization",
	"Application migration (25-30%): code refactoring as needed, service configuration, functional testing",
	"Validation and go-live (10-15%): performance testing, security validation, final cutover",
}

var awsMigrationTooling = []string{
	"AWS Migration Hub to centralize the process",
	"AWS Database Migration Service for databases",
	"AWS Well-Architected Framework review",
	"AWS CloudFormation for infrastructure as code",
}

var gcpMigrationTooling = []string{
	"Google Cloud Migration Center",
	"GCP Database Migration Service for databases",
	"Deployment Manager for infrastructure as code",
	"Anthos for hybrid workloads",
}

// Migration estimates the complexity, duration, and cost of moving a
// workload between providers. Complexity is derived from the workload
// description length, a deliberately coarse proxy.
func Migration(currentProvider, targetProvider, workloadDescription, budgetConstraint string) domain.MigrationPlan {
	score := float64(len(strings.Fields(workloadDescription))) / 10

	var complexity, duration string
	var baseCost float64
	switch {
	case score < 2:
		complexity, duration, baseCost = "low", "2-4 weeks", lowComplexityCost
	case score < 5:
		complexity, duration, baseCost = "medium", "1-3 months", mediumComplexityCost
	default:
		complexity, duration, baseCost = "high", "3-6 months", highComplexityCost
	}

	multiplier, ok := budgetMultipliers[budgetConstraint]
	if !ok {
		multiplier = 1.0
		budgetConstraint = "moderate"
	}

	tooling := gcpMigrationTooling
	if strings.EqualFold(targetProvider, "aws") {
		tooling = awsMigrationTooling
	}

	return domain.MigrationPlan{
		CurrentProvider:   strings.ToLower(currentProvider),
		TargetProvider:    strings.ToLower(targetProvider),
		Complexity:        complexity,
		EstimatedDuration: duration,
		EstimatedCostUSD:  baseCost * multiplier,
		BudgetConstraint:  budgetConstraint,
		Phases:            migrationPhases,
		Tooling:           tooling,
	}
}
