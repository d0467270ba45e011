package domain

// ScoreCard holds the weighted dimension scores for one provider.
// Scores are on a 0-10 scale.
type ScoreCard struct {
	Cost        float64 `json:"cost"`
	Performance float64 `json:"performance"`
	Scalability float64 `json:"scalability"`
	Reliability float64 `json:"reliability"`
	Maintenance float64 `json:"maintenance"`
	Final       float64 `json:"final"`
}

// ComputeComparison is the outcome of scoring AWS against GCP for a compute
// workload.
type ComputeComparison struct {
	WorkloadType  string    `json:"workload_type"`
	AWS           ScoreCard `json:"aws"`
	GCP           ScoreCard `json:"gcp"`
	AWSMonthlyUSD float64   `json:"aws_monthly_usd"`
	GCPMonthlyUSD float64   `json:"gcp_monthly_usd"`
	Winner        string    `json:"winner"`
	Confidence    float64   `json:"confidence"`
	Reasons       []string  `json:"reasons"`
}

// StorageCharacteristics describes a storage class in provider terms.
type StorageCharacteristics struct {
	Durability   string `json:"durability"`
	Availability string `json:"availability"`
	UseCase      string `json:"use_case"`
}

// StorageComparison is the outcome of comparing storage costs.
type StorageComparison struct {
	AWSStorageType    string                 `json:"aws_storage_type"`
	GCPStorageType    string                 `json:"gcp_storage_type"`
	SizeGB            float64                `json:"size_gb"`
	AWSMonthlyUSD     float64                `json:"aws_monthly_usd"`
	GCPMonthlyUSD     float64                `json:"gcp_monthly_usd"`
	Winner            string                 `json:"winner"`
	MonthlySavingsUSD float64                `json:"monthly_savings_usd"`
	SavingsPercent    float64                `json:"savings_percent"`
	Confidence        float64                `json:"confidence"`
	AWS               StorageCharacteristics `json:"aws"`
	GCP               StorageCharacteristics `json:"gcp"`
}

// TCOBreakdown itemizes total cost of ownership for one provider.
type TCOBreakdown struct {
	InfrastructureUSD float64 `json:"infrastructure_usd"`
	OperationalUSD    float64 `json:"operational_usd"`
	AdditionalUSD     float64 `json:"additional_usd"`
	TotalUSD          float64 `json:"total_usd"`
}

// TCOReport compares total cost of ownership over a time horizon.
type TCOReport struct {
	TimeHorizonMonths int          `json:"time_horizon_months"`
	AWS               TCOBreakdown `json:"aws"`
	GCP               TCOBreakdown `json:"gcp"`
	Winner            string       `json:"winner"`
	SavingsUSD        float64      `json:"savings_usd"`
	SavingsPercent    float64      `json:"savings_percent"`
}

// MigrationPlan estimates the effort of moving a workload between providers.
type MigrationPlan struct {
	CurrentProvider   string   `json:"current_provider"`
	TargetProvider    string   `json:"target_provider"`
	Complexity        string   `json:"complexity"` // "low" | "medium" | "high"
	EstimatedDuration string   `json:"estimated_duration"`
	EstimatedCostUSD  float64  `json:"estimated_cost_usd"`
	BudgetConstraint  string   `json:"budget_constraint"`
	Phases            []string `json:"phases"`
	Tooling           []string `json:"tooling"`
}

// Recommendation is the final provider recommendation for a run.
type Recommendation struct {
	Provider   string   `json:"provider"`
	Confidence float64  `json:"confidence"`
	Summary    string   `json:"summary"`
	Reasons    []string `json:"reasons,omitempty"`
}
