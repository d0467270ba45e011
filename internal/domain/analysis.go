// Package domain holds the core types shared across the analysis pipeline,
// the stores, and the gateway.
package domain

import "time"

// AnalysisType selects which part of the pipeline runs.
type AnalysisType string

const (
	AnalysisCompute       AnalysisType = "compute"
	AnalysisStorage       AnalysisType = "storage"
	AnalysisComprehensive AnalysisType = "comprehensive"
)

// ParseAnalysisType validates a raw analysis type string.
func ParseAnalysisType(s string) (AnalysisType, error) {
	switch AnalysisType(s) {
	case AnalysisCompute, AnalysisStorage, AnalysisComprehensive:
		return AnalysisType(s), nil
	}
	return "", ErrUnknownAnalysisType
}

// AnalysisStatus records the outcome of a persisted analysis run.
type AnalysisStatus string

const (
	StatusCompleted AnalysisStatus = "completed"
	StatusFailed    AnalysisStatus = "failed"
)

// Requirements describes the workload being analyzed. Zero-value fields are
// filled in by ApplyDefaults before the pipeline runs.
type Requirements struct {
	WorkloadType        string  `json:"workload_type"`
	AWSInstanceType     string  `json:"aws_instance_type"`
	GCPMachineType      string  `json:"gcp_machine_type"`
	AWSRegion           string  `json:"aws_region"`
	GCPRegion           string  `json:"gcp_region"`
	AWSStorageType      string  `json:"aws_storage_type"`
	GCPStorageType      string  `json:"gcp_storage_type"`
	StorageSizeGB       float64 `json:"storage_size_gb"`
	MonthlyBudget       float64 `json:"monthly_budget,omitempty"`
	PerformancePriority string  `json:"performance_priority"`
	TimeHorizonMonths   int     `json:"time_horizon_months"`
	Description         string  `json:"description,omitempty"`
	BudgetConstraint    string  `json:"budget_constraint,omitempty"` // "tight" | "moderate" | "flexible"
}

// DefaultRequirements returns the baseline workload used when a request
// omits fields.
func DefaultRequirements() Requirements {
	return Requirements{
		WorkloadType:        "general",
		AWSInstanceType:     "t3.medium",
		GCPMachineType:      "e2-medium",
		AWSRegion:           "us-east-1",
		GCPRegion:           "us-central1",
		AWSStorageType:      "s3_standard",
		GCPStorageType:      "standard",
		StorageSizeGB:       1000,
		PerformancePriority: "balanced",
		TimeHorizonMonths:   36,
		BudgetConstraint:    "moderate",
	}
}

// ApplyDefaults fills empty fields from DefaultRequirements.
func (r *Requirements) ApplyDefaults() {
	def := DefaultRequirements()
	if r.WorkloadType == "" {
		r.WorkloadType = def.WorkloadType
	}
	if r.AWSInstanceType == "" {
		r.AWSInstanceType = def.AWSInstanceType
	}
	if r.GCPMachineType == "" {
		r.GCPMachineType = def.GCPMachineType
	}
	if r.AWSRegion == "" {
		r.AWSRegion = def.AWSRegion
	}
	if r.GCPRegion == "" {
		r.GCPRegion = def.GCPRegion
	}
	if r.AWSStorageType == "" {
		r.AWSStorageType = def.AWSStorageType
	}
	if r.GCPStorageType == "" {
		r.GCPStorageType = def.GCPStorageType
	}
	if r.StorageSizeGB == 0 {
		r.StorageSizeGB = def.StorageSizeGB
	}
	if r.PerformancePriority == "" {
		r.PerformancePriority = def.PerformancePriority
	}
	if r.TimeHorizonMonths == 0 {
		r.TimeHorizonMonths = def.TimeHorizonMonths
	}
	if r.BudgetConstraint == "" {
		r.BudgetConstraint = def.BudgetConstraint
	}
}

// AnalysisResult aggregates whatever the pipeline produced for one run.
// Compute-only runs leave Storage nil and vice versa.
type AnalysisResult struct {
	Compute        *ComputeComparison `json:"compute,omitempty"`
	Storage        *StorageComparison `json:"storage,omitempty"`
	TCO            *TCOReport         `json:"tco,omitempty"`
	Migration      *MigrationPlan     `json:"migration,omitempty"`
	Recommendation Recommendation     `json:"recommendation"`
	Report         string             `json:"report"`
}

// Analysis is a persisted analysis run.
type Analysis struct {
	ID             string          `json:"id"`
	Type           AnalysisType    `json:"type"`
	Status         AnalysisStatus  `json:"status"`
	Requirements   Requirements    `json:"requirements"`
	Result         *AnalysisResult `json:"result,omitempty"`
	Recommendation string          `json:"recommendation"`
	SavingsPercent float64         `json:"savings_percent"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AnalysisSummary is the projection returned by history listings.
type AnalysisSummary struct {
	ID             string         `json:"id"`
	Type           AnalysisType   `json:"type"`
	Status         AnalysisStatus `json:"status"`
	Recommendation string         `json:"recommendation"`
	SavingsPercent float64        `json:"savings_percent"`
	CreatedAt      time.Time      `json:"created_at"`
}

// StepEvent reports pipeline progress to observers (websocket stream, CLI).
type StepEvent struct {
	Agent  string    `json:"agent"`
	Stage  string    `json:"stage"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}
