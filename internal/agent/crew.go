// Package agent runs the analysis crew: a fixed pipeline of specialist roles
// that gather prices over MCP, score the providers, and write the report.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/costwise/costwise/internal/domain"
	"github.com/costwise/costwise/internal/logging"
	"github.com/costwise/costwise/internal/mcptool"
)

// Crew role names, surfaced in step events and logs.
const (
	RoleAWSSpecialist = "aws-pricing-specialist"
	RoleGCPSpecialist = "gcp-pricing-specialist"
	RoleCoordinator   = "cost-coordinator"
	RoleReporter      = "report-writer"
)

// Toolsets are the connected MCP servers the crew works with.
type Toolsets struct {
	AWS        mcptool.Toolset
	GCP        mcptool.Toolset
	Comparison mcptool.Toolset
}

// Close closes all connected toolsets, keeping the first error.
func (t Toolsets) Close() error {
	var first error
	for _, ts := range []mcptool.Toolset{t.AWS, t.GCP, t.Comparison} {
		if ts == nil {
			continue
		}
		if err := ts.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// StepCallback observes pipeline progress. Callbacks run synchronously on the
// analysis goroutine and must not block.
type StepCallback func(domain.StepEvent)

// Crew is the deterministic analysis pipeline.
type Crew struct {
	tools  Toolsets
	log    *logging.Logger
	onStep StepCallback
}

// Option configures a Crew.
type Option func(*Crew)

// WithStepCallback registers an observer for step events.
func WithStepCallback(cb StepCallback) Option {
	return func(c *Crew) { c.onStep = cb }
}

// NewCrew builds a crew over the given toolsets.
func NewCrew(tools Toolsets, log *logging.Logger, opts ...Option) *Crew {
	c := &Crew{tools: tools, log: log.Sub("crew")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze dispatches to the pipeline matching the analysis type.
func (c *Crew) Analyze(ctx context.Context, typ domain.AnalysisType, req domain.Requirements) (*domain.AnalysisResult, error) {
	switch typ {
	case domain.AnalysisCompute:
		return c.AnalyzeCompute(ctx, req)
	case domain.AnalysisStorage:
		return c.AnalyzeStorage(ctx, req)
	case domain.AnalysisComprehensive:
		return c.AnalyzeComprehensive(ctx, req)
	}
	return nil, fmt.Errorf("analysis type %q: %w", typ, domain.ErrUnknownAnalysisType)
}

// AnalyzeCompute prices one instance per provider and scores them.
func (c *Crew) AnalyzeCompute(ctx context.Context, req domain.Requirements) (*domain.AnalysisResult, error) {
	req.ApplyDefaults()

	awsPrice, gcpPrice, err := c.gatherComputePrices(ctx, req)
	if err != nil {
		return nil, err
	}

	cmp, err := c.compareCompute(ctx, awsPrice, gcpPrice, req.WorkloadType)
	if err != nil {
		return nil, err
	}

	result := &domain.AnalysisResult{
		Compute:        cmp,
		Recommendation: computeRecommendation(cmp),
	}
	c.writeReport(ctx, domain.AnalysisCompute, req, result)
	return result, nil
}

// AnalyzeStorage prices one storage class per provider and compares the
// monthly bill for the requested size.
func (c *Crew) AnalyzeStorage(ctx context.Context, req domain.Requirements) (*domain.AnalysisResult, error) {
	req.ApplyDefaults()

	awsPrice, gcpPrice, err := c.gatherStoragePrices(ctx, req)
	if err != nil {
		return nil, err
	}

	cmp, err := c.compareStorage(ctx, awsPrice, gcpPrice, req.StorageSizeGB)
	if err != nil {
		return nil, err
	}

	result := &domain.AnalysisResult{
		Storage:        cmp,
		Recommendation: storageRecommendation(cmp),
	}
	c.writeReport(ctx, domain.AnalysisStorage, req, result)
	return result, nil
}

// AnalyzeComprehensive runs the full pipeline: compute and storage pricing,
// both comparisons, a TCO projection over the requested horizon, and a
// migration plan toward the cheaper provider.
func (c *Crew) AnalyzeComprehensive(ctx context.Context, req domain.Requirements) (*domain.AnalysisResult, error) {
	req.ApplyDefaults()

	awsCompute, gcpCompute, err := c.gatherComputePrices(ctx, req)
	if err != nil {
		return nil, err
	}
	awsStorage, gcpStorage, err := c.gatherStoragePrices(ctx, req)
	if err != nil {
		return nil, err
	}

	computeCmp, err := c.compareCompute(ctx, awsCompute, gcpCompute, req.WorkloadType)
	if err != nil {
		return nil, err
	}
	storageCmp, err := c.compareStorage(ctx, awsStorage, gcpStorage, req.StorageSizeGB)
	if err != nil {
		return nil, err
	}

	tco, err := c.projectTCO(ctx, computeCmp, storageCmp, req.TimeHorizonMonths)
	if err != nil {
		return nil, err
	}

	migration, err := c.planMigration(ctx, tco.Winner, req)
	if err != nil {
		return nil, err
	}

	result := &domain.AnalysisResult{
		Compute:        computeCmp,
		Storage:        storageCmp,
		TCO:            tco,
		Migration:      migration,
		Recommendation: comprehensiveRecommendation(computeCmp, storageCmp, tco),
	}
	c.writeReport(ctx, domain.AnalysisComprehensive, req, result)
	return result, nil
}

func (c *Crew) gatherComputePrices(ctx context.Context, req domain.Requirements) (aws, gcp domain.ComputePrice, err error) {
	if err = c.step(ctx, RoleAWSSpecialist, "pricing compute",
		fmt.Sprintf("%s in %s", req.AWSInstanceType, req.AWSRegion)); err != nil {
		return
	}
	if err = c.callJSON(ctx, c.tools.AWS, "get_aws_ec2_pricing", map[string]any{
		"instance_type": req.AWSInstanceType,
		"region":        req.AWSRegion,
	}, &aws); err != nil {
		return
	}

	if err = c.step(ctx, RoleGCPSpecialist, "pricing compute",
		fmt.Sprintf("%s in %s", req.GCPMachineType, req.GCPRegion)); err != nil {
		return
	}
	err = c.callJSON(ctx, c.tools.GCP, "get_gcp_compute_pricing", map[string]any{
		"machine_type": req.GCPMachineType,
		"region":       req.GCPRegion,
	}, &gcp)
	return
}

func (c *Crew) gatherStoragePrices(ctx context.Context, req domain.Requirements) (aws, gcp domain.StoragePrice, err error) {
	if err = c.step(ctx, RoleAWSSpecialist, "pricing storage",
		fmt.Sprintf("%s in %s", req.AWSStorageType, req.AWSRegion)); err != nil {
		return
	}
	if err = c.callJSON(ctx, c.tools.AWS, "get_aws_storage_pricing", map[string]any{
		"storage_type": req.AWSStorageType,
		"region":       req.AWSRegion,
	}, &aws); err != nil {
		return
	}

	if err = c.step(ctx, RoleGCPSpecialist, "pricing storage",
		fmt.Sprintf("%s in %s", req.GCPStorageType, req.GCPRegion)); err != nil {
		return
	}
	err = c.callJSON(ctx, c.tools.GCP, "get_gcp_storage_pricing", map[string]any{
		"storage_type": req.GCPStorageType,
		"region":       req.GCPRegion,
	}, &gcp)
	return
}

func (c *Crew) compareCompute(ctx context.Context, aws, gcp domain.ComputePrice, workload string) (*domain.ComputeComparison, error) {
	if err := c.step(ctx, RoleCoordinator, "comparing compute", workload); err != nil {
		return nil, err
	}
	awsJSON, gcpJSON, err := marshalPair(aws, gcp)
	if err != nil {
		return nil, err
	}
	var cmp domain.ComputeComparison
	if err := c.callJSON(ctx, c.tools.Comparison, "compare_cloud_instances", map[string]any{
		"aws_instance_data": awsJSON,
		"gcp_instance_data": gcpJSON,
		"workload_type":     workload,
	}, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

func (c *Crew) compareStorage(ctx context.Context, aws, gcp domain.StoragePrice, sizeGB float64) (*domain.StorageComparison, error) {
	if err := c.step(ctx, RoleCoordinator, "comparing storage",
		fmt.Sprintf("%.0f GB", sizeGB)); err != nil {
		return nil, err
	}
	awsJSON, gcpJSON, err := marshalPair(aws, gcp)
	if err != nil {
		return nil, err
	}
	var cmp domain.StorageComparison
	if err := c.callJSON(ctx, c.tools.Comparison, "compare_storage_costs", map[string]any{
		"aws_storage_data": awsJSON,
		"gcp_storage_data": gcpJSON,
		"storage_size_gb":  sizeGB,
	}, &cmp); err != nil {
		return nil, err
	}
	return &cmp, nil
}

func (c *Crew) projectTCO(ctx context.Context, compute *domain.ComputeComparison, storage *domain.StorageComparison, horizonMonths int) (*domain.TCOReport, error) {
	if err := c.step(ctx, RoleCoordinator, "projecting TCO",
		fmt.Sprintf("%d months", horizonMonths)); err != nil {
		return nil, err
	}
	computeJSON, err := json.Marshal(map[string]float64{
		"aws": compute.AWSMonthlyUSD,
		"gcp": compute.GCPMonthlyUSD,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding compute costs: %w", err)
	}
	storageJSON, err := json.Marshal(map[string]float64{
		"aws": storage.AWSMonthlyUSD,
		"gcp": storage.GCPMonthlyUSD,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding storage costs: %w", err)
	}

	var report domain.TCOReport
	if err := c.callJSON(ctx, c.tools.Comparison, "calculate_total_cost_ownership", map[string]any{
		"compute_costs":       string(computeJSON),
		"storage_costs":       string(storageJSON),
		"time_horizon_months": horizonMonths,
	}, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Crew) planMigration(ctx context.Context, targetProvider string, req domain.Requirements) (*domain.MigrationPlan, error) {
	current := "gcp"
	if targetProvider == "gcp" {
		current = "aws"
	}
	if err := c.step(ctx, RoleCoordinator, "planning migration",
		fmt.Sprintf("%s to %s", current, targetProvider)); err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("%s workload on %s with %.0f GB of %s storage",
			req.WorkloadType, req.AWSInstanceType, req.StorageSizeGB, req.AWSStorageType)
	}

	var plan domain.MigrationPlan
	if err := c.callJSON(ctx, c.tools.Comparison, "generate_migration_recommendation", map[string]any{
		"current_provider":     current,
		"target_provider":      targetProvider,
		"workload_description": description,
		"budget_constraints":   req.BudgetConstraint,
	}, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *Crew) writeReport(ctx context.Context, typ domain.AnalysisType, req domain.Requirements, result *domain.AnalysisResult) {
	// Report rendering is local and cannot fail, so a cancelled context at
	// this point only suppresses the step event.
	_ = c.step(ctx, RoleReporter, "writing report", string(typ))
	result.Report = BuildReport(typ, req, result)
}

// step emits a progress event and honors cancellation between pipeline
// stages.
func (c *Crew) step(ctx context.Context, role, stage, detail string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.log.Debug().Str("role", role).Str("stage", stage).Str("detail", detail).Msg("pipeline step")
	if c.onStep != nil {
		c.onStep(domain.StepEvent{Agent: role, Stage: stage, Detail: detail, At: time.Now().UTC()})
	}
	return nil
}

func (c *Crew) callJSON(ctx context.Context, ts mcptool.Toolset, tool string, args map[string]any, v any) error {
	out, err := ts.Call(ctx, tool, args)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		return fmt.Errorf("decoding %s result: %w", tool, err)
	}
	return nil
}

func marshalPair(a, b any) (string, string, error) {
	aj, err := json.Marshal(a)
	if err != nil {
		return "", "", fmt.Errorf("encoding price data: %w", err)
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return "", "", fmt.Errorf("encoding price data: %w", err)
	}
	return string(aj), string(bj), nil
}

func computeRecommendation(cmp *domain.ComputeComparison) domain.Recommendation {
	return domain.Recommendation{
		Provider:   cmp.Winner,
		Confidence: cmp.Confidence,
		Summary: fmt.Sprintf("%s scores higher for a %s workload (%.2f vs %.2f)",
			providerLabel(cmp.Winner), cmp.WorkloadType, winnerScore(cmp), loserScore(cmp)),
		Reasons: cmp.Reasons,
	}
}

func storageRecommendation(cmp *domain.StorageComparison) domain.Recommendation {
	return domain.Recommendation{
		Provider:   cmp.Winner,
		Confidence: cmp.Confidence,
		Summary: fmt.Sprintf("%s is %.1f%% cheaper for %.0f GB (%s vs %s)",
			providerLabel(cmp.Winner), cmp.SavingsPercent, cmp.SizeGB,
			cmp.AWSStorageType, cmp.GCPStorageType),
	}
}

func comprehensiveRecommendation(compute *domain.ComputeComparison, storage *domain.StorageComparison, tco *domain.TCOReport) domain.Recommendation {
	reasons := append([]string{}, compute.Reasons...)
	if storage.Winner == tco.Winner {
		reasons = append(reasons, fmt.Sprintf("cheaper storage (%.1f%% savings)", storage.SavingsPercent))
	}
	return domain.Recommendation{
		Provider:   tco.Winner,
		Confidence: compute.Confidence,
		Summary: fmt.Sprintf("%s saves $%.2f (%.1f%%) over %d months",
			providerLabel(tco.Winner), tco.SavingsUSD, tco.SavingsPercent, tco.TimeHorizonMonths),
		Reasons: reasons,
	}
}

func winnerScore(cmp *domain.ComputeComparison) float64 {
	if cmp.Winner == "aws" {
		return cmp.AWS.Final
	}
	return cmp.GCP.Final
}

func loserScore(cmp *domain.ComputeComparison) float64 {
	if cmp.Winner == "aws" {
		return cmp.GCP.Final
	}
	return cmp.AWS.Final
}

func providerLabel(p string) string {
	switch p {
	case "aws":
		return "AWS"
	case "gcp":
		return "GCP"
	}
	return p
}
