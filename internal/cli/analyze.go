package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/costwise/costwise/internal/agent"
	"github.com/costwise/costwise/internal/catalog"
	"github.com/costwise/costwise/internal/config"
	"github.com/costwise/costwise/internal/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		template    string
		workload    string
		awsInstance string
		gcpMachine  string
		awsRegion   string
		gcpRegion   string
		awsStorage  string
		gcpStorage  string
		storageGB   float64
		budget      float64
		horizon     int
		asJSON      bool
		noSave      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <compute|storage|comprehensive>",
		Short: "Run a cost analysis from the command line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := domain.ParseAnalysisType(args[0])
			if err != nil {
				return fmt.Errorf("%w: %s", err, args[0])
			}

			cfg, err := config.Load(paths.Config)
			if err != nil {
				cfg = config.Defaults()
			}

			req := domain.Requirements{}
			if template != "" {
				tpl, ok := catalog.TemplateByID(template)
				if !ok {
					return fmt.Errorf("template not found: %s", template)
				}
				req = tpl.Requirements
			}

			if workload != "" {
				req.WorkloadType = workload
			}
			if awsInstance != "" {
				req.AWSInstanceType = awsInstance
			}
			if gcpMachine != "" {
				req.GCPMachineType = gcpMachine
			}
			if awsRegion != "" {
				req.AWSRegion = awsRegion
			}
			if gcpRegion != "" {
				req.GCPRegion = gcpRegion
			}
			if awsStorage != "" {
				req.AWSStorageType = awsStorage
			}
			if gcpStorage != "" {
				req.GCPStorageType = gcpStorage
			}
			if storageGB != 0 {
				req.StorageSizeGB = storageGB
			}
			if budget != 0 {
				req.MonthlyBudget = budget
			}
			if horizon != 0 {
				req.TimeHorizonMonths = horizon
			}
			if req.AWSRegion == "" {
				req.AWSRegion = cfg.Providers.AWS.Region
			}
			if req.GCPRegion == "" {
				req.GCPRegion = cfg.Providers.GCP.Region
			}
			if req.TimeHorizonMonths == 0 {
				req.TimeHorizonMonths = cfg.Analysis.TimeHorizonMonths
			}
			req.ApplyDefaults()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cache := openCache(cfg)
			if cache != nil {
				defer cache.Close()
			}

			awsClient, gcpClient := buildPricingClients(ctx, cfg, cache)

			tools, err := buildToolsets(ctx, cfg, awsClient, gcpClient)
			if err != nil {
				return err
			}
			defer tools.Close()

			opts := []agent.Option{}
			if !asJSON {
				opts = append(opts, agent.WithStepCallback(func(ev domain.StepEvent) {
					fmt.Fprintf(os.Stderr, "[%s] %s", ev.Agent, ev.Stage)
					if ev.Detail != "" {
						fmt.Fprintf(os.Stderr, ": %s", ev.Detail)
					}
					fmt.Fprintln(os.Stderr)
				}))
			}
			crew := agent.NewCrew(tools, log, opts...)

			analysis := &domain.Analysis{
				ID:           uuid.NewString(),
				Type:         typ,
				Requirements: req,
				CreatedAt:    time.Now().UTC(),
			}

			result, runErr := crew.Analyze(ctx, typ, req)
			if runErr != nil {
				analysis.Status = domain.StatusFailed
				analysis.Recommendation = runErr.Error()
			} else {
				analysis.Status = domain.StatusCompleted
				analysis.Result = result
				analysis.Recommendation = result.Recommendation.Provider
				if result.TCO != nil {
					analysis.SavingsPercent = result.TCO.SavingsPercent
				} else if result.Storage != nil {
					analysis.SavingsPercent = result.Storage.SavingsPercent
				}
			}

			if !noSave {
				if err := saveAnalysis(cfg, analysis); err != nil {
					log.Error().Err(err).Str("id", analysis.ID).Msg("persisting analysis failed")
				}
			}

			if runErr != nil {
				return fmt.Errorf("analysis failed: %w", runErr)
			}

			if asJSON {
				data, err := json.MarshalIndent(analysis, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Println(result.Report)
			if !noSave {
				fmt.Printf("Saved as %s\n", analysis.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&template, "template", "", "start from a prebuilt template (see 'costwise templates')")
	cmd.Flags().StringVar(&workload, "workload", "", "workload type (general, web_application, ...)")
	cmd.Flags().StringVar(&awsInstance, "aws-instance", "", "AWS EC2 instance type")
	cmd.Flags().StringVar(&gcpMachine, "gcp-machine", "", "GCP machine type")
	cmd.Flags().StringVar(&awsRegion, "aws-region", "", "AWS region")
	cmd.Flags().StringVar(&gcpRegion, "gcp-region", "", "GCP region")
	cmd.Flags().StringVar(&awsStorage, "aws-storage", "", "AWS storage type")
	cmd.Flags().StringVar(&gcpStorage, "gcp-storage", "", "GCP storage type")
	cmd.Flags().Float64Var(&storageGB, "storage-gb", 0, "storage size in GB")
	cmd.Flags().Float64Var(&budget, "budget", 0, "monthly budget in USD")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "TCO time horizon in months")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full analysis as JSON")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the analysis to history")

	return cmd
}

// saveAnalysis persists one analysis to the configured history store.
func saveAnalysis(cfg config.Config, analysis *domain.Analysis) error {
	if err := paths.EnsureDirs(); err != nil {
		return err
	}
	history, closeHistory, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeHistory()
	return history.Put(analysis)
}
