package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/costwise/costwise/internal/catalog"
	"github.com/spf13/cobra"
)

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Show supported providers, regions, and instance types",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			providers := catalog.Providers()
			ids := make([]string, 0, len(providers))
			for id := range providers {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			for _, id := range ids {
				p := providers[id]
				fmt.Printf("%s (%s)\n", strings.ToUpper(id), p.Name)
				fmt.Printf("  Regions:  %s\n", strings.Join(p.Regions, ", "))
				if len(p.InstanceTypes) > 0 {
					fmt.Printf("  Instances: %s\n", strings.Join(p.InstanceTypes, ", "))
				}
				if len(p.MachineTypes) > 0 {
					fmt.Printf("  Machines: %s\n", strings.Join(p.MachineTypes, ", "))
				}
				fmt.Printf("  Storage:  %s\n", strings.Join(p.StorageTypes, ", "))
				fmt.Println()
			}

			fmt.Printf("Workloads:  %s\n", strings.Join(catalog.WorkloadTypes, ", "))
			fmt.Printf("Priorities: %s\n", strings.Join(catalog.PerformancePriorities, ", "))
		},
	}
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List prebuilt analysis templates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			templates := catalog.Templates()
			ids := make([]string, 0, len(templates))
			for id := range templates {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			for _, id := range ids {
				tpl := templates[id]
				req := tpl.Requirements
				fmt.Printf("%s — %s\n", id, tpl.Name)
				fmt.Printf("  %s\n", tpl.Description)
				fmt.Printf("  aws=%s gcp=%s storage=%.0fGB budget=$%.0f/mo\n",
					req.AWSInstanceType, req.GCPMachineType, req.StorageSizeGB, req.MonthlyBudget)
				fmt.Println()
			}
		},
	}
}
