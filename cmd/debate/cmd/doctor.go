package cmd

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hugo-lorenzo-mato/debate-ai/internal/core"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check agent CLIs and system readiness",
	Long:  "Verify that the configured agent CLIs respond and the system has resources for a debate.",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type doctorCheck struct {
	provider string
	err      error
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	logger := newLogger()
	registry := newRegistry(logger)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Checking agent CLIs...")
	fmt.Fprintln(out)

	providers := registry.Providers()
	results := make([]doctorCheck, len(providers))

	// Version probes can each take seconds, so ping concurrently. Each
	// goroutine writes its own slot.
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, provider := range providers {
		g.Go(func() error {
			cfg := core.NewAgentConfig(provider+"-probe", core.RoleFor, provider,
				providerModel(provider))
			agent, err := registry.Create(cfg)
			if err == nil {
				err = agent.Ping(ctx)
			}
			results[i] = doctorCheck{provider: provider, err: err}
			return nil
		})
	}
	_ = g.Wait()

	available := 0
	for _, result := range results {
		if result.err != nil {
			fmt.Fprintf(out, "  ✗ %s: %v\n", result.provider, result.err)
			continue
		}
		fmt.Fprintf(out, "  ✓ %s\n", result.provider)
		available++
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Checking system resources...")
	fmt.Fprintln(out)

	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Fprintf(out, "  memory: %.1f GB available of %.1f GB (%.0f%% used)\n",
			float64(vm.Available)/(1<<30), float64(vm.Total)/(1<<30), vm.UsedPercent)
	} else {
		fmt.Fprintf(out, "  ⚠ could not read memory stats: %v\n", err)
	}

	fmt.Fprintln(out)
	if available == 0 {
		fmt.Fprintln(out, "No agent CLIs available")
		return fmt.Errorf("no agent CLIs available")
	}
	if available < len(providers) {
		fmt.Fprintln(out, "Some agent CLIs are missing; mixed debates will fail")
		return nil
	}
	fmt.Fprintln(out, "All agent CLIs available")
	return nil
}

func providerModel(provider string) string {
	switch provider {
	case "gemini":
		return appConfig.Agents.Gemini.Model
	default:
		return appConfig.Agents.Claude.Model
	}
}
