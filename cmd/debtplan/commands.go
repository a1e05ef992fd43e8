package main

import (
	"fmt"

	"github.com/debtfree/debtfree-go/internal/cli"
	"github.com/debtfree/debtfree-go/internal/scenario"

	"github.com/spf13/cobra"
)

func newSimulateCmd(opts *options) *cobra.Command {
	var timeline bool
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate the plan month by month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.load(cmd)
			if err != nil {
				return err
			}
			p, done := opts.planner()
			defer done()

			resp, err := p.Simulate(cmd.Context(), &req.PlanRequest)
			if err != nil {
				return err
			}
			if !timeline && !opts.json {
				resp.Timeline = nil
			}
			return opts.print(cmd.OutOrStdout(), "PAYOFF PLAN", resp, func() string {
				return cli.RenderSimulation(resp)
			})
		},
	}
	cmd.Flags().BoolVar(&timeline, "timeline", false, "Show the yearly balance table")
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare avalanche and snowball",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.load(cmd)
			if err != nil {
				return err
			}
			p, done := opts.planner()
			defer done()

			resp, err := p.Compare(cmd.Context(), &req.PlanRequest)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), "STRATEGY COMPARISON", resp, func() string {
				return cli.RenderComparison(resp)
			})
		},
	}
}

func newScenariosCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "Run the minimum-only, balanced and aggressive budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.load(cmd)
			if err != nil {
				return err
			}
			p, done := opts.planner()
			defer done()

			resp, err := p.Scenarios(cmd.Context(), &req.PlanRequest)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), "BUDGET SCENARIOS", resp, func() string {
				return cli.RenderScenarios(resp)
			})
		},
	}
}

func newSensitivityCmd(opts *options) *cobra.Command {
	var extras []float64
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Show how extra monthly payments change the payoff",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if len(extras) > 0 {
				req.Extras = extras
			}
			p, done := opts.planner()
			defer done()

			resp, err := p.Sensitivity(cmd.Context(), req)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), "EXTRA PAYMENT WHAT-IF", resp, func() string {
				return cli.RenderSensitivity(resp)
			})
		},
	}
	cmd.Flags().Float64SliceVar(&extras, "extras", nil, "Extra amounts to try, e.g. 100,250,500")
	return cmd
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show debt-to-income, freedom score and advice",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.load(cmd)
			if err != nil {
				return err
			}
			p, done := opts.planner()
			defer done()

			resp, err := p.Summary(cmd.Context(), &req.PlanRequest)
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), "DEBT SUMMARY", resp, func() string {
				return cli.RenderSummary(resp)
			})
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample scenario file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "plan.toml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := scenario.Save(path, scenario.Example()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s; edit it, then run: debtplan simulate -s %s\n", path, path)
			return nil
		},
	}
}
