package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/debtfree/debtfree-go/internal/cli"
	"github.com/debtfree/debtfree-go/internal/config"
	"github.com/debtfree/debtfree-go/internal/domain"
	"github.com/debtfree/debtfree-go/internal/infra/cache"
	"github.com/debtfree/debtfree-go/internal/infra/observability"
	"github.com/debtfree/debtfree-go/internal/infra/resilience"
	"github.com/debtfree/debtfree-go/internal/scenario"
	"github.com/debtfree/debtfree-go/internal/service"

	"github.com/spf13/cobra"
)

// options are the flags shared by every plan command.
type options struct {
	scenario string
	strategy string
	extra    float64
	horizon  int
	json     bool
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "debtplan",
		Short:         "Debt payoff planner",
		Long:          "Simulate avalanche and snowball payoff plans for the debts in a TOML scenario file.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.scenario, "scenario", "s", "plan.toml", "Scenario file (TOML)")
	pf.StringVar(&opts.strategy, "strategy", "", "Override the strategy: avalanche or snowball")
	pf.Float64Var(&opts.extra, "extra", 0, "Pay this much above the minimums each month (flat_extra budget)")
	pf.IntVar(&opts.horizon, "horizon", 0, "Override the simulation horizon in months")
	pf.BoolVar(&opts.json, "json", false, "Print JSON instead of tables")
	pf.StringVar(&opts.logLevel, "log-level", "error", "Log level")

	root.AddCommand(
		newSimulateCmd(opts),
		newCompareCmd(opts),
		newScenariosCmd(opts),
		newSensitivityCmd(opts),
		newSummaryCmd(opts),
		newInitCmd(),
	)
	return root
}

// load reads the scenario file and applies the flag overrides.
func (o *options) load(cmd *cobra.Command) (*domain.SensitivityRequest, error) {
	req, err := scenario.Load(o.scenario)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if o.strategy != "" {
		req.Strategy = o.strategy
	}
	if flags.Changed("extra") {
		req.Budget = domain.BudgetInput{Policy: "flat_extra", Extra: o.extra}
	}
	if flags.Changed("horizon") {
		req.HorizonMonths = o.horizon
	}
	return req, nil
}

// planner builds an in-process planner with the same defaults as the server.
func (o *options) planner() (*service.Planner, func()) {
	cfg := config.Load()
	c := cache.New[*domain.SimulationResponse](time.Minute)
	p := service.NewPlanner(
		c,
		resilience.NewBulkhead(cfg.MaxConcurrency),
		observability.NewMetrics(),
		observability.NewLogger(o.logLevel),
		service.Defaults{HorizonMonths: cfg.DefaultHorizonMonths, TakeHomeRate: cfg.DefaultTakeHomeRate},
	)
	return p, func() { c.Close() }
}

// print writes v as indented JSON or as the rendered view.
func (o *options) print(w io.Writer, title string, v any, render func() string) error {
	if o.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(title))
	fmt.Fprintln(w)
	fmt.Fprint(w, render())
	return nil
}
