package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/config"
	"github.com/warp/budget-engine/factory"
	"github.com/warp/budget-engine/logging"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// cli carries the persistent flags shared by every subcommand.
type cli struct {
	planPath string
	logLevel string
	logger   *zap.Logger
	factory  *factory.PlanFactory
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

func newRootCmd() *cobra.Command {
	c := &cli{factory: factory.NewPlanFactory()}

	root := &cobra.Command{
		Use:           "budgetctl",
		Short:         "Project monthly sales budgets from a plan file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(config.LogConfig{Level: c.logLevel, Development: true})
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.planPath, "plan", "p", "", "plan file (.json, .yaml or .yml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(c.initCmd(), c.projectCmd(), c.yearCmd(), c.checkCmd())
	return root
}

// loadPlan reads the --plan file, choosing the decoder by extension.
func (c *cli) loadPlan() (*budget.Plan, error) {
	if c.planPath == "" {
		return nil, fmt.Errorf("--plan is required")
	}
	data, err := os.ReadFile(c.planPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	var plan *budget.Plan
	switch strings.ToLower(filepath.Ext(c.planPath)) {
	case ".yaml", ".yml":
		plan, err = c.factory.ParsePlanYAML(data)
	default:
		plan, err = c.factory.ParsePlan(string(data))
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("plan loaded",
		zap.String("path", c.planPath),
		zap.String("plan_id", string(plan.ID)),
		zap.Int("products", len(plan.Lines)))
	return plan, nil
}

// =============================================================================
// SUBCOMMANDS
// =============================================================================

func (c *cli) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Print the demo plan as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := c.factory.ParsePlan(factory.DemoPlanJSON("demo", "Demo Plan"))
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(c.factory.ToJSON(plan)); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func (c *cli) projectCmd() *cobra.Command {
	var month int
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Print the budget table for one month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := c.loadPlan()
			if err != nil {
				return err
			}
			proj, err := plan.Project(budget.Month(month))
			if err != nil {
				return err
			}
			if !proj.Balanced {
				c.logger.Warn("decade shares do not sum to 100%", zap.Int("month", month))
			}
			return writeProjection(cmd.OutOrStdout(), proj)
		},
	}
	cmd.Flags().IntVarP(&month, "month", "m", 1, "month to project (1-12)")
	return cmd
}

func (c *cli) yearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "year",
		Short: "Print the Total row for every month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := c.loadPlan()
			if err != nil {
				return err
			}
			rows, err := plan.ProjectYear()
			if err != nil {
				return err
			}
			return writeYear(cmd.OutOrStdout(), rows)
		},
	}
}

func (c *cli) checkCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a plan and report unbalanced months",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := c.loadPlan()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			unbalanced := plan.Distribution.UnbalancedMonths()
			if len(unbalanced) == 0 {
				fmt.Fprintf(out, "plan %s: ok, all months sum to 100%%\n", plan.ID)
				return nil
			}
			for _, m := range unbalanced {
				d := plan.Distribution[int(m)-1]
				fmt.Fprintf(out, "month %d: %g + %g + %g = %s%%\n", m, d.D1, d.D2, d.D3, d.Sum())
			}
			if strict {
				return fmt.Errorf("%d month(s) do not sum to 100%%", len(unbalanced))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any month is unbalanced")
	return cmd
}

// =============================================================================
// OUTPUT
// =============================================================================

func writeProjection(w io.Writer, proj *budget.PlanProjection) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Product\tD1\tD2\tD3\tTotal\t\n")
	for _, l := range proj.Lines {
		name := l.Name
		if name == "" {
			name = string(l.ProductID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", name, l.Split.D1, l.Split.D2, l.Split.D3, l.Split.Total)
	}
	t := proj.Totals
	fmt.Fprintf(tw, "Total\t%s\t%s\t%s\t%s\t\n", t.D1, t.D2, t.D3, t.Grand)
	return tw.Flush()
}

func writeYear(w io.Writer, rows []budget.MonthTotals) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Month\tD1\tD2\tD3\tTotal\tBalanced\t\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\t\n", r.Month, r.Totals.D1, r.Totals.D2, r.Totals.D3, r.Totals.Grand, r.Balanced)
	}
	return tw.Flush()
}
