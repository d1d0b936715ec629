package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"filtered/internal/model"
	"filtered/pkg/filtered"
)

func newInitCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the run store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(*filtered.Client) error {
				fmt.Fprintf(cmd.OutOrStdout(), "initialized store=%s\n", c.cfg.Store.Kind)
				return nil
			})
		},
	}
}

func newResetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(client *filtered.Client) error {
				if err := client.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset store=%s\n", c.cfg.Store.Kind)
				return nil
			})
		},
	}
}

func newRunCmd(c *cli) *cobra.Command {
	var (
		runID     string
		steps     int
		seed      int64
		workers   uint32
		pipelines []string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation and store its step reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.cfg
			flags := cmd.Flags()
			if flags.Changed("run-id") {
				cfg.RunID = runID
			}
			if flags.Changed("steps") {
				cfg.Steps = steps
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("pipeline") {
				cfg.Pipelines = pipelines
			}

			return c.withClient(cmd, func(client *filtered.Client) error {
				summary, err := client.Run(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), summary)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "run_id=%s steps=%d final_charge=%g\n", summary.RunID, summary.Steps, summary.FinalCharge)
				printReports(out, summary.Reports)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&runID, "run-id", "", "explicit run id (default: generated)")
	flags.IntVar(&steps, "steps", 0, "number of simulation steps")
	flags.Int64Var(&seed, "seed", 0, "particle seeding seed")
	flags.Uint32Var(&workers, "workers", 0, "workers per supercell")
	flags.StringSliceVar(&pipelines, "pipeline", nil, "pipelines to run (repeatable)")
	flags.BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func newRunsCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(client *filtered.Client) error {
				runs, err := client.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, run := range runs {
					fmt.Fprintf(out, "run_id=%s created_at=%s seed=%d steps=%d workers=%d completed=%t final_charge=%g pipelines=%s\n",
						run.RunID, run.CreatedAtUTC, run.Seed, run.Steps, run.Workers, run.Completed, run.FinalCharge,
						strings.Join(run.Pipelines, ","))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum runs to list (0 for all)")
	return cmd
}

func newReportsCmd(c *cli) *cobra.Command {
	var (
		req    filtered.ReportsRequest
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Show the step reports of a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(client *filtered.Client) error {
				reports, err := client.Reports(cmd.Context(), req)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), reports)
				}
				printReports(cmd.OutOrStdout(), reports)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.RunID, "run-id", "", "run id")
	flags.BoolVar(&req.Latest, "latest", false, "use the newest run")
	flags.StringVar(&req.Pipeline, "pipeline", "", "only show one pipeline")
	flags.BoolVar(&asJSON, "json", false, "print reports as JSON")
	return cmd
}

func newDescribeCmd(c *cli) *cobra.Command {
	var (
		runID  string
		latest bool
	)
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show the stored record of a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withClient(cmd, func(client *filtered.Client) error {
				item, err := client.Describe(cmd.Context(), runID, latest)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), item)
			})
		},
	}
	cmd.Flags().StringVar(&runID, "run-id", "", "run id")
	cmd.Flags().BoolVar(&latest, "latest", false, "use the newest run")
	return cmd
}

func newPipelinesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pipelines",
		Short: "List registered pipelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := c.client()
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()
			for _, name := range client.Pipelines() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func printReports(out io.Writer, reports []model.StepReport) {
	for _, r := range reports {
		fmt.Fprintf(out, "step=%d pipeline=%s filtered=%s regions=%d calls=%d applied=%d charge=%g\n",
			r.Step, r.Pipeline, r.Filtered, r.Regions, r.Calls, r.Applied, r.Charge)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
