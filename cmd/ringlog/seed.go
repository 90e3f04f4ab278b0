package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sakif/ringlog/internal/dateutil"
	"github.com/sakif/ringlog/internal/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		email string
		rng   int64
	)

	cmd := &cobra.Command{
		Use:   "seed [weeks]",
		Short: "Generate fake training history for a user",
		Long: fmt.Sprintf(`Generate weeks of plausible workouts and weigh-ins ending this week.

Sessions land on Monday, Wednesday, Friday and Saturday; weigh-ins on Monday
and Friday. Earlier seed data for the user is replaced, workouts logged by
hand are kept. weeks defaults to %d and may be %d to %d.

The user must have signed in once. The email falls back to SEED_USER_EMAIL.`,
			seed.DefaultWeeks, seed.MinWeeks, seed.MaxWeeks),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			weeks := seed.DefaultWeeks
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("weeks must be a number, got %q", args[0])
				}
				weeks = n
			}

			runner := seed.NewRunner(a.store, seed.NewGenerator(rng), a.now, a.logger)
			res, err := runner.Seed(cmd.Context(), a.seedEmail(email), weeks)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(out, "✓ Seeded %d weeks for %s\n", res.Weeks, res.User.Email)
			faint := color.New(color.Faint)
			fmt.Fprintf(out, "  %s %s, ISO week %d (%s)\n", faint.Sprint("from     "),
				dateutil.FormatFullDate(res.Start), dateutil.WeekNumber(res.Start), dateutil.FormatDistance(res.Start, a.now()))
			fmt.Fprintf(out, "  %s %d\n", faint.Sprint("phases   "), res.Phases())
			fmt.Fprintf(out, "  %s %d inserted, %d replaced\n", faint.Sprint("workouts "), res.WorkoutsInserted, res.WorkoutsDeleted)
			fmt.Fprintf(out, "  %s %d inserted, %d replaced\n", faint.Sprint("metrics  "), res.MetricsInserted, res.MetricsDeleted)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&email, "email", "", "user to seed (default $SEED_USER_EMAIL)")
	cmd.Flags().Int64Var(&rng, "seed", 0, "random seed; 0 picks one")

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove seed data and reset the user to phase 1, week 1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			runner := seed.NewRunner(a.store, seed.NewGenerator(0), a.now, a.logger)
			res, err := runner.Delete(cmd.Context(), a.seedEmail(email))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			color.New(color.FgYellow).Fprintf(out, "✗ Deleted seed data for %s\n", res.User.Email)
			fmt.Fprintf(out, "  %d workouts, %d metrics\n", res.WorkoutsDeleted, res.MetricsDeleted)
			fmt.Fprintf(out, "  program reset to phase %d, week %d\n",
				res.User.Settings.CurrentPhase, res.User.Settings.CurrentWeek)
			return nil
		},
	})
	return cmd
}

func (a *app) seedEmail(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.Seed.UserEmail
}
