package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sakif/ringlog/internal/program"
)

func newProgramCmd() *cobra.Command {
	var deload bool

	cmd := &cobra.Command{
		Use:   "program [phase]",
		Short: "Print the sessions of a program phase",
		Long: `Print every session of a phase with sets, reps, tempo and rest.

phase defaults to 1. --deload prints the week 6 sessions instead.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 1
			if len(args) == 1 {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("phase must be a number, got %q", args[0])
				}
				n = v
			}
			phase, ok := program.PhaseByNumber(n)
			if !ok {
				return fmt.Errorf("phase must be between 1 and %d, got %d", program.PhaseCount, n)
			}

			out := cmd.OutOrStdout()
			title := color.New(color.Bold)
			title.Fprintf(out, "Phase %d: %s\n", phase.Phase, phase.Name)
			sessions := phase.Sessions
			if deload {
				sessions = phase.DeloadSessions
				color.New(color.FgYellow).Fprintln(out, "deload week")
			}
			faint := color.New(color.Faint)
			for _, st := range program.SessionTypes {
				s, ok := sessions[st]
				if !ok {
					continue
				}
				fmt.Fprintf(out, "\n%s\n", title.Sprint(s.Name))
				for _, e := range s.Exercises {
					fmt.Fprintf(out, "  %-3s %-40s %s x %s  %s %s  %s %s\n",
						e.Letter, e.Name, e.TargetSets, e.TargetReps,
						faint.Sprint("tempo"), e.Tempo,
						faint.Sprint("rest"), program.FormatTime(e.RestSeconds))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&deload, "deload", false, "show the deload sessions")

	cmd.AddCommand(newExercisesCmd())
	return cmd
}

func newExercisesCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:         "exercises",
		Short:       "List the exercise library",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if category == "" {
				for _, name := range program.ExerciseNames() {
					fmt.Fprintln(out, name)
				}
				return nil
			}

			var c program.Category
			switch strings.ToLower(category) {
			case "push":
				c = program.CategoryPush
			case "pull":
				c = program.CategoryPull
			default:
				return fmt.Errorf("category must be push or pull, got %q", category)
			}
			faint := color.New(color.Faint)
			for _, d := range program.DefinitionsByCategory(c) {
				fmt.Fprintf(out, "%s  %s\n", d.Name, faint.Sprint(strings.Join(d.MuscleGroups, ", ")))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "push or pull; all exercises when empty")
	return cmd
}
