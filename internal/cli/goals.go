package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blueprint/internal/app"
	"github.com/mesh-intelligence/blueprint/pkg/store"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

var goalStatuses = []types.GoalStatus{
	types.GoalPending, types.GoalInProgress, types.GoalCompleted, types.GoalDeferred, types.GoalCancelled,
}

var priorityLevels = []types.PriorityLevel{
	types.PriorityLow, types.PriorityMedium, types.PriorityHigh, types.PriorityCritical,
}

func newGoalCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage career goals",
	}
	cmd.AddCommand(
		newGoalAddCmd(st),
		newGoalListCmd(st),
		newGoalStatusCmd(st),
		newGoalDeleteCmd(st),
	)
	return cmd
}

func newGoalAddCmd(st *rootState) *cobra.Command {
	var (
		title, description, targetDate string
		priority, status               string
		skills                         []string
	)
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a goal",
		Example: `  blueprint goal add --title "Lead a project" --priority High --target-date 2027-06-30`,
		Args:    usageArgs(cobra.NoArgs),
	}
	cmd.RunE = st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
		g := types.CareerGoal{
			Title:         title,
			Description:   description,
			TargetDate:    targetDate,
			Status:        types.GoalStatus(status),
			Priority:      types.PriorityLevel(priority),
			RelatedSkills: skills,
			ActionItems:   []types.ActionItem{},
		}
		if err := checkGoal(g); err != nil {
			return err
		}
		saved, err := a.Career.SaveGoal(g)
		if err != nil {
			return err
		}
		return st.emit(cmd, saved, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Created goal %s: %s\n", saved.ID, saved.Title)
			return err
		})
	})

	fl := cmd.Flags()
	fl.StringVar(&title, "title", "", "goal title (required)")
	fl.StringVar(&description, "description", "", "longer description")
	fl.StringVar(&targetDate, "target-date", "", "target date, YYYY-MM-DD")
	fl.StringVar(&priority, "priority", "", "Low, Medium, High or Critical (default Medium)")
	fl.StringVar(&status, "status", "", "initial status (default Pending)")
	fl.StringSliceVar(&skills, "skills", nil, "comma-separated related skills")
	return cmd
}

// checkGoal rejects unknown status and priority names. Empty values are
// filled with defaults by the workspace.
func checkGoal(g types.CareerGoal) error {
	if g.Status != "" && !slices.Contains(goalStatuses, g.Status) {
		return fmt.Errorf("%w: unknown goal status %q", types.ErrValidation, g.Status)
	}
	if g.Priority != "" && !slices.Contains(priorityLevels, g.Priority) {
		return fmt.Errorf("%w: unknown priority %q", types.ErrValidation, g.Priority)
	}
	return nil
}

func newGoalListCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals, oldest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			goals, err := a.Career.Goals()
			if err != nil {
				return err
			}
			return st.emit(cmd, goals, func(w io.Writer) error {
				rows := make([][]string, 0, len(goals))
				for _, g := range goals {
					rows = append(rows, []string{g.ID, truncate(g.Title, 40), string(g.Status), string(g.Priority), g.TargetDate})
				}
				return printTable(w, []string{"ID", "TITLE", "STATUS", "PRIORITY", "TARGET"}, rows, "goal")
			})
		}),
	}
}

func newGoalStatusCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a goal to a new status",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			id, status := args[0], types.GoalStatus(args[1])
			g, ok, err := store.Get[types.CareerGoal](a.Backend, types.EntityGoal, id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("goal %s: %w", id, types.ErrNotFound)
			}
			g.Status = status
			if err := checkGoal(g); err != nil {
				return err
			}
			saved, err := a.Career.SaveGoal(g)
			if err != nil {
				return err
			}
			return st.emit(cmd, saved, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Goal %s is now %s\n", saved.ID, saved.Status)
				return err
			})
		}),
	}
}

func newGoalDeleteCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			if err := a.Career.DeleteGoal(args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal %s\n", args[0])
			return err
		}),
	}
}
