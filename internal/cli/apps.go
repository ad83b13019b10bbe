package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blueprint/internal/app"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

var applicationStatuses = []types.JobApplicationStatus{
	types.AppApplied, types.AppInterviewing, types.AppOfferReceived,
	types.AppRejected, types.AppWithdrawn, types.AppAccepted,
}

func newAppCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Track job applications",
	}
	cmd.AddCommand(newAppAddCmd(st), newAppListCmd(st))
	return cmd
}

func newAppAddCmd(st *rootState) *cobra.Command {
	var (
		id, company, title, status string
		date, notes, jobFile       string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an application, or update one with --id",
		Example: "  blueprint app add --company Acme --title \"Staff Engineer\"\n" +
			"  blueprint app add --id <id> --company Acme --title \"Staff Engineer\" --status Interviewing",
		Args: usageArgs(cobra.NoArgs),
	}
	cmd.RunE = st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
		s := types.JobApplicationStatus(status)
		if s != "" && !slices.Contains(applicationStatuses, s) {
			return fmt.Errorf("%w: unknown application status %q", types.ErrValidation, status)
		}
		ja := types.JobApplication{
			ID:              id,
			Company:         company,
			JobTitle:        title,
			Status:          s,
			ApplicationDate: date,
			Notes:           notes,
			InterviewDates:  []string{},
		}
		if jobFile != "" {
			text, err := readTextFile(jobFile)
			if err != nil {
				return err
			}
			ja.JobDescription = text
		}
		saved, err := a.Career.SaveApplication(ja)
		if err != nil {
			return err
		}
		return st.emit(cmd, saved, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Saved application %s: %s at %s (%s)\n", saved.ID, saved.JobTitle, saved.Company, saved.Status)
			return err
		})
	})

	fl := cmd.Flags()
	fl.StringVar(&id, "id", "", "existing application id to update")
	fl.StringVar(&company, "company", "", "company name (required)")
	fl.StringVar(&title, "title", "", "job title (required)")
	fl.StringVar(&status, "status", "", "Applied, Interviewing, Offer Received, Rejected, Withdrawn or Accepted")
	fl.StringVar(&date, "date", "", "application date, YYYY-MM-DD (default today)")
	fl.StringVar(&notes, "notes", "", "free-form notes")
	fl.StringVar(&jobFile, "job", "", "file holding the job description")
	return cmd
}

func newAppListCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List applications, oldest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			apps, err := a.Career.Applications()
			if err != nil {
				return err
			}
			return st.emit(cmd, apps, func(w io.Writer) error {
				rows := make([][]string, 0, len(apps))
				for _, ja := range apps {
					rows = append(rows, []string{ja.ID, truncate(ja.Company, 24), truncate(ja.JobTitle, 32), string(ja.Status), ja.ApplicationDate})
				}
				return printTable(w, []string{"ID", "COMPANY", "TITLE", "STATUS", "APPLIED"}, rows, "application")
			})
		}),
	}
}
