package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blueprint/internal/app"
	"github.com/mesh-intelligence/blueprint/internal/ledger"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

func newProfileCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the career profile, creating the default one on first use",
		Args:  usageArgs(cobra.NoArgs),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			p, err := a.Career.LoadProfile()
			if err != nil {
				return err
			}
			return st.emit(cmd, p, func(w io.Writer) error { return printProfile(w, p) })
		}),
	}
	cmd.AddCommand(newProfileUpdateCmd(st))
	return cmd
}

type profileFlags struct {
	name         string
	email        string
	role         string
	industry     string
	years        int
	stage        string
	skills       []string
	desiredRoles []string
	vision       string
	resumeFile   string
}

func newProfileUpdateCmd(st *rootState) *cobra.Command {
	var f profileFlags
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields; only flags given on the command line are applied",
		Example: "  blueprint profile update --name \"Jane Doe\" --skills Go,SQL\n" +
			"  blueprint profile update --resume resume.txt",
		Args: usageArgs(cobra.NoArgs),
	}
	cmd.RunE = st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
		p, err := a.Career.LoadProfile()
		if err != nil {
			return err
		}
		if err := f.apply(cmd, &p); err != nil {
			return err
		}
		saved, err := a.Career.SaveProfile(p)
		if err != nil {
			return err
		}
		return st.emit(cmd, saved, func(w io.Writer) error { return printProfile(w, saved) })
	})

	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "full name")
	fl.StringVar(&f.email, "email", "", "email address")
	fl.StringVar(&f.role, "role", "", "current role")
	fl.StringVar(&f.industry, "industry", "", "current industry")
	fl.IntVar(&f.years, "years", 0, "years of experience")
	fl.StringVar(&f.stage, "stage", "", "career stage (Entry-Level, Junior, Mid-Level, Senior, Lead, Manager, Director, Executive)")
	fl.StringSliceVar(&f.skills, "skills", nil, "comma-separated skills")
	fl.StringSliceVar(&f.desiredRoles, "desired-roles", nil, "comma-separated target roles")
	fl.StringVar(&f.vision, "vision", "", "career vision statement")
	fl.StringVar(&f.resumeFile, "resume", "", "file holding the resume text")
	return cmd
}

func (f *profileFlags) apply(cmd *cobra.Command, p *types.UserProfile) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		p.Name = f.name
	}
	if changed("email") {
		p.Email = f.email
	}
	if changed("role") {
		p.CurrentRole = f.role
	}
	if changed("industry") {
		p.Industry = f.industry
	}
	if changed("years") {
		if f.years < 0 {
			return fmt.Errorf("%w: years must not be negative", types.ErrValidation)
		}
		p.YearsExperience = f.years
	}
	if changed("stage") {
		p.CareerStage = types.CareerStage(f.stage)
	}
	if changed("skills") {
		p.Skills = f.skills
	}
	if changed("desired-roles") {
		p.DesiredRoles = f.desiredRoles
	}
	if changed("vision") {
		p.CareerVision = f.vision
	}
	if changed("resume") {
		text, err := readTextFile(f.resumeFile)
		if err != nil {
			return err
		}
		p.ResumeText = text
	}
	return nil
}

func printProfile(w io.Writer, p types.UserProfile) error {
	_, err := fmt.Fprintf(w,
		"Name:          %s\nEmail:         %s\nRole:          %s (%s, %d years)\nIndustry:      %s\nSkills:        %s\nDesired roles: %s\nVerification:  %s\nUpdated:       %s\n",
		p.Name, p.Email, p.CurrentRole, p.CareerStage, p.YearsExperience, p.Industry,
		strings.Join(p.Skills, ", "), strings.Join(p.DesiredRoles, ", "),
		p.IdentityVerificationLevel, formatTime(p.LastUpdated))
	return err
}

func newDashboardCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show goal, application and token totals",
		Args:  usageArgs(cobra.NoArgs),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			p, err := a.Career.LoadProfile()
			if err != nil {
				return err
			}
			s, err := a.Career.Stats()
			if err != nil {
				return err
			}
			return st.emit(cmd, s, func(w io.Writer) error {
				_, err := fmt.Fprintf(w,
					"Welcome back, %s\nGoals:        %d (%d completed)\nApplications: %d pending\nCareerCoin:   %s\n",
					p.Name, s.GoalsTotal, s.GoalsCompleted, s.AppsPending, ledger.FormatAmount(s.Balance))
				return err
			})
		}),
	}
}

// readTextFile reads a user-supplied text file. A missing file is a user
// error.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s does not exist", types.ErrValidation, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
