package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blueprint/internal/app"
	"github.com/mesh-intelligence/blueprint/internal/career"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

func newAnalyzeCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run AI resume and skill gap analysis",
		Long: "Analyze calls the Gemini API. Set GEMINI_API_KEY (or ai.api_key in\n" +
			"config.yaml, or a .env file) before running it.",
	}
	cmd.AddCommand(newAnalyzeResumeCmd(st), newAnalyzeSkillsCmd(st))
	return cmd
}

func newAnalyzeResumeCmd(st *rootState) *cobra.Command {
	var resumeFile, jobFile string
	cmd := &cobra.Command{
		Use:     "resume",
		Short:   "Suggest resume improvements for a job description",
		Example: "  blueprint analyze resume --resume resume.txt --job posting.txt",
		Args:    usageArgs(cobra.NoArgs),
	}
	cmd.RunE = st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
		var resume, job string
		if resumeFile != "" {
			text, err := readTextFile(resumeFile)
			if err != nil {
				return err
			}
			resume = text
		} else {
			p, err := a.Career.LoadProfile()
			if err != nil {
				return err
			}
			resume = p.ResumeText
		}
		if jobFile != "" {
			text, err := readTextFile(jobFile)
			if err != nil {
				return err
			}
			job = text
		}

		suggestions, err := a.Career.AnalyzeResume(cmd.Context(), resume, job)
		if err != nil {
			return err
		}
		return st.emit(cmd, suggestions, func(w io.Writer) error {
			return printSuggestions(w, suggestions)
		})
	})
	cmd.Flags().StringVar(&resumeFile, "resume", "", "resume text file (default: the profile's resume)")
	cmd.Flags().StringVar(&jobFile, "job", "", "job description file (required)")
	return cmd
}

func printSuggestions(w io.Writer, suggestions []types.AISuggestion) error {
	if len(suggestions) == 0 {
		_, err := fmt.Fprintln(w, "No suggestions.")
		return err
	}
	for i, s := range suggestions {
		_, err := fmt.Fprintf(w, "%d. [%s] %s\n   before: %s\n   after:  %s\n   why:    %s\n",
			i+1, s.Severity, s.Category, oneLine(s.OriginalText), oneLine(s.ImprovedText), oneLine(s.Rationale))
		if err != nil {
			return err
		}
	}
	return nil
}

func newAnalyzeSkillsCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "skills",
		Short: "Compare profile skills against the desired roles",
		Args:  usageArgs(cobra.NoArgs),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			results, err := a.Career.AnalyzeSkills(cmd.Context())
			if err != nil {
				return err
			}
			points := career.RadarPoints(results)
			return st.emit(cmd, results, func(w io.Writer) error {
				rows := make([][]string, 0, len(points))
				for i, p := range points {
					rows = append(rows, []string{
						p.Subject,
						string(results[i].Category),
						fmt.Sprintf("%.0f", p.Current),
						fmt.Sprintf("%.0f", p.Target),
						fmt.Sprintf("%g", results[i].Gap),
					})
				}
				return printTable(w, []string{"SKILL", "CATEGORY", "CURRENT", "TARGET", "GAP"}, rows, "skill")
			})
		}),
	}
}

func oneLine(s string) string {
	return truncate(strings.Join(strings.Fields(s), " "), 100)
}
