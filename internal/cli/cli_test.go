package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/blueprint/internal/ai"
	"github.com/mesh-intelligence/blueprint/internal/app"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// harness runs command trees against private config and data directories.
type harness struct {
	t         *testing.T
	configDir string
	dataDir   string
	opts      []app.Option
}

func newHarness(t *testing.T, opts ...app.Option) *harness {
	t.Helper()
	root := t.TempDir()
	return &harness{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
		opts:      opts,
	}
}

func (h *harness) run(args ...string) (stdout, stderr string, err error) {
	h.t.Helper()
	root := newRootCmd(h.opts...)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config-dir", h.configDir, "--data-dir", h.dataDir}, args...))
	err = root.Execute()
	return out.String(), errOut.String(), err
}

// mustRun fails the test if the command fails.
func (h *harness) mustRun(args ...string) (stdout, stderr string) {
	h.t.Helper()
	stdout, stderr, err := h.run(args...)
	require.NoError(h.t, err, "blueprint %s\nstderr: %s", strings.Join(args, " "), stderr)
	return stdout, stderr
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out, _ := h.mustRun("version")
	assert.Contains(t, out, "blueprint "+Version)
	assert.Contains(t, out, modulePath)
}

func TestInit_CreatesConfigAndStore(t *testing.T) {
	h := newHarness(t)
	out, _ := h.mustRun("init")
	assert.Contains(t, out, "Blueprint initialized")

	cfg, err := os.ReadFile(filepath.Join(h.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "backend: sqlite")
	assert.Contains(t, string(cfg), "data_dir: "+h.dataDir)
	assert.NotContains(t, string(cfg), "api_key")

	assert.FileExists(t, filepath.Join(h.dataDir, "records.jsonl"))

	// A second init keeps the existing file.
	require.NoError(t, os.WriteFile(filepath.Join(h.configDir, configFileExt), []byte("backend: sqlite\nkey_prefix: custom_\n"), 0o644))
	h.mustRun("init")
	cfg, err = os.ReadFile(filepath.Join(h.configDir, configFileExt))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "key_prefix: custom_")
}

func TestGoalLifecycle(t *testing.T) {
	h := newHarness(t)

	out, _ := h.mustRun("--json", "goal", "add", "--title", "Lead a project", "--priority", "High")
	goal := decode[types.CareerGoal](t, out)
	assert.Equal(t, "Lead a project", goal.Title)
	assert.Equal(t, types.PriorityHigh, goal.Priority)
	assert.Equal(t, types.GoalPending, goal.Status)

	out, _ = h.mustRun("goal", "list")
	assert.Contains(t, out, goal.ID)
	assert.Contains(t, out, "Total: 1 goal(s)")

	h.mustRun("goal", "status", goal.ID, "Completed")

	out, _ = h.mustRun("--json", "dashboard")
	stats := decode[map[string]any](t, out)
	assert.EqualValues(t, 1, stats["goalsTotal"])
	assert.EqualValues(t, 1, stats["goalsCompleted"])

	out, _ = h.mustRun("goal", "delete", goal.ID)
	assert.Contains(t, out, "Deleted goal")

	out, _ = h.mustRun("goal", "list")
	assert.Contains(t, out, "No goals found.")

	out, _ = h.mustRun("--json", "audit", "log")
	entries := decode[[]types.AuditLogEntry](t, out)
	var events []types.AuditEventType
	for _, e := range entries {
		events = append(events, e.EventType)
	}
	assert.Equal(t, []types.AuditEventType{types.EventGoalDeleted, types.EventGoalUpdated, types.EventGoalCreated}, events)
}

func TestGoal_UserErrors(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing title", []string{"goal", "add"}, types.ErrEmptyInput},
		{"bad priority", []string{"goal", "add", "--title", "x", "--priority", "Urgent"}, types.ErrValidation},
		{"unknown goal", []string{"goal", "delete", "nope"}, types.ErrNotFound},
		{"unknown goal status", []string{"goal", "status", "nope", "Completed"}, types.ErrNotFound},
		{"missing args", []string{"goal", "delete"}, errUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := h.run(tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}
}

func TestApplications(t *testing.T) {
	h := newHarness(t)
	job := writeFile(t, t.TempDir(), "job.txt", "Build distributed systems.")

	out, _ := h.mustRun("--json", "app", "add", "--company", "Acme", "--title", "Staff Engineer", "--job", job)
	ja := decode[types.JobApplication](t, out)
	assert.Equal(t, types.AppApplied, ja.Status)
	assert.Equal(t, "Build distributed systems.", ja.JobDescription)
	assert.NotEmpty(t, ja.ApplicationDate)

	h.mustRun("app", "add", "--id", ja.ID, "--company", "Acme", "--title", "Staff Engineer", "--status", "Offer Received")

	out, _ = h.mustRun("app", "list")
	assert.Contains(t, out, "Offer Received")
	assert.Contains(t, out, "Total: 1 application(s)")

	_, _, err := h.run("app", "add", "--company", "Acme", "--title", "x", "--status", "Ghosted")
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestProfile_BootstrapAndUpdate(t *testing.T) {
	h := newHarness(t)

	out, _ := h.mustRun("profile")
	assert.Contains(t, out, "Jane Doe")

	resume := writeFile(t, t.TempDir(), "resume.txt", "Go engineer.")
	out, _ = h.mustRun("--json", "profile", "update", "--name", "Sam Lee", "--skills", "Go,SQL", "--resume", resume)
	p := decode[types.UserProfile](t, out)
	assert.Equal(t, "Sam Lee", p.Name)
	assert.Equal(t, []string{"Go", "SQL"}, p.Skills)
	assert.Equal(t, "Go engineer.", p.ResumeText)
	assert.Equal(t, "Software Engineer", p.CurrentRole, "unchanged fields are kept")

	out, _ = h.mustRun("--json", "audit", "log", "--limit", "1")
	entries := decode[[]types.AuditLogEntry](t, out)
	require.Len(t, entries, 1)
	assert.Equal(t, "Profile updated for Sam Lee", entries[0].Message)

	_, _, err := h.run("profile", "update", "--resume", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestTokens(t *testing.T) {
	h := newHarness(t)

	_, stderr := h.mustRun("tokens", "issue", "5", "CareerCoin", "Finished course")
	assert.Contains(t, stderr, "[success] You earned 5 CareerCoin!")

	h.mustRun("tokens", "issue", "2.5", "SkillPoint")

	out, _ := h.mustRun("--json", "tokens", "balance")
	balances := decode[map[string]float64](t, out)
	assert.Equal(t, map[string]float64{"CareerCoin": 5, "SkillPoint": 2.5}, balances)

	out, _ = h.mustRun("tokens", "balance", "CareerCoin")
	assert.Equal(t, "CareerCoin: 5\n", out)

	out, _ = h.mustRun("--json", "tokens", "history")
	txs := decode[[]types.TokenTransaction](t, out)
	require.Len(t, txs, 2)
	assert.Equal(t, types.TokenSkillPoint, txs[0].TokenType, "newest first")
	assert.Equal(t, types.SystemID, txs[1].SenderID)
	assert.Equal(t, "Finished course", txs[1].Memo)
}

func TestTokens_InvalidInput(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"not a number", []string{"tokens", "issue", "lots", "CareerCoin"}, types.ErrInvalidAmount},
		{"zero", []string{"tokens", "issue", "0", "CareerCoin"}, types.ErrInvalidAmount},
		{"negative", []string{"tokens", "issue", "--", "-3", "CareerCoin"}, types.ErrInvalidAmount},
		{"unknown token", []string{"tokens", "issue", "1", "Gold"}, types.ErrInvalidTokenType},
		{"unknown balance token", []string{"tokens", "balance", "Gold"}, types.ErrInvalidTokenType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := h.run(tt.args...)
			assert.ErrorIs(t, err, tt.want)
			assert.NotContains(t, stderr, "You earned")
		})
	}

	out, _ := h.mustRun("--json", "tokens", "history")
	assert.Equal(t, "[]\n", out)
}

func TestRawRecords(t *testing.T) {
	h := newHarness(t)

	h.mustRun("set", "Goal", `{"id":"g1","title":"Raw goal","status":"Pending"}`)

	out, _ := h.mustRun("get", "Goal", "g1")
	assert.Contains(t, out, `"title": "Raw goal"`)

	out, _ = h.mustRun("list", "Goal")
	goals := decode[[]map[string]any](t, out)
	require.Len(t, goals, 1)
	assert.Equal(t, "g1", goals[0]["id"])

	out, _ = h.mustRun("list", "Application")
	assert.Equal(t, "[]\n", out)

	h.mustRun("delete", "Goal", "g1")
	_, _, err := h.run("get", "Goal", "g1")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRawRecords_Rejections(t *testing.T) {
	h := newHarness(t)
	h.mustRun("set", "AuditLog", `{"id":"a1","message":"first"}`)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown entity", []string{"get", "Widget", "x"}, types.ErrInvalidEntityType},
		{"invalid json", []string{"set", "Goal", `{"id":`}, types.ErrValidation},
		{"missing id", []string{"set", "Goal", `{"title":"x"}`}, types.ErrInvalidID},
		{"append-only overwrite", []string{"set", "AuditLog", `{"id":"a1","message":"second"}`}, types.ErrValidation},
		{"append-only delete", []string{"delete", "TokenTransaction", "t1"}, types.ErrValidation},
		{"delete missing", []string{"delete", "Goal", "nope"}, types.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := h.run(tt.args...)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, exitUserError, exitCode(err))
		})
	}

	out, _ := h.mustRun("get", "AuditLog", "a1")
	assert.Contains(t, out, "first")
}

func TestAuditRecord(t *testing.T) {
	h := newHarness(t)

	out, _ := h.mustRun("--json", "audit", "record", "SESSION_SCHEDULED", "Session", "s1", "Mentoring booked")
	entry := decode[types.AuditLogEntry](t, out)
	assert.Equal(t, types.EventSessionScheduled, entry.EventType)
	assert.Equal(t, types.UserID, entry.ActorID)
	assert.Equal(t, "SIG_"+entry.ID, entry.Signature)
	assert.Len(t, entry.PayloadHash, 16)

	_, _, err := h.run("audit", "record", "NOT_AN_EVENT", "Session", "s1", "x")
	assert.ErrorIs(t, err, types.ErrValidation)

	_, _, err = h.run("audit", "record", "SESSION_SCHEDULED", "Session", "s1", "x", "--status", "MAYBE")
	assert.ErrorIs(t, err, types.ErrInvalidAuditStatus)
}

const suggestionsJSON = `{"suggestions":[{"originalText":"Did stuff","improvedText":"Shipped a payments API","rationale":"Concrete impact","category":"Impact","severity":"Major"}]}`

const skillGapsJSON = `{"skillGaps":[{"skill":"Kubernetes","category":"Cloud Computing","currentLevel":2,"targetLevel":4,"gap":2}]}`

func stubGenerator(text string, err error) app.Option {
	return app.WithGenerator(ai.GeneratorFunc(func(context.Context, ai.Request) (string, error) {
		return text, err
	}))
}

func TestAnalyzeResume(t *testing.T) {
	h := newHarness(t, stubGenerator(suggestionsJSON, nil))
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", "Did stuff")
	job := writeFile(t, dir, "job.txt", "Payments engineer")

	out, stderr := h.mustRun("--json", "analyze", "resume", "--resume", resume, "--job", job)
	suggestions := decode[[]types.AISuggestion](t, out)
	require.Len(t, suggestions, 1)
	assert.Equal(t, types.SeverityMajor, suggestions[0].Severity)
	assert.NotEmpty(t, suggestions[0].ID)
	assert.Contains(t, stderr, "[success] Resume analysis complete!")
	assert.Contains(t, stderr, "[success] You earned 5 CareerCoin!")

	out, _ = h.mustRun("tokens", "balance", "CareerCoin")
	assert.Equal(t, "CareerCoin: 5\n", out)

	// Without --resume the profile's resume is used.
	out, _ = h.mustRun("analyze", "resume", "--job", job)
	assert.Contains(t, out, "[Major] Impact")
}

func TestAnalyzeResume_Errors(t *testing.T) {
	job := writeFile(t, t.TempDir(), "job.txt", "Payments engineer")

	t.Run("missing job description", func(t *testing.T) {
		h := newHarness(t, stubGenerator(suggestionsJSON, nil))
		_, stderr, err := h.run("analyze", "resume")
		assert.ErrorIs(t, err, types.ErrEmptyInput)
		assert.Contains(t, stderr, "[warning] Please provide both resume and job description.")
	})

	t.Run("generator failure", func(t *testing.T) {
		h := newHarness(t, stubGenerator("", errors.New("quota exceeded")))
		_, stderr, err := h.run("analyze", "resume", "--job", job)
		assert.ErrorIs(t, err, types.ErrAIAnalysis)
		assert.Equal(t, exitSysError, exitCode(err))
		assert.Contains(t, stderr, "[error] AI analysis failed.")
		assert.NotContains(t, stderr, "You earned")
	})
}

func TestAnalyzeSkills(t *testing.T) {
	h := newHarness(t, stubGenerator(skillGapsJSON, nil))

	out, stderr := h.mustRun("analyze", "skills")
	assert.Contains(t, out, "Kubernetes")
	assert.Contains(t, out, "Cloud Computing")
	assert.Contains(t, out, "40")
	assert.Contains(t, out, "80")
	assert.Contains(t, stderr, "[success] Skill gap analysis synchronized.")

	out, _ = h.mustRun("--json", "analyze", "skills")
	results := decode[[]types.SkillAssessmentResult](t, out)
	require.Len(t, results, 1)
	assert.Equal(t, 2.0, results[0].Gap)
	assert.NotNil(t, results[0].Recommendations)
}

func TestEphemeralStoreIsDiscarded(t *testing.T) {
	h := newHarness(t)
	h.mustRun("--ephemeral", "tokens", "issue", "5", "CareerCoin")

	out, _ := h.mustRun("--ephemeral", "tokens", "balance", "CareerCoin")
	assert.Equal(t, "CareerCoin: 0\n", out)
	assert.NoFileExists(t, filepath.Join(h.dataDir, "records.jsonl"))
}

func TestMetricsFlag(t *testing.T) {
	h := newHarness(t)
	_, stderr := h.mustRun("--metrics", "tokens", "issue", "3", "SkillPoint")
	assert.Contains(t, stderr, `blueprint_ledger_rewards_total{token_type="SkillPoint"} 1`)
	assert.Contains(t, stderr, `blueprint_audit_writes_total{result="ok"} 1`)
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	h := newHarness(t)
	_, _, err := h.run("tokens", "history", "--bogus")
	require.Error(t, err)
	assert.ErrorIs(t, err, errUsage)
	assert.Equal(t, exitUserError, exitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"validation", types.ErrInvalidAmount, exitUserError},
		{"wrapped not found", errors.Join(errors.New("ctx"), types.ErrNotFound), exitUserError},
		{"in progress", types.ErrAnalysisInProgress, exitUserError},
		{"unknown backend", types.ErrBackendUnknown, exitUserError},
		{"ai failure", types.ErrAIAnalysis, exitSysError},
		{"detached", types.ErrStoreDetached, exitSysError},
		{"other", errors.New("disk on fire"), exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
