package career

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/blueprint/internal/audit"
	"github.com/mesh-intelligence/blueprint/internal/ledger"
	"github.com/mesh-intelligence/blueprint/internal/logging"
	"github.com/mesh-intelligence/blueprint/internal/memory"
	"github.com/mesh-intelligence/blueprint/internal/notify"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// stubAnalyzer returns canned results and records its inputs.
type stubAnalyzer struct {
	suggestions []types.AISuggestion
	gaps        []types.SkillAssessmentResult
	err         error
	calls       int
	lastTarget  string
}

func (s *stubAnalyzer) AnalyzeResume(_ context.Context, _, _ string) ([]types.AISuggestion, error) {
	s.calls++
	return s.suggestions, s.err
}

func (s *stubAnalyzer) AnalyzeSkillGaps(_ context.Context, _ types.UserProfile, target string) ([]types.SkillAssessmentResult, error) {
	s.calls++
	s.lastTarget = target
	return s.gaps, s.err
}

type fixture struct {
	ws       *Workspace
	feed     *notify.Feed
	audit    *audit.Log
	ledger   *ledger.Ledger
	analyzer *stubAnalyzer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	b := memory.NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendMemory}))
	t.Cleanup(func() { b.Detach() })

	quiet := logging.Discard()
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	feed := notify.New()
	auditLog := audit.New(b, audit.WithLogger(quiet), audit.WithClock(clock))
	lg := ledger.New(b, feed, auditLog, ledger.WithLogger(quiet))
	an := &stubAnalyzer{}
	return fixture{
		ws:       New(b, feed, auditLog, lg, an, WithLogger(quiet), WithClock(clock)),
		feed:     feed,
		audit:    auditLog,
		ledger:   lg,
		analyzer: an,
	}
}

func (f fixture) events(t *testing.T) []types.AuditEventType {
	t.Helper()
	logs, err := f.audit.GetAllLogs()
	require.NoError(t, err)
	out := make([]types.AuditEventType, len(logs))
	for i, l := range logs {
		out[len(logs)-1-i] = l.EventType
	}
	return out
}

func TestLoadProfile_CreatesDefaultOnce(t *testing.T) {
	f := newFixture(t)

	p, err := f.ws.LoadProfile()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultProfileID, p.ID)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, []string{"Staff Engineer", "Architecture Lead"}, p.DesiredRoles)

	p.Name = "Jane Q. Doe"
	_, err = f.ws.SaveProfile(p)
	require.NoError(t, err)

	again, err := f.ws.LoadProfile()
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", again.Name)
	assert.Equal(t, []types.AuditEventType{types.EventProfileUpdated}, f.events(t))
}

func TestSaveGoal_CreateUpdateDelete(t *testing.T) {
	f := newFixture(t)

	g, err := f.ws.SaveGoal(types.CareerGoal{Title: "Become Staff Engineer"})
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, types.GoalPending, g.Status)
	assert.Equal(t, types.PriorityMedium, g.Priority)
	created := g.CreatedAt

	g.Status = types.GoalCompleted
	updated, err := f.ws.SaveGoal(g)
	require.NoError(t, err)
	assert.Equal(t, created, updated.CreatedAt)
	assert.True(t, updated.LastUpdated.After(created))

	require.NoError(t, f.ws.DeleteGoal(g.ID))
	assert.ErrorIs(t, f.ws.DeleteGoal(g.ID), types.ErrNotFound)

	goals, err := f.ws.Goals()
	require.NoError(t, err)
	assert.Empty(t, goals)

	assert.Equal(t, []types.AuditEventType{
		types.EventGoalCreated,
		types.EventGoalUpdated,
		types.EventGoalDeleted,
	}, f.events(t))
}

func TestSaveGoal_RequiresTitle(t *testing.T) {
	f := newFixture(t)
	_, err := f.ws.SaveGoal(types.CareerGoal{Title: "  "})
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Empty(t, f.events(t))
}

func TestSaveApplication(t *testing.T) {
	f := newFixture(t)

	a, err := f.ws.SaveApplication(types.JobApplication{JobTitle: "Staff Engineer", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, types.AppApplied, a.Status)
	assert.NotEmpty(t, a.ApplicationDate)

	a.Status = types.AppInterviewing
	_, err = f.ws.SaveApplication(a)
	require.NoError(t, err)

	_, err = f.ws.SaveApplication(types.JobApplication{JobTitle: "Engineer"})
	assert.ErrorIs(t, err, types.ErrEmptyInput)

	apps, err := f.ws.Applications()
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, types.AppInterviewing, apps[0].Status)

	logs, err := f.audit.GetAllLogs()
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Updated application: Staff Engineer at Acme", logs[0].Message)
}

func TestGoalsOrderedByCreation(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.ws.SaveGoal(types.CareerGoal{Title: fmt.Sprintf("goal %d", i)})
		require.NoError(t, err)
	}
	goals, err := f.ws.Goals()
	require.NoError(t, err)
	require.Len(t, goals, 3)
	for i, g := range goals {
		assert.Equal(t, fmt.Sprintf("goal %d", i), g.Title)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)

	for _, status := range []types.GoalStatus{types.GoalCompleted, types.GoalInProgress, types.GoalCompleted} {
		_, err := f.ws.SaveGoal(types.CareerGoal{Title: "g", Status: status})
		require.NoError(t, err)
	}
	for _, status := range []types.JobApplicationStatus{types.AppApplied, types.AppInterviewing, types.AppRejected, types.AppOfferReceived} {
		_, err := f.ws.SaveApplication(types.JobApplication{JobTitle: "t", Company: "c", Status: status})
		require.NoError(t, err)
	}
	_, err := f.ledger.IssueReward(7, types.TokenCareerCoin, "bonus")
	require.NoError(t, err)
	_, err = f.ledger.IssueReward(3, types.TokenSkillPoint, "ignored")
	require.NoError(t, err)

	s, err := f.ws.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{GoalsTotal: 3, GoalsCompleted: 2, AppsPending: 2, Balance: 7}, s)
}

func TestAnalyzeResume_MissingInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.ws.AnalyzeResume(context.Background(), "resume", "")
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Equal(t, 0, f.analyzer.calls)

	notes := f.feed.List()
	require.Len(t, notes, 1)
	assert.Equal(t, "Please provide both resume and job description.", notes[0].Message)
	assert.Equal(t, types.NotificationWarning, notes[0].Type)
}

func TestAnalyzeResume_SuccessRewards(t *testing.T) {
	f := newFixture(t)
	f.analyzer.suggestions = []types.AISuggestion{{ID: "s1", ImprovedText: "better"}}

	got, err := f.ws.AnalyzeResume(context.Background(), "resume", "job")
	require.NoError(t, err)
	assert.Equal(t, f.analyzer.suggestions, got)

	balance, err := f.ledger.GetBalance(types.TokenCareerCoin)
	require.NoError(t, err)
	assert.Equal(t, 5.0, balance)

	notes := f.feed.List()
	require.Len(t, notes, 2)
	assert.Equal(t, "You earned 5 CareerCoin!", notes[0].Message)
	assert.Equal(t, "Resume analysis complete!", notes[1].Message)
}

func TestAnalyzeResume_Failure(t *testing.T) {
	f := newFixture(t)
	f.analyzer.err = fmt.Errorf("%w: boom", types.ErrAIAnalysis)

	_, err := f.ws.AnalyzeResume(context.Background(), "resume", "job")
	assert.ErrorIs(t, err, types.ErrAIAnalysis)

	notes := f.feed.List()
	require.Len(t, notes, 1)
	assert.Equal(t, "AI analysis failed.", notes[0].Message)
	assert.Equal(t, types.NotificationError, notes[0].Type)

	balance, err := f.ledger.GetBalance(types.TokenCareerCoin)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestAnalyzeResume_InProgressIsQuiet(t *testing.T) {
	f := newFixture(t)
	f.analyzer.err = types.ErrAnalysisInProgress

	_, err := f.ws.AnalyzeResume(context.Background(), "resume", "job")
	assert.True(t, errors.Is(err, types.ErrAnalysisInProgress))
	assert.Empty(t, f.feed.List())
}

func TestAnalyzeSkills(t *testing.T) {
	f := newFixture(t)
	f.analyzer.gaps = []types.SkillAssessmentResult{{Skill: "Go", CurrentLevel: 2, TargetLevel: 4}}

	got, err := f.ws.AnalyzeSkills(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "Staff Engineer, Architecture Lead", f.analyzer.lastTarget)
	assert.Equal(t, "Skill gap analysis synchronized.", f.feed.List()[0].Message)

	f.analyzer.err = fmt.Errorf("%w: boom", types.ErrAIAnalysis)
	_, err = f.ws.AnalyzeSkills(context.Background())
	assert.ErrorIs(t, err, types.ErrAIAnalysis)
	assert.Equal(t, "AI Analysis Error.", f.feed.List()[0].Message)
}

func TestAnalyze_NoAnalyzer(t *testing.T) {
	f := newFixture(t)
	f.ws.analyzer = nil

	_, err := f.ws.AnalyzeResume(context.Background(), "resume", "job")
	assert.ErrorIs(t, err, types.ErrAIAnalysis)
	_, err = f.ws.AnalyzeSkills(context.Background())
	assert.ErrorIs(t, err, types.ErrAIAnalysis)
}

func TestRadarPoints(t *testing.T) {
	points := RadarPoints([]types.SkillAssessmentResult{
		{Skill: "Go", CurrentLevel: 2, TargetLevel: 4.5},
	})
	require.Len(t, points, 1)
	assert.Equal(t, RadarPoint{Subject: "Go", Current: 40, Target: 90, FullMark: 100}, points[0])
	assert.NotNil(t, RadarPoints(nil))
}
