// Package career is the user's workspace: profile, goals, applications,
// dashboard stats and the AI analyses with their rewards and notifications.
package career

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/blueprint/internal/ai"
	"github.com/mesh-intelligence/blueprint/internal/audit"
	"github.com/mesh-intelligence/blueprint/internal/ledger"
	"github.com/mesh-intelligence/blueprint/internal/logging"
	"github.com/mesh-intelligence/blueprint/internal/notify"
	"github.com/mesh-intelligence/blueprint/pkg/store"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// Resume analysis reward.
const (
	ResumeRewardAmount = 5
	ResumeRewardMemo   = "Resume Analysis Completion"
)

// User-facing notification messages.
const (
	msgMissingResumeInput = "Please provide both resume and job description."
	msgResumeDone         = "Resume analysis complete!"
	msgResumeFailed       = "AI analysis failed."
	msgSkillsDone         = "Skill gap analysis synchronized."
	msgSkillsFailed       = "AI Analysis Error."
)

// Analyzer runs AI analyses. *ai.Gateway implements it.
type Analyzer interface {
	AnalyzeResume(ctx context.Context, resume, jobDescription string) ([]types.AISuggestion, error)
	AnalyzeSkillGaps(ctx context.Context, profile types.UserProfile, target string) ([]types.SkillAssessmentResult, error)
}

var _ Analyzer = (*ai.Gateway)(nil)

// Workspace ties the stores and services together for one user.
type Workspace struct {
	profiles store.Collection[types.UserProfile]
	goals    store.Collection[types.CareerGoal]
	apps     store.Collection[types.JobApplication]

	feed     *notify.Feed
	audit    *audit.Log
	ledger   *ledger.Ledger
	analyzer Analyzer

	now func() time.Time
	log logrus.FieldLogger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Workspace) { w.log = logging.Component(l, "career") }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Workspace) { w.now = now }
}

// New returns a workspace over s. analyzer may be nil when no AI backend
// is configured; the analyses then fail with ErrAIAnalysis.
func New(s types.Store, feed *notify.Feed, auditLog *audit.Log, lg *ledger.Ledger, analyzer Analyzer, opts ...Option) *Workspace {
	w := &Workspace{
		profiles: store.NewCollection[types.UserProfile](s, types.EntityProfile),
		goals:    store.NewCollection[types.CareerGoal](s, types.EntityGoal),
		apps:     store.NewCollection[types.JobApplication](s, types.EntityApplication),
		feed:     feed,
		audit:    auditLog,
		ledger:   lg,
		analyzer: analyzer,
		now:      time.Now,
		log:      logging.Component(nil, "career"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// LoadProfile returns the default profile, creating and saving the
// starter profile on first use.
func (w *Workspace) LoadProfile() (types.UserProfile, error) {
	p, ok, err := w.profiles.Get(types.DefaultProfileID)
	if err != nil {
		return types.UserProfile{}, err
	}
	if ok {
		return p, nil
	}
	p = DefaultProfile(w.now().UTC())
	if err := w.profiles.Set(p); err != nil {
		return types.UserProfile{}, fmt.Errorf("create default profile: %w", err)
	}
	w.log.WithField("profile_id", p.ID).Info("created default profile")
	return p, nil
}

// SaveProfile stores p and records PROFILE_UPDATED. An empty id means the
// default profile.
func (w *Workspace) SaveProfile(p types.UserProfile) (types.UserProfile, error) {
	if p.ID == "" {
		p.ID = types.DefaultProfileID
	}
	p.LastUpdated = w.now().UTC()
	if err := w.profiles.Set(p); err != nil {
		return types.UserProfile{}, err
	}
	w.record(types.EventProfileUpdated, types.EntityProfile, p.ID, "Profile updated for "+p.Name)
	return p, nil
}

// SaveGoal creates a goal when g has no id or its id is unknown, and
// updates it otherwise. Creation time survives updates.
func (w *Workspace) SaveGoal(g types.CareerGoal) (types.CareerGoal, error) {
	if strings.TrimSpace(g.Title) == "" {
		return types.CareerGoal{}, fmt.Errorf("%w: goal title is required", types.ErrEmptyInput)
	}
	now := w.now().UTC()
	event := types.EventGoalCreated

	if g.ID == "" {
		g.ID = types.NewID()
	}
	if prior, ok, err := w.goals.Get(g.ID); err != nil {
		return types.CareerGoal{}, err
	} else if ok {
		event = types.EventGoalUpdated
		g.CreatedAt = prior.CreatedAt
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	if g.Status == "" {
		g.Status = types.GoalPending
	}
	if g.Priority == "" {
		g.Priority = types.PriorityMedium
	}
	g.LastUpdated = now

	if err := w.goals.Set(g); err != nil {
		return types.CareerGoal{}, err
	}
	verb := "Created"
	if event == types.EventGoalUpdated {
		verb = "Updated"
	}
	w.record(event, types.EntityGoal, g.ID, fmt.Sprintf("%s goal: %s", verb, g.Title))
	return g, nil
}

// DeleteGoal removes the goal and records GOAL_DELETED. Unknown ids return
// ErrNotFound.
func (w *Workspace) DeleteGoal(id string) error {
	g, ok, err := w.goals.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("goal %s: %w", id, types.ErrNotFound)
	}
	if err := w.goals.Remove(id); err != nil {
		return err
	}
	w.record(types.EventGoalDeleted, types.EntityGoal, id, "Deleted goal: "+g.Title)
	return nil
}

// SaveApplication creates or updates a job application.
func (w *Workspace) SaveApplication(a types.JobApplication) (types.JobApplication, error) {
	if strings.TrimSpace(a.Company) == "" || strings.TrimSpace(a.JobTitle) == "" {
		return types.JobApplication{}, fmt.Errorf("%w: company and job title are required", types.ErrEmptyInput)
	}
	now := w.now().UTC()
	event := types.EventApplicationAdded

	if a.ID == "" {
		a.ID = types.NewID()
	}
	if prior, ok, err := w.apps.Get(a.ID); err != nil {
		return types.JobApplication{}, err
	} else if ok {
		event = types.EventApplicationUpdated
		a.CreatedAt = prior.CreatedAt
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.Status == "" {
		a.Status = types.AppApplied
	}
	if a.ApplicationDate == "" {
		a.ApplicationDate = now.Format(time.DateOnly)
	}
	a.LastUpdated = now

	if err := w.apps.Set(a); err != nil {
		return types.JobApplication{}, err
	}
	verb := "Added"
	if event == types.EventApplicationUpdated {
		verb = "Updated"
	}
	w.record(event, types.EntityApplication, a.ID, fmt.Sprintf("%s application: %s at %s", verb, a.JobTitle, a.Company))
	return a, nil
}

// Goals returns all goals, oldest first.
func (w *Workspace) Goals() ([]types.CareerGoal, error) {
	goals, err := w.goals.GetAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].CreatedAt.Before(goals[j].CreatedAt)
		}
		return goals[i].ID < goals[j].ID
	})
	return goals, nil
}

// Applications returns all applications, oldest first.
func (w *Workspace) Applications() ([]types.JobApplication, error) {
	apps, err := w.apps.GetAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(apps, func(i, j int) bool {
		if !apps[i].CreatedAt.Equal(apps[j].CreatedAt) {
			return apps[i].CreatedAt.Before(apps[j].CreatedAt)
		}
		return apps[i].ID < apps[j].ID
	})
	return apps, nil
}

// AnalyzeResume runs the resume analysis. On success it notifies and
// rewards the user; on failure it posts an error notification. Missing
// input posts a warning and fails with ErrValidation without calling the
// analyzer.
func (w *Workspace) AnalyzeResume(ctx context.Context, resume, jobDescription string) ([]types.AISuggestion, error) {
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(jobDescription) == "" {
		w.notify(msgMissingResumeInput, types.NotificationWarning)
		return nil, fmt.Errorf("%w: resume and job description are required", types.ErrEmptyInput)
	}
	if w.analyzer == nil {
		w.notify(msgResumeFailed, types.NotificationError)
		return nil, fmt.Errorf("%w: no analyzer configured", types.ErrAIAnalysis)
	}

	results, err := w.analyzer.AnalyzeResume(ctx, resume, jobDescription)
	if err != nil {
		if !errors.Is(err, types.ErrAnalysisInProgress) {
			w.notify(msgResumeFailed, types.NotificationError)
		}
		return nil, err
	}

	w.notify(msgResumeDone, types.NotificationSuccess)
	if w.ledger != nil {
		if _, err := w.ledger.IssueReward(ResumeRewardAmount, types.TokenCareerCoin, ResumeRewardMemo); err != nil {
			w.log.WithError(err).Warn("resume reward not issued")
		}
	}
	return results, nil
}

// AnalyzeSkills runs the skill gap analysis for the stored profile against
// its desired roles.
func (w *Workspace) AnalyzeSkills(ctx context.Context) ([]types.SkillAssessmentResult, error) {
	profile, err := w.LoadProfile()
	if err != nil {
		return nil, err
	}
	if w.analyzer == nil {
		w.notify(msgSkillsFailed, types.NotificationError)
		return nil, fmt.Errorf("%w: no analyzer configured", types.ErrAIAnalysis)
	}

	target := strings.Join(profile.DesiredRoles, ", ")
	results, err := w.analyzer.AnalyzeSkillGaps(ctx, profile, target)
	if err != nil {
		if !errors.Is(err, types.ErrAnalysisInProgress) {
			w.notify(msgSkillsFailed, types.NotificationError)
		}
		return nil, err
	}
	w.notify(msgSkillsDone, types.NotificationSuccess)
	return results, nil
}

func (w *Workspace) notify(message string, typ types.NotificationType) {
	if w.feed == nil {
		return
	}
	_, _ = w.feed.Add(message, typ, "")
}

// record writes an audit entry. Failures are logged by the audit log and
// never fail the business operation.
func (w *Workspace) record(event types.AuditEventType, entityType, entityID, message string) {
	if w.audit == nil {
		return
	}
	_, _ = w.audit.RecordEvent(event, entityType, entityID, message, types.AuditSuccess)
}
