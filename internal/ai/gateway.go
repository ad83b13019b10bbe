// Package ai is the boundary to the external generation service. It
// validates input, issues one structured-output request per call, maps the
// response into domain results and audits successful analyses.
package ai

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/mesh-intelligence/blueprint/internal/audit"
	"github.com/mesh-intelligence/blueprint/internal/logging"
	"github.com/mesh-intelligence/blueprint/internal/metrics"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// Operation names used in logs and metrics.
const (
	OpResume = "resume"
	OpSkills = "skills"
)

// Audit entity types for completed analyses.
const (
	EntityResumeAnalysis   = "ResumeAnalysis"
	EntitySkillGapAnalysis = "SkillGapAnalysis"
)

// Config tunes the gateway.
type Config struct {
	Model             string
	Timeout           time.Duration // per call; 0 means DefaultTimeout
	RequestsPerMinute int           // 0 disables rate limiting
}

// Gateway runs resume and skill gap analyses. At most one call of each
// operation is in flight at a time.
type Gateway struct {
	gen     Generator
	audit   *audit.Log
	model   string
	timeout time.Duration
	limiter *rate.Limiter
	now     func() time.Time
	log     logrus.FieldLogger
	metrics *metrics.Metrics

	resumeBusy atomic.Bool
	skillsBusy atomic.Bool
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(g *Gateway) { g.log = logging.Component(l, "ai") }
}

// WithMetrics counts requests by outcome.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithClock overrides time.Now for lastAssessed.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// NewGateway returns a gateway that generates with gen and audits to
// auditLog.
func NewGateway(gen Generator, auditLog *audit.Log, cfg Config, opts ...Option) *Gateway {
	g := &Gateway{
		gen:     gen,
		audit:   auditLog,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		now:     time.Now,
		log:     logging.Component(nil, "ai"),
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AnalyzeResume asks for improvements to resume against jobDescription.
// Each suggestion gets a fresh id. Empty input fails with ErrEmptyInput
// before any request is issued.
func (g *Gateway) AnalyzeResume(ctx context.Context, resume, jobDescription string) ([]types.AISuggestion, error) {
	if strings.TrimSpace(resume) == "" || strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("%w: resume and job description are required", types.ErrEmptyInput)
	}
	if !g.resumeBusy.CompareAndSwap(false, true) {
		g.metrics.AIRequest(OpResume, metrics.OutcomeRejected, 0)
		return nil, types.ErrAnalysisInProgress
	}
	defer g.resumeBusy.Store(false)

	text, err := g.generate(ctx, OpResume, Request{
		Model:  g.model,
		Prompt: resumePrompt(resume, jobDescription),
		Schema: &resumeSchema,
	})
	if err != nil {
		return nil, err
	}

	suggestions, err := parseSuggestions(text)
	if err != nil {
		return nil, g.fail(OpResume, err)
	}

	g.succeed(OpResume, EntityResumeAnalysis, "AI Resume Analysis completed")
	return suggestions, nil
}

// AnalyzeSkillGaps compares profile against target. Results carry no
// recommendations and are stamped with the current time.
func (g *Gateway) AnalyzeSkillGaps(ctx context.Context, profile types.UserProfile, target string) ([]types.SkillAssessmentResult, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("%w: target role is required", types.ErrEmptyInput)
	}
	if !g.skillsBusy.CompareAndSwap(false, true) {
		g.metrics.AIRequest(OpSkills, metrics.OutcomeRejected, 0)
		return nil, types.ErrAnalysisInProgress
	}
	defer g.skillsBusy.Store(false)

	text, err := g.generate(ctx, OpSkills, Request{
		Model:  g.model,
		Prompt: skillGapPrompt(profile, target),
		Schema: &skillGapSchema,
	})
	if err != nil {
		return nil, err
	}

	results, err := parseSkillGaps(text, g.now().UTC())
	if err != nil {
		return nil, g.fail(OpSkills, err)
	}

	g.succeed(OpSkills, EntitySkillGapAnalysis, "AI Skill Gap Analysis completed")
	return results, nil
}

// generate applies the rate limit and timeout, then calls the generator
// once.
func (g *Gateway) generate(ctx context.Context, op string, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", g.fail(op, fmt.Errorf("rate limit: %w", err))
		}
	}

	start := time.Now()
	text, err := g.gen.Generate(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		g.metrics.AIRequest(op, metrics.OutcomeFailure, elapsed)
		g.log.WithError(err).WithField("operation", op).Warn("generation failed")
		return "", fmt.Errorf("%w: %s: %v", types.ErrAIAnalysis, op, err)
	}
	g.log.WithFields(logrus.Fields{"operation": op, "elapsed": elapsed}).Debug("generation finished")
	return text, nil
}

func (g *Gateway) fail(op string, err error) error {
	g.metrics.AIRequest(op, metrics.OutcomeFailure, 0)
	g.log.WithError(err).WithField("operation", op).Warn("analysis failed")
	return fmt.Errorf("%w: %s: %v", types.ErrAIAnalysis, op, err)
}

func (g *Gateway) succeed(op, entityType, message string) {
	g.metrics.AIRequest(op, metrics.OutcomeSuccess, 0)
	if g.audit != nil {
		_, _ = g.audit.RecordEvent(types.EventAITaskCompleted, entityType, types.UserID, message, types.AuditSuccess)
	}
}

// resultArray returns the array under key. A missing key yields an empty
// result; any other shape is a schema violation.
func resultArray(text, key string) ([]gjson.Result, error) {
	if strings.TrimSpace(text) == "" {
		text = "{}"
	}
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("response is not JSON")
	}
	root := gjson.Parse(text)
	if !root.IsObject() {
		return nil, fmt.Errorf("response is not an object")
	}
	arr := root.Get(key)
	if !arr.Exists() {
		return nil, nil
	}
	if !arr.IsArray() {
		return nil, fmt.Errorf("%s is not an array", key)
	}
	return arr.Array(), nil
}

func stringField(item gjson.Result, name string) (string, error) {
	v := item.Get(name)
	if v.Type != gjson.String {
		return "", fmt.Errorf("field %s: expected string", name)
	}
	return v.String(), nil
}

func numberField(item gjson.Result, name string) (float64, error) {
	v := item.Get(name)
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("field %s: expected number", name)
	}
	return v.Float(), nil
}

func parseSuggestions(text string) ([]types.AISuggestion, error) {
	items, err := resultArray(text, suggestionsKey)
	if err != nil {
		return nil, err
	}
	out := make([]types.AISuggestion, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("suggestion %d is not an object", i)
		}
		var s types.AISuggestion
		fields := []struct {
			name string
			dst  *string
		}{
			{"originalText", &s.OriginalText},
			{"improvedText", &s.ImprovedText},
			{"rationale", &s.Rationale},
			{"category", &s.Category},
		}
		for _, f := range fields {
			if *f.dst, err = stringField(item, f.name); err != nil {
				return nil, fmt.Errorf("suggestion %d: %w", i, err)
			}
		}
		severity, err := stringField(item, "severity")
		if err != nil {
			return nil, fmt.Errorf("suggestion %d: %w", i, err)
		}
		s.Severity = types.Severity(severity)
		if !s.Severity.Valid() {
			return nil, fmt.Errorf("suggestion %d: unknown severity %q", i, severity)
		}
		s.ID = types.NewID()
		out = append(out, s)
	}
	return out, nil
}

func parseSkillGaps(text string, assessedAt time.Time) ([]types.SkillAssessmentResult, error) {
	items, err := resultArray(text, skillGapsKey)
	if err != nil {
		return nil, err
	}
	out := make([]types.SkillAssessmentResult, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("skill gap %d is not an object", i)
		}
		r := types.SkillAssessmentResult{
			Recommendations: []types.LearningResource{},
			LastAssessed:    assessedAt,
		}
		if r.Skill, err = stringField(item, "skill"); err != nil {
			return nil, fmt.Errorf("skill gap %d: %w", i, err)
		}
		category, err := stringField(item, "category")
		if err != nil {
			return nil, fmt.Errorf("skill gap %d: %w", i, err)
		}
		r.Category = types.SkillCategory(category)
		levels := []struct {
			name string
			dst  *float64
		}{
			{"currentLevel", &r.CurrentLevel},
			{"targetLevel", &r.TargetLevel},
			{"gap", &r.Gap},
		}
		for _, l := range levels {
			if *l.dst, err = numberField(item, l.name); err != nil {
				return nil, fmt.Errorf("skill gap %d: %w", i, err)
			}
		}
		out = append(out, r)
	}
	return out, nil
}
