package career

import "github.com/mesh-intelligence/blueprint/pkg/types"

// Stats is the dashboard summary.
type Stats struct {
	GoalsTotal     int     `json:"goalsTotal"`
	GoalsCompleted int     `json:"goalsCompleted"`
	AppsPending    int     `json:"appsPending"`
	Balance        float64 `json:"balance"`
}

// Stats counts goals and pending applications and reads the CareerCoin
// balance.
func (w *Workspace) Stats() (Stats, error) {
	var s Stats

	goals, err := w.goals.GetAll()
	if err != nil {
		return s, err
	}
	s.GoalsTotal = len(goals)
	for _, g := range goals {
		if g.Status == types.GoalCompleted {
			s.GoalsCompleted++
		}
	}

	apps, err := w.apps.GetAll()
	if err != nil {
		return s, err
	}
	for _, a := range apps {
		if a.Status.Pending() {
			s.AppsPending++
		}
	}

	if w.ledger != nil {
		if s.Balance, err = w.ledger.GetBalance(types.TokenCareerCoin); err != nil {
			return s, err
		}
	}
	return s, nil
}

// RadarPoint is one axis of the skill radar chart. Levels are on a 0..100
// scale.
type RadarPoint struct {
	Subject  string  `json:"subject"`
	Current  float64 `json:"current"`
	Target   float64 `json:"target"`
	FullMark float64 `json:"fullMark"`
}

// radarScale maps the 1..5 skill level onto 0..100.
const radarScale = 20

// RadarPoints converts assessment results into chart points.
func RadarPoints(results []types.SkillAssessmentResult) []RadarPoint {
	points := make([]RadarPoint, 0, len(results))
	for _, r := range results {
		points = append(points, RadarPoint{
			Subject:  r.Skill,
			Current:  r.CurrentLevel * radarScale,
			Target:   r.TargetLevel * radarScale,
			FullMark: 100,
		})
	}
	return points
}
