package types

import "time"

// Severity grades a resume suggestion.
type Severity string

// Severities.
const (
	SeverityMinor    Severity = "Minor"
	SeverityModerate Severity = "Moderate"
	SeverityMajor    Severity = "Major"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s == SeverityMinor || s == SeverityModerate || s == SeverityMajor
}

// SkillCategory groups skills. Analysis results may carry categories outside
// this list; they are kept verbatim.
type SkillCategory string

// Skill categories.
const (
	SkillTechnical         SkillCategory = "Technical"
	SkillSoft              SkillCategory = "Soft Skills"
	SkillManagement        SkillCategory = "Management"
	SkillDomainSpecific    SkillCategory = "Domain Specific"
	SkillTools             SkillCategory = "Tools & Technologies"
	SkillLeadership        SkillCategory = "Leadership"
	SkillCommunication     SkillCategory = "Communication"
	SkillProjectManagement SkillCategory = "Project Management"
	SkillSales             SkillCategory = "Sales"
	SkillMarketing         SkillCategory = "Marketing"
	SkillDataScience       SkillCategory = "Data Science"
	SkillCybersecurity     SkillCategory = "Cybersecurity"
	SkillCloudComputing    SkillCategory = "Cloud Computing"
)

// RecommendationType classifies a learning resource.
type RecommendationType string

// Recommendation types.
const (
	RecommendCourse          RecommendationType = "Course"
	RecommendCertification   RecommendationType = "Certification"
	RecommendBook            RecommendationType = "Book"
	RecommendNetworkingEvent RecommendationType = "Networking Event"
	RecommendProject         RecommendationType = "Project Idea"
	RecommendMentor          RecommendationType = "Mentor Connection"
	RecommendArticle         RecommendationType = "Article"
	RecommendPodcast         RecommendationType = "Podcast"
	RecommendWorkshop        RecommendationType = "Workshop"
	RecommendConference      RecommendationType = "Conference"
)

// AISuggestion is one resume improvement returned by the AI gateway.
type AISuggestion struct {
	ID           string   `json:"id"`
	OriginalText string   `json:"originalText"`
	ImprovedText string   `json:"improvedText"`
	Rationale    string   `json:"rationale"`
	Category     string   `json:"category"`
	Severity     Severity `json:"severity"`
}

// SkillAssessmentResult is one skill gap returned by the AI gateway.
type SkillAssessmentResult struct {
	Skill           string             `json:"skill"`
	Category        SkillCategory      `json:"category"`
	CurrentLevel    float64            `json:"currentLevel"`
	TargetLevel     float64            `json:"targetLevel"`
	Gap             float64            `json:"gap"`
	Recommendations []LearningResource `json:"recommendations"`
	LastAssessed    time.Time          `json:"lastAssessed"`
}

// LearningResource is a recommendation attached to a skill gap.
type LearningResource struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Type          RecommendationType `json:"type"`
	Link          string             `json:"link"`
	EstimatedTime string             `json:"estimatedTime"`
	Cost          string             `json:"cost"`
	Provider      string             `json:"provider"`
	Difficulty    string             `json:"difficulty"`
}
