package ai

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// Schema types understood by the generateContent structured output mode.
const (
	TypeObject = "OBJECT"
	TypeArray  = "ARRAY"
	TypeString = "STRING"
	TypeNumber = "NUMBER"
)

// Schema is an OpenAPI-style response schema.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// Top-level result keys.
const (
	suggestionsKey = "suggestions"
	skillGapsKey   = "skillGaps"
)

func stringSchema() *Schema { return &Schema{Type: TypeString} }
func numberSchema() *Schema { return &Schema{Type: TypeNumber} }

// resumeSchema requires {suggestions: [{originalText, improvedText,
// rationale, category, severity}]}.
var resumeSchema = Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		suggestionsKey: {
			Type: TypeArray,
			Items: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"originalText": stringSchema(),
					"improvedText": stringSchema(),
					"rationale":    stringSchema(),
					"category":     stringSchema(),
					"severity": {
						Type: TypeString,
						Enum: []string{string(types.SeverityMinor), string(types.SeverityModerate), string(types.SeverityMajor)},
					},
				},
				Required: []string{"originalText", "improvedText", "rationale", "category", "severity"},
			},
		},
	},
	Required: []string{suggestionsKey},
}

// skillGapSchema requires {skillGaps: [{skill, category, currentLevel,
// targetLevel, gap}]}.
var skillGapSchema = Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		skillGapsKey: {
			Type: TypeArray,
			Items: &Schema{
				Type: TypeObject,
				Properties: map[string]*Schema{
					"skill":        stringSchema(),
					"category":     stringSchema(),
					"currentLevel": numberSchema(),
					"targetLevel":  numberSchema(),
					"gap":          numberSchema(),
				},
				Required: []string{"skill", "category", "currentLevel", "targetLevel", "gap"},
			},
		},
	},
	Required: []string{skillGapsKey},
}

func resumePrompt(resume, jobDescription string) string {
	return fmt.Sprintf(`Analyze this resume against the job description. Suggest 5 improvements.
Resume: %s
Job Description: %s`, resume, jobDescription)
}

func skillGapPrompt(profile types.UserProfile, target string) string {
	return fmt.Sprintf(`Perform a skill gap analysis for this user profile aiming for: %s.
Profile Skills: %s
Experience: %d years as %s`, target, strings.Join(profile.Skills, ", "), profile.YearsExperience, profile.CurrentRole)
}
