package types

import "time"

// CareerStage is the seniority band of a profile.
type CareerStage string

// Career stages.
const (
	StageEntryLevel CareerStage = "Entry-Level"
	StageJunior     CareerStage = "Junior"
	StageMidLevel   CareerStage = "Mid-Level"
	StageSenior     CareerStage = "Senior"
	StageLead       CareerStage = "Lead"
	StageManager    CareerStage = "Manager"
	StageDirector   CareerStage = "Director"
	StageExecutive  CareerStage = "Executive"
)

// IdentityVerificationLevel is a display-only trust badge.
type IdentityVerificationLevel string

// Identity verification levels.
const (
	IdentityNone       IdentityVerificationLevel = "None"
	IdentityBasic      IdentityVerificationLevel = "Basic"
	IdentityVerified   IdentityVerificationLevel = "Verified"
	IdentityEnterprise IdentityVerificationLevel = "Enterprise"
)

// UserProfile is the single profile record, stored under EntityProfile.
// PublicKey, WalletAddress, Signature and Nonce are decorative.
type UserProfile struct {
	ID                        string                    `json:"id"`
	Name                      string                    `json:"name"`
	Email                     string                    `json:"email"`
	CurrentRole               string                    `json:"currentRole"`
	Industry                  string                    `json:"industry"`
	YearsExperience           int                       `json:"yearsExperience"`
	CareerStage               CareerStage               `json:"careerStage"`
	Skills                    []string                  `json:"skills"`
	Education                 []string                  `json:"education"`
	Certifications            []string                  `json:"certifications"`
	DesiredRoles              []string                  `json:"desiredRoles"`
	DesiredIndustry           string                    `json:"desiredIndustry"`
	SalaryExpectationMin      int                       `json:"salaryExpectationMin"`
	SalaryExpectationMax      int                       `json:"salaryExpectationMax"`
	LastUpdated               time.Time                 `json:"lastUpdated"`
	ResumeText                string                    `json:"resumeText"`
	LinkedInProfileURL        string                    `json:"linkedInProfileUrl,omitempty"`
	Achievements              []string                  `json:"achievements"`
	CareerVision              string                    `json:"careerVision"`
	PreferredLearningStyles   []string                  `json:"preferredLearningStyles"`
	AIModelPreference         string                    `json:"aiModelPreference,omitempty"`
	PublicKey                 string                    `json:"publicKey"`
	IdentityVerificationLevel IdentityVerificationLevel `json:"identityVerificationLevel"`
	WalletAddress             string                    `json:"walletAddress"`
	Signature                 string                    `json:"signature,omitempty"`
	Nonce                     string                    `json:"nonce,omitempty"`
}

// RecordID implements Record.
func (p UserProfile) RecordID() string { return p.ID }
