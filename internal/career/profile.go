package career

import (
	"time"

	"github.com/mesh-intelligence/blueprint/pkg/types"
)

// DefaultProfile is the starter profile created on first load.
func DefaultProfile(now time.Time) types.UserProfile {
	return types.UserProfile{
		ID:                        types.DefaultProfileID,
		Name:                      "Jane Doe",
		Email:                     "jane.doe@example.com",
		CurrentRole:               "Software Engineer",
		Industry:                  "Tech",
		YearsExperience:           5,
		CareerStage:               types.StageSenior,
		Skills:                    []string{"React", "TypeScript", "Node.js", "PostgreSQL"},
		Education:                 []string{"B.S. Computer Science"},
		Certifications:            []string{"AWS Cloud Practitioner"},
		DesiredRoles:              []string{"Staff Engineer", "Architecture Lead"},
		DesiredIndustry:           "Cloud Infrastructure",
		SalaryExpectationMin:      150000,
		SalaryExpectationMax:      200000,
		LastUpdated:               now,
		ResumeText:                "Senior Software Engineer with 5 years experience in full-stack development...",
		PublicKey:                 "PUB_KEY_12345",
		IdentityVerificationLevel: types.IdentityVerified,
		WalletAddress:             "0xABC...DEF",
		Achievements:              []string{"Delivered core API architecture for v2 launch"},
		CareerVision:              "To lead scalable infrastructure projects globally.",
		PreferredLearningStyles:   []string{"Hands-on", "Visual"},
	}
}
