package domain

// SkillCategory groups technical skills.
type SkillCategory string

const (
	SkillCategoryFrontend SkillCategory = "frontend"
	SkillCategoryBackend  SkillCategory = "backend"
	SkillCategoryML       SkillCategory = "ml"
	SkillCategoryDesign   SkillCategory = "design"
	SkillCategoryDevOps   SkillCategory = "devops"
	SkillCategoryOther    SkillCategory = "other"
)

// Proficiency is the self-reported level of a skill.
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

// Skill is a named technical skill on a profile.
type Skill struct {
	Name        string        `json:"name"`
	Category    SkillCategory `json:"category,omitempty"`
	Proficiency Proficiency   `json:"proficiency,omitempty"`
}

// Experience is a work, internship, hackathon or project entry.
type Experience struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Type         string   `json:"type"`
}

type Education struct {
	ID                 string   `json:"id"`
	Institution        string   `json:"institution"`
	Degree             string   `json:"degree"`
	Major              string   `json:"major"`
	StartDate          string   `json:"startDate"`
	EndDate            string   `json:"endDate"`
	GPA                string   `json:"gpa,omitempty"`
	RelevantCoursework []string `json:"relevantCoursework"`
}

type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Role         string   `json:"role"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	DemoLink     string   `json:"demoLink,omitempty"`
	RepoLink     string   `json:"repoLink,omitempty"`
}

// ProfileLinks lists external profile links.
type ProfileLinks struct {
	GitHub    string   `json:"github,omitempty"`
	LinkedIn  string   `json:"linkedin,omitempty"`
	Portfolio string   `json:"portfolio,omitempty"`
	Devpost   string   `json:"devpost,omitempty"`
	Twitter   string   `json:"twitter,omitempty"`
	Other     []string `json:"other,omitempty"`
}

// UserProfile is the profile document keyed by user id. Empty fields are
// omitted so that a merge write only touches the fields provided.
type UserProfile struct {
	ID              string        `json:"id,omitempty"`
	Name            string        `json:"name,omitempty"`
	Title           string        `json:"title,omitempty"`
	Bio             string        `json:"bio,omitempty"`
	Location        string        `json:"location,omitempty"`
	Timezone        string        `json:"timezone,omitempty"`
	Email           string        `json:"email,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	ProfilePicture  string        `json:"profilePicture,omitempty"`
	TechnicalSkills []Skill       `json:"technicalSkills,omitempty"`
	SoftSkills      []string      `json:"softSkills,omitempty"`
	Languages       []string      `json:"languages,omitempty"`
	Tools           []string      `json:"tools,omitempty"`
	Experiences     []Experience  `json:"experiences,omitempty"`
	Education       []Education   `json:"education,omitempty"`
	Projects        []Project     `json:"projects,omitempty"`
	Links           *ProfileLinks `json:"links,omitempty"`
}

// SkillNames returns the names of the technical skills in order.
func (p *UserProfile) SkillNames() []string {
	names := make([]string, 0, len(p.TechnicalSkills))
	for _, s := range p.TechnicalSkills {
		names = append(names, s.Name)
	}
	return names
}

// HasSkill reports whether the profile lists a technical skill with exactly this name.
func (p *UserProfile) HasSkill(name string) bool {
	for _, s := range p.TechnicalSkills {
		if s.Name == name {
			return true
		}
	}
	return false
}

// TeamMember builds the member snapshot used when the user joins a team.
func (p *UserProfile) TeamMember(userID string, role TeamRole) TeamMember {
	return TeamMember{
		ID:     userID,
		Name:   p.Name,
		Avatar: p.ProfilePicture,
		Role:   role,
		Skills: p.SkillNames(),
	}
}
