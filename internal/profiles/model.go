package profiles

import (
	"strings"
	"time"
)

// Profile is a user's master career profile. Exactly one exists per user.
type Profile struct {
	UserID               string           `json:"userId"`
	PersonalInfo         PersonalInfo     `json:"personalInfo"`
	ProfessionalHeadline string           `json:"professionalHeadline"`
	Summary              string           `json:"summary"`
	WorkExperience       []WorkExperience `json:"workExperience" validate:"dive"`
	Education            []Education      `json:"education" validate:"dive"`
	Skills               []Skill          `json:"skills" validate:"dive"`
	Certifications       []Certification  `json:"certifications" validate:"dive"`
	Projects             []Project        `json:"projects" validate:"dive"`
	Volunteering         []Volunteering   `json:"volunteering" validate:"dive"`
	Languages            []Language       `json:"languages" validate:"dive"`
	Publications         []Publication    `json:"publications" validate:"dive"`
	JobPreferences       *JobPreferences  `json:"jobPreferences,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}

type PersonalInfo struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email" validate:"omitempty,email"`
	Phone        string   `json:"phone"`
	Location     Location `json:"location"`
	LinkedInURL  string   `json:"linkedinUrl" validate:"omitempty,url"`
	PortfolioURL string   `json:"portfolioUrl" validate:"omitempty,url"`
}

// FullName joins first and last name.
func (p PersonalInfo) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// String renders "City, Country", omitting empty parts.
func (l Location) String() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{l.City, l.Country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

type WorkExperience struct {
	JobTitle         string   `json:"jobTitle" validate:"required"`
	CompanyName      string   `json:"companyName" validate:"required"`
	EmploymentType   string   `json:"employmentType"`
	Location         string   `json:"location"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	CurrentlyWorking bool     `json:"currentlyWorking"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
	Technologies     []string `json:"technologies"`
}

// EndLabel is the display end date; endDate is ignored while currently working.
func (w WorkExperience) EndLabel() string {
	if w.CurrentlyWorking || strings.TrimSpace(w.EndDate) == "" {
		return "Present"
	}
	return w.EndDate
}

type Education struct {
	Institution  string `json:"institution" validate:"required"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartYear    string `json:"startYear"`
	EndYear      string `json:"endYear"`
	Grade        string `json:"grade"`
	Description  string `json:"description"`
}

type Skill struct {
	Name     string `json:"name" validate:"required"`
	Level    string `json:"level"`
	Category string `json:"category"`
}

type Certification struct {
	Name                string `json:"name" validate:"required"`
	IssuingOrganization string `json:"issuingOrganization"`
	IssueDate           string `json:"issueDate"`
	ExpirationDate      string `json:"expirationDate"`
	CredentialID        string `json:"credentialId"`
	CredentialURL       string `json:"credentialUrl" validate:"omitempty,url"`
}

type Project struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	Role         string   `json:"role"`
	Technologies []string `json:"technologies"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	URL          string   `json:"url" validate:"omitempty,url"`
	Highlights   []string `json:"highlights"`
}

type Volunteering struct {
	Organization string `json:"organization" validate:"required"`
	Role         string `json:"role"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Description  string `json:"description"`
}

type Language struct {
	Name        string `json:"name" validate:"required"`
	Proficiency string `json:"proficiency"`
}

type Publication struct {
	Title     string `json:"title" validate:"required"`
	Publisher string `json:"publisher"`
	Date      string `json:"date"`
	URL       string `json:"url" validate:"omitempty,url"`
}

type JobPreferences struct {
	DesiredRoles      []string           `json:"desiredRoles"`
	DesiredLocations  []string           `json:"desiredLocations"`
	EmploymentTypes   []string           `json:"employmentTypes"`
	RemotePreference  string             `json:"remotePreference"`
	SalaryExpectation *SalaryExpectation `json:"salaryExpectation,omitempty"`
	WillingToRelocate bool               `json:"willingToRelocate"`
	AvailabilityDate  string             `json:"availabilityDate"`
}

type SalaryExpectation struct {
	Min      int    `json:"min" validate:"gte=0"`
	Max      int    `json:"max" validate:"omitempty,gtefield=Min"`
	Currency string `json:"currency"`
	Period   string `json:"period" validate:"omitempty,oneof=hourly monthly yearly"`
}

// NewDefault returns an empty profile with non-nil collections.
func NewDefault(userID, email, name string, now time.Time) Profile {
	first, last, _ := strings.Cut(strings.TrimSpace(name), " ")
	return Profile{
		UserID: userID,
		PersonalInfo: PersonalInfo{
			FirstName: first,
			LastName:  strings.TrimSpace(last),
			Email:     email,
		},
		WorkExperience: []WorkExperience{},
		Education:      []Education{},
		Skills:         []Skill{},
		Certifications: []Certification{},
		Projects:       []Project{},
		Volunteering:   []Volunteering{},
		Languages:      []Language{},
		Publications:   []Publication{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Normalize replaces nil collections with empty ones and fills salary defaults.
func (p *Profile) Normalize() {
	if p.WorkExperience == nil {
		p.WorkExperience = []WorkExperience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Skills == nil {
		p.Skills = []Skill{}
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	if p.Volunteering == nil {
		p.Volunteering = []Volunteering{}
	}
	if p.Languages == nil {
		p.Languages = []Language{}
	}
	if p.Publications == nil {
		p.Publications = []Publication{}
	}
	if p.JobPreferences != nil && p.JobPreferences.SalaryExpectation != nil {
		s := p.JobPreferences.SalaryExpectation
		if s.Currency == "" {
			s.Currency = "USD"
		}
		if s.Period == "" {
			s.Period = "yearly"
		}
	}
}
