// Package types provides type definitions for structured data used throughout the résumé intake pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "slices"

// StructuredResume is the validated record extracted from a résumé. Collections are never
// nil once EnsureDefaults has run.
type StructuredResume struct {
	FullName       string          `json:"full_name" validate:"required"`
	Contact        Contact         `json:"contact"`
	Summary        string          `json:"summary"`
	Education      []EducationItem `json:"education" validate:"dive"`
	WorkExperience []WorkItem      `json:"work_experience" validate:"dive"`
	Projects       []Project       `json:"projects" validate:"dive"`
	Certifications []Certification `json:"certifications" validate:"dive"`
	Skills         []SkillBucket   `json:"skills" validate:"dive"`
	Languages      []string        `json:"languages"`
	// DetectedLanguage is derived from the raw text during enrichment, never by the model.
	DetectedLanguage string `json:"detected_language,omitempty"`
}

// Contact holds optional contact details
type Contact struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Location string `json:"location,omitempty"`
}

// EducationItem is one degree or course of study
type EducationItem struct {
	Institution  string `json:"institution" validate:"required"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	Location     string `json:"location,omitempty"`
	StartDate    Date   `json:"start_date"`
	EndDate      Date   `json:"end_date"`
}

// WorkItem is one position held
type WorkItem struct {
	Company     string   `json:"company" validate:"required"`
	Title       string   `json:"title,omitempty"`
	Location    string   `json:"location,omitempty"`
	StartDate   Date     `json:"start_date"`
	EndDate     Date     `json:"end_date"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights"`
}

// Project is a personal or professional project
type Project struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
}

// Certification is a professional certificate
type Certification struct {
	Name       string `json:"name" validate:"required"`
	Issuer     string `json:"issuer,omitempty"`
	IssueDate  Date   `json:"issue_date"`
	ExpiryDate Date   `json:"expiry_date"`
}

// SkillBucket groups skill names under a category
type SkillBucket struct {
	Category string   `json:"category" validate:"required"`
	Skills   []string `json:"skills" validate:"min=1,dive,required"`
}

// EnsureDefaults replaces every nil collection, including nested ones, with an empty slice.
func (r *StructuredResume) EnsureDefaults() {
	r.Education = orEmpty(r.Education)
	r.WorkExperience = orEmpty(r.WorkExperience)
	r.Projects = orEmpty(r.Projects)
	r.Certifications = orEmpty(r.Certifications)
	r.Skills = orEmpty(r.Skills)
	r.Languages = orEmpty(r.Languages)

	for i := range r.WorkExperience {
		r.WorkExperience[i].Highlights = orEmpty(r.WorkExperience[i].Highlights)
	}
	for i := range r.Projects {
		r.Projects[i].Technologies = orEmpty(r.Projects[i].Technologies)
	}
	for i := range r.Skills {
		r.Skills[i].Skills = orEmpty(r.Skills[i].Skills)
	}
}

// SkillCount returns the number of skill names across all buckets.
func (r *StructuredResume) SkillCount() int {
	n := 0
	for _, b := range r.Skills {
		n += len(b.Skills)
	}
	return n
}

// Clone returns a deep copy of r, or nil when r is nil.
func (r *StructuredResume) Clone() *StructuredResume {
	if r == nil {
		return nil
	}
	c := *r
	c.Education = slices.Clone(r.Education)
	c.WorkExperience = slices.Clone(r.WorkExperience)
	c.Projects = slices.Clone(r.Projects)
	c.Certifications = slices.Clone(r.Certifications)
	c.Skills = slices.Clone(r.Skills)
	c.Languages = slices.Clone(r.Languages)
	for i := range c.WorkExperience {
		c.WorkExperience[i].Highlights = slices.Clone(c.WorkExperience[i].Highlights)
	}
	for i := range c.Projects {
		c.Projects[i].Technologies = slices.Clone(c.Projects[i].Technologies)
	}
	for i := range c.Skills {
		c.Skills[i].Skills = slices.Clone(c.Skills[i].Skills)
	}
	return &c
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
