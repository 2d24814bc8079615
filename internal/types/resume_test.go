package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredResume_EnsureDefaults(t *testing.T) {
	r := &StructuredResume{
		FullName:       "Jane Doe",
		WorkExperience: []WorkItem{{Company: "Acme"}},
		Projects:       []Project{{Name: "cli"}},
		Skills:         []SkillBucket{{Category: "Languages"}},
	}

	r.EnsureDefaults()

	assert.NotNil(t, r.Education)
	assert.NotNil(t, r.Certifications)
	assert.NotNil(t, r.Languages)
	assert.NotNil(t, r.WorkExperience[0].Highlights)
	assert.NotNil(t, r.Projects[0].Technologies)
	assert.NotNil(t, r.Skills[0].Skills)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"education":[]`)
	assert.Contains(t, string(data), `"languages":[]`)
}

func TestStructuredResume_JSONRoundTrip(t *testing.T) {
	input := `{
		"full_name": "Jane Doe",
		"contact": {"email": "jane@doe.io", "linkedin": "https://linkedin.com/in/jane"},
		"summary": "Backend engineer",
		"education": [{"institution": "MIT", "degree": "BSc", "start_date": "2012", "end_date": "2016-06-01"}],
		"work_experience": [{"company": "Acme", "title": "SRE", "start_date": "Jan 2017", "end_date": null, "highlights": ["on-call lead"]}],
		"projects": [],
		"certifications": [{"name": "CKA", "issue_date": "2021"}],
		"skills": [{"category": "Languages", "skills": ["Go", "Python"]}],
		"languages": ["English"]
	}`

	var r StructuredResume
	require.NoError(t, json.Unmarshal([]byte(input), &r))

	assert.Equal(t, "Jane Doe", r.FullName)
	assert.Equal(t, "jane@doe.io", r.Contact.Email)
	assert.Equal(t, NewDate("2012"), r.Education[0].StartDate)
	assert.False(t, r.WorkExperience[0].EndDate.Present())
	assert.Equal(t, NewDate("2021"), r.Certifications[0].IssueDate)
	assert.Equal(t, 2, r.SkillCount())
}

func TestStructuredResume_Clone(t *testing.T) {
	assert.Nil(t, (*StructuredResume)(nil).Clone())

	orig := &StructuredResume{
		FullName:       "Jane Doe",
		WorkExperience: []WorkItem{{Company: "Acme", Highlights: []string{"shipped"}}},
		Skills:         []SkillBucket{{Category: "Languages", Skills: []string{"Go"}}},
	}
	c := orig.Clone()
	require.Equal(t, orig, c)

	c.Contact.Email = "x@y.io"
	c.WorkExperience[0].StartDate = NewDate("2020")
	c.WorkExperience[0].Highlights[0] = "changed"
	c.Skills[0].Skills[0] = "Rust"

	assert.Empty(t, orig.Contact.Email)
	assert.False(t, orig.WorkExperience[0].StartDate.Present())
	assert.Equal(t, "shipped", orig.WorkExperience[0].Highlights[0])
	assert.Equal(t, "Go", orig.Skills[0].Skills[0])
}
