package parsing

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"
)

// resumeKeys are the top-level keys the model may set. detected_language is derived
// later and never taken from the model.
var resumeKeys = map[string]bool{
	"full_name":       true,
	"contact":         true,
	"summary":         true,
	"education":       true,
	"work_experience": true,
	"projects":        true,
	"certifications":  true,
	"skills":          true,
	"languages":       true,
}

var contactKeys = map[string]bool{
	"email":    true,
	"phone":    true,
	"linkedin": true,
	"github":   true,
	"website":  true,
	"location": true,
}

// keyAliases maps names models commonly use instead of the schema's.
var keyAliases = map[string]string{
	"name":             "full_name",
	"fullname":         "full_name",
	"experience":       "work_experience",
	"work":             "work_experience",
	"employment":       "work_experience",
	"work_history":     "work_experience",
	"certificates":     "certifications",
	"profile":          "summary",
	"objective":        "summary",
	"contact_info":     "contact",
	"contacts":         "contact",
	"phone_number":     "phone",
	"email_address":    "email",
	"linkedin_url":     "linkedin",
	"github_url":       "github",
	"portfolio":        "website",
	"address":          "location",
	"spoken_languages": "languages",
}

// defaultSkillCategory holds skills returned as a flat list of names.
const defaultSkillCategory = "General"

// SanitizeResumeJSON reshapes a model response toward the résumé schema before validation:
// known aliases are renamed, contact fields given at the top level move under "contact",
// nulls and unknown top-level keys are dropped, and a flat list of skill names becomes a
// single skill bucket. Values are never invented. Invalid JSON yields a *ParseError.
func SanitizeResumeJSON(raw string) (string, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return "", &ParseError{Message: "response is not a JSON object", Cause: err}
	}

	out := make(map[string]any, len(doc))
	contact := make(map[string]any)

	// Canonical names are applied before aliases so an exact key always wins.
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		ca, cb := isCanonical(a), isCanonical(b)
		switch {
		case ca && !cb:
			return -1
		case cb && !ca:
			return 1
		}
		return cmp.Compare(a, b)
	})

	for _, k := range keys {
		v := dropNulls(doc[k])
		if v == nil {
			continue
		}
		key := canonicalKey(k)

		switch {
		case key == "contact":
			if obj, ok := v.(map[string]any); ok {
				for ck, cv := range obj {
					ck = canonicalKey(ck)
					if contactKeys[ck] {
						setIfAbsent(contact, ck, cv)
					}
				}
			}
		case contactKeys[key]:
			setIfAbsent(contact, key, v)
		case resumeKeys[key]:
			setIfAbsent(out, key, v)
		}
	}

	if len(contact) > 0 {
		out["contact"] = contact
	}
	if skills, ok := out["skills"].([]any); ok {
		out["skills"] = bucketFlatSkills(skills)
	}

	cleaned, err := json.Marshal(out)
	if err != nil {
		return "", &ParseError{Message: "failed to re-encode response", Cause: err}
	}
	return string(cleaned), nil
}

func isCanonical(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	return resumeKeys[k] || contactKeys[k]
}

func canonicalKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.ReplaceAll(k, " ", "_")
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	return k
}

func setIfAbsent(m map[string]any, key string, v any) {
	if _, exists := m[key]; !exists {
		m[key] = v
	}
}

// dropNulls removes null object members and null array elements recursively.
func dropNulls(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			if cleaned := dropNulls(child); cleaned == nil {
				delete(val, k)
			} else {
				val[k] = cleaned
			}
		}
		return val
	case []any:
		out := make([]any, 0, len(val))
		for _, child := range val {
			if cleaned := dropNulls(child); cleaned != nil {
				out = append(out, cleaned)
			}
		}
		return out
	default:
		return v
	}
}

// bucketFlatSkills gathers bare skill-name strings into one bucket, keeping real buckets.
func bucketFlatSkills(skills []any) []any {
	var flat []any
	out := make([]any, 0, len(skills))
	for _, s := range skills {
		if name, ok := s.(string); ok {
			flat = append(flat, name)
			continue
		}
		out = append(out, s)
	}
	if len(flat) > 0 {
		out = append(out, map[string]any{"category": defaultSkillCategory, "skills": flat})
	}
	return out
}
