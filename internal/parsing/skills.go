package parsing

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-intake/internal/types"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"mongo":      "MongoDB",
	"mongodb":    "MongoDB",
	"c sharp":    "C#",
	"csharp":     "C#",
	"aws":        "AWS",
	"gcp":        "GCP",
	"sql":        "SQL",
	"ml":         "Machine Learning",
}

// NormalizeSkillName returns the canonical form of a skill name, or "" for blank input.
// Unknown all-caps names are treated as acronyms and kept; unknown lowercase single
// words get a leading capital.
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	if normalized == lower && !strings.Contains(normalized, " ") {
		r := []rune(normalized)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	}
	return normalized
}

// NormalizeSkillBuckets canonicalises skill names, drops blanks and removes duplicates
// within each bucket. Buckets are kept even when they end up empty so that validation
// can report them.
func NormalizeSkillBuckets(buckets []types.SkillBucket) []types.SkillBucket {
	out := make([]types.SkillBucket, 0, len(buckets))
	for _, b := range buckets {
		seen := make(map[string]bool, len(b.Skills))
		skills := make([]string, 0, len(b.Skills))
		for _, s := range b.Skills {
			name := NormalizeSkillName(s)
			key := strings.ToLower(name)
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			skills = append(skills, name)
		}
		out = append(out, types.SkillBucket{
			Category: strings.TrimSpace(b.Category),
			Skills:   skills,
		})
	}
	return out
}
