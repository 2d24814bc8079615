// Package prompts holds the résumé extraction prompt templates, embedded at build time.
// Each file is a JSON object mapping a prompt key to template text with {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

var (
	mu     sync.RWMutex
	loaded = make(map[string]map[string]string)
)

// Get returns the template stored under key in file (e.g. "resume.json").
func Get(file, key string) (string, error) {
	templates, err := load(file)
	if err != nil {
		return "", err
	}
	tmpl, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, file)
	}
	return tmpl, nil
}

// Require reports every key missing from file in a single error.
func Require(file string, keys ...string) error {
	templates, err := load(file)
	if err != nil {
		return err
	}
	var missing []string
	for _, k := range keys {
		if _, ok := templates[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("prompt keys missing from %s: %s", file, strings.Join(missing, ", "))
	}
	return nil
}

// Placeholders lists the distinct placeholder names in tmpl in order of first use.
func Placeholders(tmpl string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Format substitutes {{.Name}} placeholders from data in a single pass, so placeholder-like
// text inside a value (résumé text can contain anything) is never expanded. Placeholders
// without a value are left as they are.
func Format(tmpl string, data map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := data[placeholderRe.FindStringSubmatch(m)[1]]; ok {
			return v
		}
		return m
	})
}

// Render fills the template under key. Every placeholder the template uses must have a
// value; extra values are ignored, so one data map can serve templates that need less.
func Render(file, key string, data map[string]string) (string, error) {
	tmpl, err := Get(file, key)
	if err != nil {
		return "", err
	}
	var unfilled []string
	for _, name := range Placeholders(tmpl) {
		if _, ok := data[name]; !ok {
			unfilled = append(unfilled, name)
		}
	}
	if len(unfilled) > 0 {
		return "", fmt.Errorf("prompt %q in %s has no value for %s", key, file, strings.Join(unfilled, ", "))
	}
	return Format(tmpl, data), nil
}

func load(file string) (map[string]string, error) {
	mu.RLock()
	templates, ok := loaded[file]
	mu.RUnlock()
	if ok {
		return templates, nil
	}

	data, err := files.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", file, err)
	}
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", file, err)
	}

	mu.Lock()
	loaded[file] = templates
	mu.Unlock()
	return templates, nil
}

func resetCache() {
	mu.Lock()
	loaded = make(map[string]map[string]string)
	mu.Unlock()
}
