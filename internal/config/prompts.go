package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Prompts holds the instruction blocks embedded in gateway prompts. Defaults
// are compiled in; individual blocks can be overridden by YAML files under
// configs/prompts so prompt tuning does not require a rebuild.
type Prompts struct {
	// ExtractionRules is the preamble of the resume-extraction prompt.
	ExtractionRules string `yaml:"extraction_rules"`
	// AutofillRules is the instruction list of the field-resolution prompt.
	AutofillRules string `yaml:"autofill_rules"`
}

const defaultExtractionRules = `You are a resume parser. Extract information and return ONLY valid JSON.

CRITICAL RULES:
1. Return ONLY the JSON object, no markdown, no code blocks, no explanation
2. ALL string fields must be strings (use "" for empty, not arrays)
3. Use null for missing data`

const defaultAutofillRules = `Instructions:
1. Use only information from the resume that matches the field intent.
2. Do NOT repeat technical skills unless Field Intent = skill_list.
3. If no relevant data exists, respond with the exact string EMPTY.
4. Keep the response concise and aligned with the field intent.
5. Set confidence to 0.0 when returning EMPTY.`

// DefaultPrompts returns the compiled-in prompt blocks.
func DefaultPrompts() Prompts {
	return Prompts{
		ExtractionRules: defaultExtractionRules,
		AutofillRules:   defaultAutofillRules,
	}
}

// LoadPrompts returns the defaults overlaid with any overrides found in dir
// (typically "configs/prompts"). A missing dir or file is not an error; a
// malformed override file is.
func LoadPrompts(dir string) (Prompts, error) {
	p := DefaultPrompts()
	path := filepath.Join(dir, "prompts.yaml")
	b, err := os.ReadFile(path) // #nosec G304 -- operator-controlled config path
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return Prompts{}, fmt.Errorf("op=config.LoadPrompts: %w", err)
	}
	var override Prompts
	if err := yaml.Unmarshal(b, &override); err != nil {
		return Prompts{}, fmt.Errorf("op=config.LoadPrompts: parse %s: %w", path, err)
	}
	if override.ExtractionRules != "" {
		p.ExtractionRules = override.ExtractionRules
	}
	if override.AutofillRules != "" {
		p.AutofillRules = override.AutofillRules
	}
	return p, nil
}
