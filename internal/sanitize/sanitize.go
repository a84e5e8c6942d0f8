// Package sanitize normalizes loosely-typed resume JSON ahead of strict
// schema binding.
//
// Language models frequently emit single-element arrays where a scalar string
// was requested. This pass collapses those shapes before binding; without it
// binding fails outright. It is best-effort (malformed input passes through
// unchanged) and idempotent.
package sanitize

import (
	"encoding/json"
	"strings"
)

// Fields holding scalar strings that models tend to wrap in arrays, per section.
var (
	educationStringFields    = []string{"year", "score", "location"}
	experienceStringFields   = []string{"title", "company", "duration", "description", "location"}
	personalInfoStringFields = []string{"name", "email", "phone", "linkedin", "github"}
)

// ResumeJSON normalizes a raw extraction payload into the strict resume
// schema shape. On any parse failure the input is returned unchanged.
func ResumeJSON(rawJSON string) string {
	var root map[string]any
	if err := json.Unmarshal([]byte(rawJSON), &root); err != nil {
		return rawJSON
	}

	if edu, ok := root["education"].([]any); ok {
		for _, item := range edu {
			if obj, ok := item.(map[string]any); ok {
				collapseStringFields(obj, educationStringFields)
			}
		}
	}
	if exp, ok := root["experience"].([]any); ok {
		for _, item := range exp {
			if obj, ok := item.(map[string]any); ok {
				collapseStringFields(obj, experienceStringFields)
			}
		}
	}
	if pi, ok := root["personal_info"].(map[string]any); ok {
		collapseStringFields(pi, personalInfoStringFields)
	}
	if skills, ok := root["skills"].([]any); ok {
		root["skills"] = flattenSkills(skills)
	}

	out, err := json.Marshal(root)
	if err != nil {
		return rawJSON
	}
	return string(out)
}

// collapseStringFields replaces one-element arrays with their element's text
// and multi-element arrays with a ", "-joined string. Scalars and nulls are
// left untouched.
func collapseStringFields(obj map[string]any, fields []string) {
	for _, f := range fields {
		arr, ok := obj[f].([]any)
		if !ok {
			continue
		}
		switch len(arr) {
		case 0:
			// An empty array carries no value either way; leave it alone.
		case 1:
			obj[f] = asText(arr[0])
		default:
			parts := make([]string, len(arr))
			for i, v := range arr {
				parts[i] = asText(v)
			}
			obj[f] = strings.Join(parts, ", ")
		}
	}
}

// flattenSkills flattens one nesting level: string elements pass through,
// array elements contribute their string members, anything else is dropped.
func flattenSkills(skills []any) []any {
	flat := make([]any, 0, len(skills))
	for _, s := range skills {
		switch v := s.(type) {
		case string:
			flat = append(flat, v)
		case []any:
			for _, nested := range v {
				if str, ok := nested.(string); ok {
					flat = append(flat, str)
				}
			}
		}
	}
	return flat
}

func asText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		b, _ := json.Marshal(t)
		return string(b)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
