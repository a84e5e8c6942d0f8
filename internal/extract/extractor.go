// Package extract answers form fields straight from a structured resume.
//
// Language models are good at fuzzy matching but unreliable for simple data
// extraction, so unambiguous fields (names, email, links) are answered here
// with no model call. Rules form an ordered table over substrings of the
// lowercased label+name; the first matching rule returns, each at a fixed
// confidence reflecting how unambiguous that field type is.
package extract

import (
	"fmt"
	"strings"

	"github.com/jobautofill/backend/internal/domain"
)

// noMatch is the no-match/no-data sentinel.
const noMatch = "No matching field detected"

// Extractor evaluates the deterministic rule table. Pure: no side effects,
// no model calls.
type Extractor struct {
	// DefaultCountry is returned for country fields, which resumes do not
	// model. Empty disables the rule's answer.
	DefaultCountry string
}

// New constructs an Extractor with the given country fallback.
func New(defaultCountry string) *Extractor {
	return &Extractor{DefaultCountry: defaultCountry}
}

type extractRule struct {
	name  string
	match func(label string) bool
	fn    func(e *Extractor, r domain.StructuredResume) domain.ExtractedValue
}

func has(label string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(label, s) {
			return true
		}
	}
	return false
}

func all(label string, subs ...string) bool {
	for _, s := range subs {
		if !strings.Contains(label, s) {
			return false
		}
	}
	return true
}

// ruleTable is ordered: link fields before name fields, specific phone rules
// before the bare "country" rule, education-year phrasing before the generic
// education fallback.
var ruleTable = []extractRule{
	{"github", func(l string) bool { return has(l, "github") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return presenceValue(r.PersonalInfo.GitHub, 0.95, "Used personal_info.github", "GitHub URL not available")
		}},
	{"linkedin", func(l string) bool { return has(l, "linkedin") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return presenceValue(r.PersonalInfo.LinkedIn, 0.95, "Used personal_info.linkedin", "LinkedIn URL not available")
		}},
	// Lossy heuristic carried over from the original system: with no dedicated
	// portfolio field in the schema, the LinkedIn value stands in at reduced
	// confidence.
	{"portfolio", func(l string) bool {
		return has(l, "portfolio", "website") || (has(l, "url") && has(l, "portfolio", "site"))
	},
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return presenceValue(r.PersonalInfo.LinkedIn, 0.60, "Using LinkedIn as closest portfolio link", "Portfolio URL not found")
		}},
	{"first_name", func(l string) bool { return all(l, "first", "name") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return domain.ExtractedValue{Value: firstToken(r.PersonalInfo.Name), Confidence: 0.99, Reasoning: "Extracted first name from personal_info.name"}
		}},
	{"last_name", func(l string) bool { return all(l, "last", "name") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return domain.ExtractedValue{Value: lastToken(r.PersonalInfo.Name), Confidence: 0.99, Reasoning: "Extracted last name from personal_info.name"}
		}},
	{"given_name", func(l string) bool { return all(l, "given", "name") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return domain.ExtractedValue{Value: firstToken(r.PersonalInfo.Name), Confidence: 0.99, Reasoning: "Extracted given name from personal_info.name"}
		}},
	{"family_name", func(l string) bool { return has(l, "family", "surname") && has(l, "name") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return domain.ExtractedValue{Value: lastToken(r.PersonalInfo.Name), Confidence: 0.99, Reasoning: "Extracted family name from personal_info.name"}
		}},
	{"full_name", func(l string) bool { return all(l, "full", "name") && !has(l, "first", "last") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return domain.ExtractedValue{Value: r.PersonalInfo.Name, Confidence: 0.99, Reasoning: "Used full name from personal_info.name"}
		}},
	{"email", func(l string) bool { return has(l, "email", "e-mail") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return presenceValue(r.PersonalInfo.Email, 0.99, "Used personal_info.email", "Email not available")
		}},
	{"phone", func(l string) bool { return has(l, "phone") && !has(l, "code", "extension") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return presenceValue(digitsOnly(r.PersonalInfo.Phone), 0.99, "Extracted phone number (digits only)", "Phone number not available")
		}},
	{"country_code", func(l string) bool { return all(l, "country", "code") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return presenceValue(countryCode(r.PersonalInfo.Phone), 0.99, "Extracted country code from phone", "Country code not available")
		}},
	{"extension", func(l string) bool { return has(l, "extension") },
		func(_ *Extractor, _ domain.StructuredResume) domain.ExtractedValue {
			return domain.ExtractedValue{Value: "", Confidence: 0.99, Reasoning: "Extension not available in resume"}
		}},
	{"address_line", func(l string) bool { return all(l, "address", "line") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return domain.ExtractedValue{Value: city(r), Confidence: 0.85, Reasoning: "Extracted address from resume"}
		}},
	{"city", func(l string) bool { return has(l, "city") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return domain.ExtractedValue{Value: city(r), Confidence: 0.95, Reasoning: "Extracted city from address"}
		}},
	{"postal", func(l string) bool { return has(l, "postal", "zip", "pin") },
		func(_ *Extractor, _ domain.StructuredResume) domain.ExtractedValue {
			return domain.ExtractedValue{Value: "", Confidence: 0.85, Reasoning: "Postal code not consistently available"}
		}},
	{"country", func(l string) bool { return has(l, "country") },
		func(e *Extractor, _ domain.StructuredResume) domain.ExtractedValue {
			return domain.ExtractedValue{Value: e.DefaultCountry, Confidence: 0.75, Reasoning: fmt.Sprintf("Assuming %s (not in resume)", e.DefaultCountry)}
		}},
	{"state", func(l string) bool { return has(l, "state", "province", "region") },
		func(_ *Extractor, _ domain.StructuredResume) domain.ExtractedValue {
			return domain.ExtractedValue{Value: "", Confidence: 0.70, Reasoning: "State not clearly available"}
		}},
	{"skills", func(l string) bool { return has(l, "skill", "technical", "competenc", "expertise") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			return presenceValue(strings.Join(r.Skills, ", "), 0.95, "Joined skills array with commas", "Skills not captured")
		}},
	{"experience", func(l string) bool { return has(l, "experience", "work") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			if !r.HasExperience() {
				return domain.ExtractedValue{Reasoning: noMatch}
			}
			exp := r.Experience[0]
			return domain.ExtractedValue{
				Value:      fmt.Sprintf("%s at %s (%s)", exp.Title, exp.Company, exp.Duration),
				Confidence: 0.85,
				Reasoning:  "Summarized experience",
			}
		}},
	{"institution", func(l string) bool { return has(l, "college", "university", "institution", "school") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			if !r.HasEducation() {
				return domain.ExtractedValue{Reasoning: noMatch}
			}
			return presenceValue(r.Education[0].Institution, 0.95, "Used most recent institution", "Institution not found")
		}},
	{"degree", func(l string) bool { return has(l, "degree", "course", "program", "major") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			if !r.HasEducation() {
				return domain.ExtractedValue{Reasoning: noMatch}
			}
			return presenceValue(r.Education[0].Degree, 0.9, "Used most recent degree", "Degree not specified")
		}},
	{"graduation_year", func(l string) bool {
		return has(l, "graduation", "passing", "passout") ||
			(has(l, "year") && has(l, "grad", "completion", "passing"))
	},
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			if !r.HasEducation() {
				return domain.ExtractedValue{Reasoning: noMatch}
			}
			return presenceValue(r.Education[0].Year, 0.9, "Used most recent graduation year", "Graduation year not present")
		}},
	{"education", func(l string) bool { return has(l, "education", "qualification", "degree") },
		func(_ *Extractor, r domain.StructuredResume) domain.ExtractedValue {
			if !r.HasEducation() {
				return domain.ExtractedValue{Reasoning: noMatch}
			}
			edu := r.Education[0]
			return domain.ExtractedValue{
				Value:      fmt.Sprintf("%s from %s (%s)", edu.Degree, edu.Institution, edu.Year),
				Confidence: 0.85,
				Reasoning:  "Used most recent education",
			}
		}},
}

// Extract answers a field from the resume, or returns the no-match sentinel.
func (e *Extractor) Extract(fieldLabel, fieldName string, resume domain.StructuredResume) domain.ExtractedValue {
	label := strings.ToLower(fieldLabel + " " + fieldName)

	for _, rule := range ruleTable {
		if !rule.match(label) {
			continue
		}
		v := rule.fn(e, resume)
		if v.Reasoning == noMatch && v.Value == "" && v.Confidence == 0 {
			// Rule hit but its resume section is absent; fall through to the
			// next rule in precedence order.
			continue
		}
		return v
	}
	return domain.ExtractedValue{Value: "", Confidence: 0.0, Reasoning: noMatch}
}

func presenceValue(value string, confidence float64, okReason, missingReason string) domain.ExtractedValue {
	if value == "" {
		return domain.ExtractedValue{Value: "", Confidence: 0.0, Reasoning: missingReason}
	}
	return domain.ExtractedValue{Value: value, Confidence: confidence, Reasoning: okReason}
}

func firstToken(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func lastToken(fullName string) string {
	parts := strings.Fields(fullName)
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}

func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func countryCode(phone string) string {
	if !strings.Contains(phone, "+") {
		return ""
	}
	parts := strings.Split(phone, " ")
	if len(parts) > 0 && strings.HasPrefix(parts[0], "+") {
		return parts[0]
	}
	return ""
}

// city reads the first comma-delimited segment of the most recent experience
// location, falling back to the most recent education location.
func city(r domain.StructuredResume) string {
	if r.HasExperience() && r.Experience[0].Location != "" {
		return strings.TrimSpace(strings.Split(r.Experience[0].Location, ",")[0])
	}
	if r.HasEducation() && r.Education[0].Location != "" {
		return strings.TrimSpace(strings.Split(r.Education[0].Location, ",")[0])
	}
	return ""
}
