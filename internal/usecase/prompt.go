package usecase

import (
	"fmt"
	"strings"

	"github.com/jobautofill/backend/internal/config"
	"github.com/jobautofill/backend/internal/domain"
	"github.com/jobautofill/backend/internal/intent"
)

// buildExtractionPrompt asks the model to turn raw resume text into the
// structured-resume JSON schema.
func buildExtractionPrompt(p config.Prompts, rawText string) string {
	var b strings.Builder
	b.WriteString(p.ExtractionRules)
	b.WriteString("\n\nSchema:\n")
	b.WriteString(`{
  "personal_info": {"name": "", "email": "", "phone": "", "linkedin": "", "github": ""},
  "education": [{"degree": "", "institution": "", "year": "", "score": "", "location": ""}],
  "experience": [{"title": "", "company": "", "duration": "", "description": "", "location": ""}],
  "skills": [""]
}`)
	b.WriteString("\n\nResume text:\n")
	b.WriteString(rawText)
	return b.String()
}

// buildAutofillPrompt asks the model to answer one form field from the resume.
// The focused context leads; the full snapshot follows for anything the
// focused sections miss.
func buildAutofillPrompt(p config.Prompts, q domain.FieldQuery, res intent.Result, focusedContext, resumeJSON string) string {
	var b strings.Builder
	b.WriteString("You are filling a job-application form field using the candidate's resume.\n\n")
	fmt.Fprintf(&b, "Field Label: %s\n", q.Label)
	fmt.Fprintf(&b, "Field Name: %s\n", q.Name)
	if q.Placeholder != "" {
		fmt.Fprintf(&b, "Field Placeholder: %s\n", q.Placeholder)
	}
	if q.Type != "" {
		fmt.Fprintf(&b, "Field Type: %s\n", q.Type)
	}
	fmt.Fprintf(&b, "Field Intent: %s (%s)\n\n", res.Type, res.Rationale)
	b.WriteString("Relevant resume data:\n")
	b.WriteString(focusedContext)
	b.WriteString("\n\nFull resume:\n")
	b.WriteString(resumeJSON)
	b.WriteString("\n\n")
	b.WriteString(p.AutofillRules)
	b.WriteString("\n\nRespond with ONLY this JSON shape:\n")
	b.WriteString(`{"suggested_value": "", "confidence": 0.0, "reasoning": "", "field_matched": ""}`)
	return b.String()
}
