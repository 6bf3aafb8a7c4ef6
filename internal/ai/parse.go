package ai

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"resume-vault/internal/resume"
)

//go:embed schema/tailored_resume.schema.json
var tailoredSchemaJSON string

var (
	tailoredSchema = mustSchema(tailoredSchemaJSON)
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("tailored resume schema: %v", err))
	}
	return s
}

type rawTailored struct {
	TailoredSummary    string                      `json:"tailored_summary"`
	TailoredExperience []resume.TailoredExperience `json:"tailored_experience"`
	KeywordMatches     []string                    `json:"keyword_matches"`
	Recommendations    json.RawMessage             `json:"recommendations"`
}

// ParseTailoredResume turns raw model output into a TailoredResume. It never
// falls back to empty defaults: unusable output is an error.
func ParseTailoredResume(raw string) (resume.TailoredResume, error) {
	body := cleanJSON(raw)
	if body == "" {
		return resume.TailoredResume{}, fmt.Errorf("no JSON object in response")
	}

	result, err := tailoredSchema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return resume.TailoredResume{}, fmt.Errorf("decode response: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return resume.TailoredResume{}, fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
	}

	var parsed rawTailored
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return resume.TailoredResume{}, fmt.Errorf("decode response: %w", err)
	}

	out := resume.TailoredResume{
		TailoredSummary:    strings.TrimSpace(parsed.TailoredSummary),
		TailoredExperience: parsed.TailoredExperience,
		KeywordMatches:     parsed.KeywordMatches,
		Recommendations:    recommendationsText(parsed.Recommendations),
	}
	if out.TailoredExperience == nil {
		out.TailoredExperience = []resume.TailoredExperience{}
	}
	if out.KeywordMatches == nil {
		out.KeywordMatches = []string{}
	}
	return out, nil
}

// cleanJSON strips fences and control characters, then narrows to the
// outermost object when the text is not already valid JSON.
func cleanJSON(raw string) string {
	s := resume.StripCodeFences(raw)
	s = controlChars.ReplaceAllString(s, "")
	if json.Valid([]byte(s)) {
		return s
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// recommendationsText accepts either a string or a list of strings.
func recommendationsText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "\n")
	}
	return ""
}

// CleanHTML strips fences from model-authored HTML and rejects output that
// carries no markup.
func CleanHTML(raw string) (string, error) {
	s := resume.StripCodeFences(raw)
	lower := strings.ToLower(s)
	if !strings.Contains(lower, "<html") && !strings.Contains(lower, "<body") && !strings.Contains(lower, "<div") {
		return "", fmt.Errorf("response is not an HTML document")
	}
	return s, nil
}
