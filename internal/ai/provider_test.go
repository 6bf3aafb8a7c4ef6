package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"resume-vault/internal/profiles"
	"resume-vault/internal/resume"
	"resume-vault/internal/shared/apperr"
)

type fakeCompleter struct {
	reply     string
	err       error
	block     bool
	prompts   []string
	maxTokens []int
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.maxTokens = append(f.maxTokens, maxTokens)
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func testProfile() profiles.Profile {
	return profiles.Profile{
		UserID:               "u1",
		PersonalInfo:         profiles.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		ProfessionalHeadline: "Backend Engineer",
		Summary:              "Builds services.",
		WorkExperience: []profiles.WorkExperience{
			{JobTitle: "Engineer", CompanyName: "Acme", StartDate: "2020", CurrentlyWorking: true, Responsibilities: []string{"Built APIs"}},
		},
		Skills: []profiles.Skill{{Name: "Go"}, {Name: "Postgres"}},
	}
}

func testJob() resume.JobPosting {
	return resume.JobPosting{CompanyName: "Globex", Position: "Staff Engineer", JobDescription: "Go and distributed systems."}
}

const validTailored = `{"tailored_summary":"Go engineer.","tailored_experience":[{"jobTitle":"Engineer","companyName":"Acme","tailored_bullets":["Led API work"]}],"keyword_matches":["Go"],"recommendations":"Add metrics"}`

func TestTailorResumeParsesResponse(t *testing.T) {
	fc := &fakeCompleter{reply: "```json\n" + validTailored + "\n```"}
	p := NewLLMProvider("fake", fc, Options{MaxTokens: 2048})

	got, err := p.TailorResume(context.Background(), testProfile(), testJob())
	if err != nil {
		t.Fatalf("TailorResume: %v", err)
	}
	if got.TailoredSummary != "Go engineer." || len(got.TailoredExperience) != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if fc.maxTokens[0] != 2048 {
		t.Fatalf("maxTokens = %d", fc.maxTokens[0])
	}
	if !strings.Contains(fc.prompts[0], "Company: Globex") || !strings.Contains(fc.prompts[0], "- Engineer at Acme (2020 - Present)") {
		t.Fatalf("prompt missing job or experience:\n%s", fc.prompts[0])
	}
}

func TestTailorResumeInvalidJSONIsProviderError(t *testing.T) {
	fc := &fakeCompleter{reply: "I cannot help with that."}
	p := NewLLMProvider("fake", fc, Options{})

	_, err := p.TailorResume(context.Background(), testProfile(), testJob())
	if apperr.KindOf(err) != apperr.KindProvider {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestCompleterErrorIsProviderError(t *testing.T) {
	fc := &fakeCompleter{err: errors.New("connection reset")}
	p := NewLLMProvider("fake", fc, Options{})

	_, err := p.GenerateCoverLetter(context.Background(), testProfile(), testJob(), resume.TailoredResume{})
	if !errors.Is(err, apperr.Provider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestTimeoutIsProviderError(t *testing.T) {
	fc := &fakeCompleter{block: true}
	p := NewLLMProvider("fake", fc, Options{Timeout: 20 * time.Millisecond})

	_, err := p.TailorResume(context.Background(), testProfile(), testJob())
	if apperr.KindOf(err) != apperr.KindProvider {
		t.Fatalf("expected provider error, got %v", err)
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("expected timeout message, got %v", err)
	}
}

func TestGenerateCoverLetterTrims(t *testing.T) {
	fc := &fakeCompleter{reply: "\n Dear Hiring Manager,\n\nBody.\n\nSincerely,\nAda Lovelace \n"}
	p := NewLLMProvider("fake", fc, Options{})

	got, err := p.GenerateCoverLetter(context.Background(), testProfile(), testJob(), resume.TailoredResume{KeywordMatches: []string{"a", "b", "c", "d", "e", "f"}})
	if err != nil {
		t.Fatalf("GenerateCoverLetter: %v", err)
	}
	if !strings.HasPrefix(got, "Dear Hiring Manager,") || !strings.HasSuffix(got, "Ada Lovelace") {
		t.Fatalf("unexpected letter %q", got)
	}
	if !strings.Contains(fc.prompts[0], "Key Strengths: a, b, c, d, e\n") {
		t.Fatalf("expected five strengths in prompt:\n%s", fc.prompts[0])
	}
}

func TestEmptyCoverLetterIsProviderError(t *testing.T) {
	p := NewLLMProvider("fake", &fakeCompleter{reply: "  "}, Options{})
	_, err := p.GenerateCoverLetter(context.Background(), testProfile(), testJob(), resume.TailoredResume{})
	if apperr.KindOf(err) != apperr.KindProvider {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestGenerateHTMLResume(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		wantErr bool
	}{
		{name: "fenced document", reply: "```html\n<!DOCTYPE html><html><body>x</body></html>\n```"},
		{name: "fragment", reply: "<div data-section=\"summary\">x</div>"},
		{name: "prose", reply: "Sorry, here is your resume.", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewLLMProvider("fake", &fakeCompleter{reply: tt.reply}, Options{})
			got, err := p.GenerateHTMLResume(context.Background(), testProfile(), resume.TailoredResume{}, testJob())
			if tt.wantErr {
				if apperr.KindOf(err) != apperr.KindProvider {
					t.Fatalf("expected provider error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("GenerateHTMLResume: %v", err)
			}
			if strings.Contains(got, "```") {
				t.Fatalf("fences not stripped: %q", got)
			}
		})
	}
}

func TestRegenerateHTMLWithEditsIncludesEdits(t *testing.T) {
	fc := &fakeCompleter{reply: "<html><body>new</body></html>"}
	p := NewLLMProvider("fake", fc, Options{})
	edits := resume.EditableContent{
		Summary:     "Edited summary",
		Experiences: []resume.EditableExperience{{JobTitle: "Engineer", Company: "Acme", Bullets: []string{"Shipped v2"}}},
	}
	if _, err := p.RegenerateHTMLWithEdits(context.Background(), "<html>old</html>", edits, testJob()); err != nil {
		t.Fatalf("RegenerateHTMLWithEdits: %v", err)
	}
	for _, want := range []string{"Edited summary", "- Engineer | Acme", "  * Shipped v2", "<html>old</html>"} {
		if !strings.Contains(fc.prompts[0], want) {
			t.Fatalf("prompt missing %q:\n%s", want, fc.prompts[0])
		}
	}
}

func TestHealthCheck(t *testing.T) {
	ok := &fakeCompleter{reply: "OK"}
	if !NewLLMProvider("fake", ok, Options{}).HealthCheck(context.Background()) {
		t.Fatalf("expected healthy")
	}
	if ok.prompts[0] != healthPrompt || ok.maxTokens[0] != healthMaxTokens {
		t.Fatalf("unexpected health call %q %d", ok.prompts[0], ok.maxTokens[0])
	}
	bad := &fakeCompleter{err: errors.New("down")}
	if NewLLMProvider("fake", bad, Options{}).HealthCheck(context.Background()) {
		t.Fatalf("expected unhealthy")
	}
}
