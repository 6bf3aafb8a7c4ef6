package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"resume-vault/internal/ai"
	"resume-vault/internal/profiles"
	"resume-vault/internal/render"
	"resume-vault/internal/resume"
	"resume-vault/internal/shared/config"
)

func main() {
	cfg := config.Load()

	profilePath := flag.String("profile", "", "Path to profile JSON")
	jdPath := flag.String("jd", "", "Path to job description file")
	company := flag.String("company", "", "Company name")
	position := flag.String("position", "", "Position title")
	step := flag.String("step", "tailor", "Prompt to run: tailor, cover or html")
	outPath := flag.String("out", "", "Path to write output (optional)")
	provider := flag.String("provider", cfg.AI.Provider, "AI provider")
	flag.Parse()

	if strings.TrimSpace(*profilePath) == "" || strings.TrimSpace(*jdPath) == "" {
		exitErr("profile and jd paths are required")
	}

	var profile profiles.Profile
	raw, err := os.ReadFile(*profilePath)
	if err != nil {
		exitErr(fmt.Sprintf("read profile: %v", err))
	}
	if err := json.Unmarshal(raw, &profile); err != nil {
		exitErr(fmt.Sprintf("decode profile: %v", err))
	}
	profile.Normalize()

	jd, err := os.ReadFile(*jdPath)
	if err != nil {
		exitErr(fmt.Sprintf("read job description: %v", err))
	}
	job := resume.JobPosting{CompanyName: *company, Position: *position, JobDescription: string(jd)}

	cfg.AI.Provider = *provider
	p, err := ai.NewProvider(cfg.AI)
	if err != nil {
		exitErr(err.Error())
	}

	ctx := context.Background()
	tailored, err := p.TailorResume(ctx, profile, job)
	if err != nil {
		exitErr(fmt.Sprintf("tailor: %v", err))
	}
	tailored = render.ClampTailored(tailored, len(profile.WorkExperience))

	var out []byte
	switch strings.TrimSpace(*step) {
	case "tailor":
		out, err = json.MarshalIndent(tailored, "", "  ")
	case "cover":
		var letter string
		letter, err = p.GenerateCoverLetter(ctx, profile, job, tailored)
		out = []byte(letter)
	case "html":
		var html string
		html, err = p.GenerateHTMLResume(ctx, profile, tailored, job)
		out = []byte(html)
	default:
		exitErr(fmt.Sprintf("unsupported step: %s", *step))
	}
	if err != nil {
		exitErr(fmt.Sprintf("%s: %v", *step, err))
	}

	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	if *outPath != "" {
		if err := os.WriteFile(*outPath, out, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(out); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
