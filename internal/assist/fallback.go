package assist

import "strings"

// SplitSentences is the deterministic non-AI summarizer: naive
// sentence splitting on terminal punctuation, keeping the first few
// sentences as bullets.
func SplitSentences(text string, max int) []string {
	if max <= 0 {
		max = 5
	}
	var bullets []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			sentence := strings.TrimSpace(current.String())
			if sentence != "" && sentence != "." && sentence != "!" && sentence != "?" {
				bullets = append(bullets, sentence)
			}
			current.Reset()
			if len(bullets) == max {
				return bullets
			}
		}
	}
	if tail := strings.TrimSpace(current.String()); tail != "" && len(bullets) < max {
		bullets = append(bullets, tail)
	}
	return bullets
}

// ResumeChecklist is the deterministic resume reviewer used when no
// LLM is configured: structural checks over the raw text.
func ResumeChecklist(resume string) []string {
	lower := strings.ToLower(resume)
	var tips []string

	if len(strings.TrimSpace(resume)) < 400 {
		tips = append(tips, "Your resume looks short; aim for at least half a page of concrete detail.")
	}
	for _, section := range []string{"Education", "Experience", "Skills"} {
		if !strings.Contains(lower, strings.ToLower(section)) {
			tips = append(tips, "Consider adding a dedicated \""+section+"\" section.")
		}
	}
	if !strings.ContainsAny(resume, "0123456789") {
		tips = append(tips, "Quantify your impact where you can, e.g. team sizes, percentages, counts.")
	}
	if !strings.Contains(lower, "@") {
		tips = append(tips, "Make sure your contact email is listed.")
	}
	if len(tips) == 0 {
		tips = append(tips, "Covers the basics well; tailor the top third to each posting.")
	}
	return tips
}

// WellnessFallback returns fixed tips, optionally prefixed by the
// student's focus areas.
func WellnessFallback(focus []string) []string {
	tips := []string{
		"Keep a consistent sleep schedule, even on weekends.",
		"Block short breaks between study sessions and actually take them.",
		"A 20-minute walk outside counts as both exercise and a reset.",
		"Reach out to campus counseling early; you do not need a crisis to book time.",
	}
	if len(focus) > 0 {
		tips = append([]string{"Focus areas noted: " + strings.Join(focus, ", ") + "."}, tips...)
	}
	return tips
}
