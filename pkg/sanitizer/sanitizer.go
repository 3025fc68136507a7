package sanitizer

import "strings"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var emailPipeline = Pipeline{
	strings.TrimSpace,
	strings.ToLower,
}

func NormalizeEmail(email string) string {
	return emailPipeline.Apply(email)
}

// NormalizeText collapses whitespace in free text but keeps line breaks
// between paragraphs, e.g. special requests.
func NormalizeText(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, TrimAndNormalize(line))
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
