package parse

// Heuristic field recovery from raw résumé text. Everything here is
// rule-and-pattern based: no statistical inference, no language models.
// The extraction is best effort and the caller treats it that way.

import (
	"regexp"
	"strings"
	"time"
)

const (
	// Thresholds below are behavioral contracts, not tuning knobs.
	nameScanLines     = 5
	summaryMaxLines   = 4
	summaryMinLineLen = 20
	maxDescriptionLen = 200
)

var (
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`(?:\+?1[\s.-]?)?(?:\(\d{3}\)|\d{3})[\s.-]?\d{3}[\s.-]?\d{4}`)
	namePattern     = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)+\b`)
	locationPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?: [A-Z][a-z]+)?, [A-Z]{2}\b`)
	yearPattern     = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	numericDate     = regexp.MustCompile(`\b\d{1,2}[/-]\d{4}\b`)
)

// Parser extracts structured fields from plain text using the injected
// vocabularies. The zero value is not usable; construct with New.
type Parser struct {
	cfg Config
}

// New constructs a Parser. Missing config fields fall back to defaults.
func New(cfg Config) *Parser {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Parser{cfg: cfg}
}

// Parse recovers structured career data from raw text. It is total over any
// input: it never fails, and the same text always yields the same record
// (the graduation-year fallback uses the injected clock).
func (p *Parser) Parse(text string) Resume {
	lines := splitLines(text)

	resume := Resume{
		Email:     emailPattern.FindString(text),
		Phone:     phonePattern.FindString(text),
		Location:  locationPattern.FindString(text),
		Skills:    matchVocabulary(text, p.cfg.Skills),
		Languages: matchVocabulary(text, p.cfg.Languages),
	}
	resume.FullName = p.findName(lines, resume.Email)
	resume.Summary = p.findSummary(lines)
	resume.Experience = p.scanExperience(lines)
	resume.Education = p.scanEducation(lines)

	return resume
}

// splitLines breaks text into trimmed, non-empty lines in document order.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if trimmed := strings.TrimSpace(l); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// findName scans the first few lines for a title-case word pair that is not
// the email address. Falls back to the first line verbatim.
func (p *Parser) findName(lines []string, email string) string {
	if len(lines) == 0 {
		return ""
	}
	limit := nameScanLines
	if len(lines) < limit {
		limit = len(lines)
	}
	for i := 0; i < limit; i++ {
		candidate := namePattern.FindString(lines[i])
		if candidate == "" {
			continue
		}
		if email != "" && strings.Contains(candidate, email) {
			continue
		}
		return candidate
	}
	return lines[0]
}

// findSummary locates the first summary-style header and collects up to
// summaryMaxLines following lines that read like prose: non-empty, not
// all-uppercase, longer than summaryMinLineLen characters. Collection stops
// at the first line failing those criteria once at least one line was taken.
func (p *Parser) findSummary(lines []string) string {
	start := -1
	for i, line := range lines {
		if containsAny(strings.ToLower(line), p.cfg.SummaryHeaders) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	var collected []string
	for i := start; i < len(lines) && len(collected) < summaryMaxLines; i++ {
		line := lines[i]
		if len(line) > summaryMinLineLen && line != strings.ToUpper(line) {
			collected = append(collected, line)
			continue
		}
		if len(collected) > 0 {
			break
		}
	}
	return strings.Join(collected, " ")
}

// matchVocabulary reports vocabulary terms occurring anywhere in text under
// case-insensitive substring matching, in vocabulary order.
func matchVocabulary(text string, vocab []string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, term := range vocab {
		if strings.Contains(lower, strings.ToLower(term)) {
			out = append(out, term)
		}
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func containsUpper(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

func firstYear(lines []string) (int, bool) {
	for _, line := range lines {
		if match := yearPattern.FindString(line); match != "" {
			year := 0
			for _, r := range match {
				year = year*10 + int(r-'0')
			}
			return year, true
		}
	}
	return 0, false
}

func hasDate(line string) bool {
	return yearPattern.MatchString(line) || numericDate.MatchString(line)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
