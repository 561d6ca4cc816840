package parse

// Section scanning is an explicit two-state machine over the line sequence:
// scanning until a section header appears, then collecting entries with
// bounded look-ahead. Experience and education run as independent scans so
// section order in the document does not matter.

import "strings"

type scanState int

const (
	stateScanning scanState = iota
	stateInSection
)

const (
	maxExperienceEntries = 3
	maxEducationEntries  = 2

	titleMinLen       = 10
	dateLookaheadsize = 3
)

// scanExperience collects up to maxExperienceEntries confirmed work-history
// entries. A candidate line (longer than titleMinLen with an uppercase
// letter) is confirmed when one of the next dateLookaheadsize lines carries a
// date. Scanning ends at the first stop keyword.
func (p *Parser) scanExperience(lines []string) []ExperienceEntry {
	state := stateScanning
	var out []ExperienceEntry

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lower := strings.ToLower(line)

		switch state {
		case stateScanning:
			if containsAny(lower, p.cfg.ExperienceHeaders) {
				state = stateInSection
			}
		case stateInSection:
			if containsAny(lower, p.cfg.ExperienceStop) {
				return out
			}
			if len(out) >= maxExperienceEntries {
				return out
			}
			if len(line) <= titleMinLen || !containsUpper(line) {
				continue
			}
			entry, consumed, ok := confirmExperience(line, lookahead(lines, i+1, dateLookaheadsize))
			if !ok {
				continue
			}
			out = append(out, entry)
			i += consumed
		}
	}
	return out
}

// confirmExperience builds an entry from a candidate title line and its
// look-ahead window. The first window line is the company; the first
// date-bearing window line supplies start/end dates; everything else in the
// window becomes the truncated description.
func confirmExperience(title string, window []string) (ExperienceEntry, int, bool) {
	dateIdx := -1
	for i, line := range window {
		if hasDate(line) {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		return ExperienceEntry{}, 0, false
	}

	entry := ExperienceEntry{
		Title:   title,
		Company: window[0],
	}
	entry.StartDate, entry.EndDate = splitDateRange(window[dateIdx])

	var rest []string
	for i, line := range window {
		if i == 0 || i == dateIdx {
			continue
		}
		rest = append(rest, line)
	}
	entry.Description = truncate(strings.Join(rest, " "), maxDescriptionLen)

	return entry, len(window), true
}

// splitDateRange splits a date-bearing line on its first hyphen. A missing
// end half defaults to the literal "Present".
func splitDateRange(line string) (string, string) {
	parts := strings.SplitN(line, "-", 2)
	start := strings.TrimSpace(parts[0])
	if len(parts) < 2 {
		return start, "Present"
	}
	end := strings.TrimSpace(parts[1])
	if end == "" {
		end = "Present"
	}
	return start, end
}

// scanEducation collects up to maxEducationEntries entries. Inside the
// section, any line carrying a degree keyword becomes an entry: the next
// line is the institution, and the graduation year is the first 19xx/20xx
// match across the degree line and the two lines after it, defaulting to the
// current calendar year.
func (p *Parser) scanEducation(lines []string) []EducationEntry {
	state := stateScanning
	var out []EducationEntry

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lower := strings.ToLower(line)

		switch state {
		case stateScanning:
			if containsAny(lower, p.cfg.EducationHeaders) {
				state = stateInSection
			}
		case stateInSection:
			if len(out) >= maxEducationEntries {
				return out
			}
			if !containsAny(lower, p.cfg.DegreeKeywords) {
				continue
			}
			entry := EducationEntry{Degree: line}
			if i+1 < len(lines) {
				entry.Institution = lines[i+1]
			}
			window := append([]string{line}, lookahead(lines, i+1, 2)...)
			if year, ok := firstYear(window); ok {
				entry.GraduationYear = year
			} else {
				entry.GraduationYear = p.cfg.Now().Year()
			}
			out = append(out, entry)
			i++ // institution line is consumed
		}
	}
	return out
}

// lookahead returns up to n lines starting at index start.
func lookahead(lines []string, start, n int) []string {
	if start >= len(lines) {
		return nil
	}
	end := start + n
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}
