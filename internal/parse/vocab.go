package parse

import "time"

// Config carries the keyword tables and vocabularies the parser matches
// against. Tables are plain data so tests can inject their own.
type Config struct {
	// Skills and Languages are matched case-insensitively as substrings of
	// the whole text; hits are reported in vocabulary order.
	Skills    []string
	Languages []string

	// Section header keywords, matched case-insensitively per line.
	SummaryHeaders    []string
	ExperienceHeaders []string
	EducationHeaders  []string

	// ExperienceStop ends experience scanning entirely.
	ExperienceStop []string

	// DegreeKeywords mark a line as an education entry once inside the
	// education section.
	DegreeKeywords []string

	// Now supplies the clock used for the graduation-year fallback.
	// Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the stock vocabularies.
func DefaultConfig() Config {
	return Config{
		Skills: []string{
			"python", "java", "javascript", "typescript", "go", "c++", "c#",
			"ruby", "php", "swift", "kotlin", "scala", "rust",
			"react", "angular", "vue", "node.js", "django", "flask", "spring",
			"html", "css", "sql", "postgresql", "mysql", "mongodb", "redis",
			"elasticsearch", "kafka",
			"docker", "kubernetes", "terraform", "jenkins", "git", "linux",
			"aws", "azure", "gcp",
			"machine learning", "deep learning", "data analysis", "nlp",
			"rest", "graphql", "microservices", "agile", "scrum",
		},
		Languages: []string{
			"english", "spanish", "french", "german", "italian", "portuguese",
			"russian", "mandarin", "chinese", "japanese", "korean", "arabic",
			"hindi", "dutch",
		},
		SummaryHeaders:    []string{"summary", "objective", "profile", "about"},
		ExperienceHeaders: []string{"experience", "employment", "work history", "career"},
		EducationHeaders:  []string{"education", "qualifications", "academic", "degree"},
		ExperienceStop:    []string{"education", "qualifications"},
		DegreeKeywords:    []string{"degree", "bachelor", "master", "phd", "diploma", "certificate"},
		Now:               time.Now,
	}
}
