package parse

// Resume is the structured record recovered from raw résumé text.
// Scalar fields use "" for "not found".
type Resume struct {
	FullName   string            `json:"fullName"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Location   string            `json:"location"`
	Summary    string            `json:"summary"`
	Skills     []string          `json:"skills"`
	Languages  []string          `json:"languages"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
}

// ExperienceEntry is a single work-history item.
type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// EducationEntry is a single education item. GPA is never extracted and is
// kept only so user edits have a place to land.
type EducationEntry struct {
	Degree         string `json:"degree"`
	Institution    string `json:"institution"`
	GraduationYear int    `json:"graduationYear"`
	GPA            string `json:"gpa"`
}
