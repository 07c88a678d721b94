package course

import "encoding/json"

// Default values applied when a source field is missing or blank.
const (
	DefaultTitle    = "Untitled Course"
	DefaultSemester = "N/A"
	DefaultOutcome  = "CO"
)

// VideoLink points at supplementary material for a module.
type VideoLink struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// Module is one syllabus module of a course.
type Module struct {
	Number       int         `json:"number"`
	ContentLines []string    `json:"content"`
	ContactHours *float64    `json:"contact_hours"`
	VideoLinks   []VideoLink `json:"video_links,omitempty"`
}

// Outcome is a single course outcome with its Bloom knowledge level.
type Outcome struct {
	Code           string `json:"code"`
	Description    string `json:"description"`
	KnowledgeLevel string `json:"knowledge_level"`
}

// BookRef is either a plain-text reference (Text set, rest empty) or a
// structured one carrying whatever bibliographic fields the source had.
type BookRef struct {
	Text      string `json:"text,omitempty"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Edition   string `json:"edition,omitempty"`
	Year      int    `json:"year,omitempty"`
}

// Course is the canonical record derived from one raw course object.
// Immutable once built; every field has a defined fallback, so building
// one can never fail regardless of how malformed the input is.
type Course struct {
	Code          string    `json:"code"`
	Title         string    `json:"title"`
	Semester      string    `json:"semester"`
	Credits       float64   `json:"credits"`
	CourseType    string    `json:"course_type"`
	Group         string    `json:"group"`
	Prerequisites []string  `json:"prerequisites"`
	ExamHours     string    `json:"exam_hours"`
	CIEMarks      *float64  `json:"cie_marks,omitempty"`
	ESEMarks      *float64  `json:"ese_marks,omitempty"`
	Objectives    []string  `json:"objectives"`
	Modules       []Module  `json:"modules"`
	Outcomes      []Outcome `json:"outcomes"`

	// Assessment is the raw CIE/ESE breakdown sub-object, passed through
	// untouched for the view's breakdown tables.
	Assessment json.RawMessage `json:"assessment,omitempty"`

	Textbooks      []BookRef `json:"textbooks"`
	ReferenceBooks []BookRef `json:"reference_books"`

	// SearchableText is the lowercased concatenation of all text-bearing
	// fields, in a fixed order so search results are deterministic.
	SearchableText string `json:"-"`
	// ModuleSearchText covers module content only (module-scoped filter).
	ModuleSearchText string `json:"-"`
}
